package service

import (
	"context"

	"github.com/xxxsen/tutorhub/internal/mail"
	"github.com/xxxsen/tutorhub/internal/model"
)

type TeacherStore interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	GetByEmail(ctx context.Context, email string) (*model.Teacher, error)
	GetByID(ctx context.Context, id string) (*model.Teacher, error)
	List(ctx context.Context) ([]model.Teacher, error)
}

type ParentStore interface {
	Create(ctx context.Context, parent *model.Parent) error
	GetByEmail(ctx context.Context, email string) (*model.Parent, error)
	GetByID(ctx context.Context, id string) (*model.Parent, error)
	MarkEmailVerified(ctx context.Context, id string, mtime int64) error
	LinkGoogle(ctx context.Context, id, googleID string, mtime int64) error
}

type ChildStore interface {
	ListByPrimaryTeacher(ctx context.Context, teacherID string) ([]model.Child, error)
}

type VerificationStore interface {
	Create(ctx context.Context, item *model.EmailVerification) error
	GetByID(ctx context.Context, id string) (*model.EmailVerification, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}

type MailQueue interface {
	Enqueue(msg *mail.Message) error
}
