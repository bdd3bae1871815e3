package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xxxsen/tutorhub/internal/mail"
	"github.com/xxxsen/tutorhub/internal/model"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
)

type TeacherStore struct {
	mu    sync.Mutex
	items map[string]model.Teacher
}

func NewTeacherStore() *TeacherStore {
	return &TeacherStore{items: make(map[string]model.Teacher)}
}

func (s *TeacherStore) Create(_ context.Context, teacher *model.Teacher) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Email == teacher.Email {
			return appErr.ErrConflict
		}
	}
	s.items[teacher.ID] = *teacher
	return nil
}

func (s *TeacherStore) GetByEmail(_ context.Context, email string) (*model.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Email == email {
			found := item
			return &found, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (s *TeacherStore) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &item, nil
}

func (s *TeacherStore) List(_ context.Context) ([]model.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]model.Teacher, 0, len(s.items))
	for _, item := range s.items {
		list = append(list, item)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	return list, nil
}

type ParentStore struct {
	mu    sync.Mutex
	items map[string]model.Parent
	// UpdateErr, when set, fails MarkEmailVerified.
	UpdateErr error
}

func NewParentStore() *ParentStore {
	return &ParentStore{items: make(map[string]model.Parent)}
}

func (s *ParentStore) Create(_ context.Context, parent *model.Parent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Email == parent.Email || (parent.GoogleID != "" && item.GoogleID == parent.GoogleID) {
			return appErr.ErrConflict
		}
	}
	s.items[parent.ID] = *parent
	return nil
}

func (s *ParentStore) GetByEmail(_ context.Context, email string) (*model.Parent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Email == email {
			found := item
			return &found, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (s *ParentStore) GetByID(_ context.Context, id string) (*model.Parent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &item, nil
}

func (s *ParentStore) MarkEmailVerified(_ context.Context, id string, mtime int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	item, ok := s.items[id]
	if !ok {
		return appErr.ErrNotFound
	}
	item.EmailVerified = true
	item.Mtime = mtime
	s.items[id] = item
	return nil
}

func (s *ParentStore) LinkGoogle(_ context.Context, id, googleID string, mtime int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return appErr.ErrNotFound
	}
	item.GoogleID = googleID
	item.EmailVerified = true
	item.Mtime = mtime
	s.items[id] = item
	return nil
}

// Count returns the number of parents stored under email.
func (s *ParentStore) Count(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, item := range s.items {
		if item.Email == email {
			n++
		}
	}
	return n
}

type ChildStore struct {
	mu    sync.Mutex
	items []model.Child
}

func NewChildStore(children ...model.Child) *ChildStore {
	return &ChildStore{items: children}
}

func (s *ChildStore) Add(child model.Child) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, child)
}

func (s *ChildStore) ListByPrimaryTeacher(_ context.Context, teacherID string) ([]model.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]model.Child, 0)
	for _, item := range s.items {
		if item.PrimaryTeacherID == teacherID {
			list = append(list, item)
		}
	}
	return list, nil
}

type VerificationStore struct {
	mu    sync.Mutex
	items map[string]model.EmailVerification
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{items: make(map[string]model.EmailVerification)}
}

func (s *VerificationStore) Create(_ context.Context, item *model.EmailVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; ok {
		return appErr.ErrConflict
	}
	s.items[item.ID] = *item
	return nil
}

func (s *VerificationStore) GetByID(_ context.Context, id string) (*model.EmailVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &item, nil
}

func (s *VerificationStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return appErr.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *VerificationStore) DeleteExpired(_ context.Context, now int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, item := range s.items {
		if item.ExpiresAt < now {
			delete(s.items, id)
			n++
		}
	}
	return n, nil
}

// Latest returns the most recent verification for parentID.
func (s *VerificationStore) Latest(parentID string) (*model.EmailVerification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *model.EmailVerification
	for _, item := range s.items {
		if item.ParentID != parentID {
			continue
		}
		if latest == nil || item.Ctime >= latest.Ctime {
			found := item
			latest = &found
		}
	}
	return latest, latest != nil
}

func (s *VerificationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Mailer records enqueued messages instead of delivering them.
type Mailer struct {
	mu       sync.Mutex
	Messages []*mail.Message
	Err      error
}

func (m *Mailer) Enqueue(msg *mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

func (m *Mailer) Sent() []*mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*mail.Message(nil), m.Messages...)
}

// FailingSessions is a session store whose backend is unreachable.
type FailingSessions struct {
	Err error
}

func (f FailingSessions) Store(context.Context, string, string, time.Duration) error {
	return f.Err
}

func (f FailingSessions) Get(context.Context, string) (string, bool, error) {
	return "", false, f.Err
}

func (f FailingSessions) Revoke(context.Context, string, string) (bool, error) {
	return false, f.Err
}
