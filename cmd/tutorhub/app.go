package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/tutorhub/internal/config"
	"github.com/xxxsen/tutorhub/internal/db"
	"github.com/xxxsen/tutorhub/internal/pkg/jwt"
	"github.com/xxxsen/tutorhub/internal/repo"
	"github.com/xxxsen/tutorhub/internal/service"
	"github.com/xxxsen/tutorhub/internal/session"
)

// app holds the connections and stores shared by every subcommand.
type app struct {
	db    *sql.DB
	redis *redis.Client

	issuer       *jwt.Issuer
	sessionStore *session.RedisStore
	sessions     *service.Sessions

	teacherRepo      *repo.TeacherRepo
	parentRepo       *repo.ParentRepo
	childRepo        *repo.ChildRepo
	verificationRepo *repo.EmailVerificationRepo

	verifyService *service.EmailVerificationService
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	issuer, err := jwt.NewIssuer([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, err
	}
	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	client, err := session.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	a := &app{
		db:               conn,
		redis:            client,
		issuer:           issuer,
		sessionStore:     session.NewRedisStore(client),
		teacherRepo:      repo.NewTeacherRepo(conn),
		parentRepo:       repo.NewParentRepo(conn),
		childRepo:        repo.NewChildRepo(conn),
		verificationRepo: repo.NewEmailVerificationRepo(conn),
	}
	a.sessions = service.NewSessions(issuer, a.sessionStore)
	a.verifyService = service.NewEmailVerificationService(a.verificationRepo, a.parentRepo, a.sessions)
	return a, nil
}

func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		logutil.GetLogger(context.Background()).Warn("close redis failed", zap.Error(err))
	}
	if err := a.db.Close(); err != nil {
		logutil.GetLogger(context.Background()).Warn("close db failed", zap.Error(err))
	}
}
