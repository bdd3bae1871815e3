package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/tutorhub/internal/config"
	"github.com/xxxsen/tutorhub/internal/handler"
	"github.com/xxxsen/tutorhub/internal/job"
	"github.com/xxxsen/tutorhub/internal/mail"
	"github.com/xxxsen/tutorhub/internal/middleware"
	"github.com/xxxsen/tutorhub/internal/oauth"
	"github.com/xxxsen/tutorhub/internal/schedule"
	"github.com/xxxsen/tutorhub/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "tutorhub",
		Short:         "tutorhub backend server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json (environment variables override it)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run tutorhub server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep-verifications",
		Short: "delete expired email verifications once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runSweep(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(runCmd, sweepCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded",
		zap.String("config", path),
		zap.String("env", cfg.Env),
		zap.String("mail_provider", cfg.Mail.Provider),
	)
	return cfg, nil
}

func runSweep(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return schedule.RunOnce(ctx, job.NewVerificationCleanupJob(a.verifyService))
}

func runServer(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	sender, err := mail.NewSender(cfg.Mail)
	if err != nil {
		return fmt.Errorf("init mail sender: %w", err)
	}
	dispatcher := mail.NewDispatcher(sender, cfg.Mail.Workers, cfg.Mail.Queue)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	provider, err := oauth.NewProvider("google", oauth.ProviderArgs{
		Config: oauth.ProviderConfig{
			ClientID:     cfg.OAuth.Google.ClientID,
			ClientSecret: cfg.OAuth.Google.ClientSecret,
			RedirectURL:  cfg.OAuth.Google.RedirectURL,
			Scopes:       cfg.OAuth.Google.Scopes,
		},
		Client: &http.Client{Timeout: 10 * time.Second},
	})
	if err != nil {
		return fmt.Errorf("init google oauth: %w", err)
	}

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	secure := cfg.IsProduction()
	authService := service.NewAuthService(a.teacherRepo, a.parentRepo, a.issuer, a.sessionStore, a.verifyService, dispatcher, service.AuthServiceOptions{
		ProjectName: cfg.ProjectName,
		FrontendURL: cfg.FrontendURL,
	})
	oauthService := service.NewOAuthService(provider, a.parentRepo, a.sessions)
	adminService := service.NewAdminService(cfg.Admin.Username, cfg.Admin.Password, a.issuer)
	teacherService := service.NewTeacherService(a.teacherRepo, a.childRepo)

	deps := handler.RouterDeps{
		Auth:     handler.NewAuthHandler(authService, a.verifyService, secure),
		OAuth:    handler.NewOAuthHandler(oauthService, cfg.FrontendURL, secure),
		Admin:    handler.NewAdminHandler(adminService, teacherService, secure),
		Teachers: handler.NewTeacherHandler(teacherService),
		System: handler.NewSystemHandler(map[string]handler.HealthCheck{
			"postgres": a.db.PingContext,
			"redis":    func(ctx context.Context) error { return a.redis.Ping(ctx).Err() },
		}),
		Issuer:         a.issuer,
		TrustedProxies: trustedProxies,
	}

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewVerificationCleanupJob(a.verifyService), cfg.Jobs.VerificationCleanupSpec); err != nil {
		return fmt.Errorf("schedule verification cleanup: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/api/v1",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	errCh := make(chan error, 1)
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logutil.GetLogger(context.Background()).Info("server stopping...")
		return nil
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}
