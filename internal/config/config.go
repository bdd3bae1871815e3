package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/xxxsen/common/logger"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	Env         string   `json:"env" validate:"oneof=development production test"`
	Port        int      `json:"port" validate:"required,min=1,max=65535"`
	ProjectName string   `json:"project_name" validate:"required"`
	FrontendURL string   `json:"frontend_url" validate:"required,url"`
	JWTSecret   string   `json:"jwt_secret" validate:"required,min=32"`
	CORSOrigins []string `json:"cors_origins"`
	// TrustedProxies lists reverse proxy addresses or CIDRs. Empty means the
	// socket peer is always the client.
	TrustedProxies []string         `json:"trusted_proxies" validate:"dive,cidr|ip"`
	Database       DatabaseConfig   `json:"database"`
	Redis          RedisConfig      `json:"redis"`
	Admin          AdminConfig      `json:"admin"`
	Mail           MailConfig       `json:"mail"`
	OAuth          OAuthConfig      `json:"oauth"`
	Jobs           JobsConfig       `json:"jobs"`
	LogConfig      logger.LogConfig `json:"log_config"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type RedisConfig struct {
	URL string `json:"url" validate:"required"`
}

type AdminConfig struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

type MailConfig struct {
	Provider string        `json:"provider" validate:"oneof=smtp mailjet"`
	From     string        `json:"from" validate:"required,email"`
	FromName string        `json:"from_name" validate:"required"`
	Workers  int           `json:"workers"`
	Queue    int           `json:"queue"`
	SMTP     SMTPConfig    `json:"smtp"`
	Mailjet  MailjetConfig `json:"mailjet"`
}

type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type MailjetConfig struct {
	APIKey    string `json:"api_key"`
	SecretKey string `json:"secret_key"`
}

type OAuthConfig struct {
	Google OAuthProviderConfig `json:"google"`
}

type OAuthProviderConfig struct {
	ClientID     string   `json:"client_id" validate:"required"`
	ClientSecret string   `json:"client_secret" validate:"required"`
	RedirectURL  string   `json:"redirect_url" validate:"required,url"`
	Scopes       []string `json:"scopes"`
}

type JobsConfig struct {
	VerificationCleanupSpec string `json:"verification_cleanup_spec"`
}

// Load reads the optional JSON file at path, then a .env file if present,
// then applies environment overrides, defaults and validation.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := json.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		*dst = parsed
		return nil
	}

	setString(&cfg.Env, "APP_ENV")
	if err := setInt(&cfg.Port, "PORT"); err != nil {
		return err
	}
	setString(&cfg.LogConfig.Level, "LOG_LEVEL")
	setString(&cfg.ProjectName, "PROJECT_NAME")
	setString(&cfg.FrontendURL, "FRONTEND_URL")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.Database.DSN, "DB_URL")
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Admin.Username, "ADMIN_USERNAME")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")
	setString(&cfg.Mail.Provider, "MAIL_PROVIDER")
	setString(&cfg.Mail.From, "EMAIL_FROM")
	setString(&cfg.Mail.FromName, "EMAIL_FROM_NAME")
	setString(&cfg.Mail.Mailjet.APIKey, "MAILJET_API_KEY")
	setString(&cfg.Mail.Mailjet.SecretKey, "MAILJET_SECRET_KEY")
	setString(&cfg.Mail.SMTP.Host, "SMTP_HOST")
	if err := setInt(&cfg.Mail.SMTP.Port, "SMTP_PORT"); err != nil {
		return err
	}
	setString(&cfg.Mail.SMTP.Username, "SMTP_USERNAME")
	setString(&cfg.Mail.SMTP.Password, "SMTP_PASSWORD")
	setString(&cfg.OAuth.Google.ClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.OAuth.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&cfg.OAuth.Google.RedirectURL, "GOOGLE_REDIRECT_URL")
	if v := strings.TrimSpace(getenv("CORS_ORIGINS")); v != "" {
		cfg.CORSOrigins = strings.Split(v, ",")
	}
	if v := strings.TrimSpace(getenv("TRUSTED_PROXIES")); v != "" {
		cfg.TrustedProxies = nil
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, item)
			}
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "mailjet"
	}
	if cfg.Mail.Workers <= 0 {
		cfg.Mail.Workers = 2
	}
	if cfg.Mail.Queue <= 0 {
		cfg.Mail.Queue = 128
	}
	if cfg.Mail.SMTP.Port == 0 {
		cfg.Mail.SMTP.Port = 587
	}
	if len(cfg.OAuth.Google.Scopes) == 0 {
		cfg.OAuth.Google.Scopes = []string{"openid", "email", "profile"}
	}
	if cfg.OAuth.Google.RedirectURL == "" {
		cfg.OAuth.Google.RedirectURL = fmt.Sprintf("http://localhost:%d/api/v1/auth/google/callback", cfg.Port)
	}
	if cfg.Jobs.VerificationCleanupSpec == "" {
		cfg.Jobs.VerificationCleanupSpec = "*/15 * * * *"
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	if cfg.FrontendURL != "" && !containsOrigin(cfg.CORSOrigins, cfg.FrontendURL) {
		cfg.CORSOrigins = append(cfg.CORSOrigins, cfg.FrontendURL)
	}
}

func containsOrigin(origins []string, origin string) bool {
	for _, item := range origins {
		if strings.TrimSpace(item) == origin {
			return true
		}
	}
	return false
}

func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, item := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: %s", item.Namespace(), item.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if !strings.HasPrefix(cfg.Redis.URL, "redis://") && !strings.HasPrefix(cfg.Redis.URL, "rediss://") {
		return fmt.Errorf("invalid config: redis url must start with redis:// or rediss://")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return fmt.Errorf("invalid config: database dsn or host is required")
	}
	switch cfg.Mail.Provider {
	case "smtp":
		if cfg.Mail.SMTP.Host == "" {
			return fmt.Errorf("invalid config: mail.smtp.host is required for smtp provider")
		}
	case "mailjet":
		if cfg.Mail.Mailjet.APIKey == "" || cfg.Mail.Mailjet.SecretKey == "" {
			return fmt.Errorf("invalid config: mailjet api_key/secret_key are required for mailjet provider")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
