package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Email    EmailConfig
	Log      LogConfig
	Admin    AdminConfig
	Digest   DigestConfig
	R2       R2Config
}

type ServerConfig struct {
	Port        string
	CORSOrigins string
}

type DatabaseConfig struct {
	URL      string
	LogLevel string
}

type EmailConfig struct {
	APIKey    string
	APIURL    string
	From      string
	AdminTo   string
	OwnerName string
}

type LogConfig struct {
	Level  string
	Format string
}

type AdminConfig struct {
	JWTSecret    string
	PasswordHash string
}

type DigestConfig struct {
	Schedule string
}

type R2Config struct {
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

func Load() *Config {
	godotenv.Load() // .env is optional, real env vars win

	from := getEnv("EMAIL_FROM", "Portfolio <noreply@example.com>")

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "3000"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			LogLevel: getEnv("GORM_LOG_LEVEL", "error"),
		},
		Email: EmailConfig{
			APIKey:    os.Getenv("RESEND_API_KEY"),
			APIURL:    getEnv("RESEND_API_URL", "https://api.resend.com/emails"),
			From:      from,
			AdminTo:   getEnv("ADMIN_EMAIL", from),
			OwnerName: getEnv("OWNER_NAME", "Muhammad Bilal"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Admin: AdminConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		},
		Digest: DigestConfig{
			Schedule: getEnv("DIGEST_CRON", "0 19 * * *"),
		},
		R2: R2Config{
			AccountID: os.Getenv("R2_ACCOUNT_ID"),
			AccessKey: os.Getenv("R2_ACCESS_KEY"),
			SecretKey: os.Getenv("R2_SECRET_KEY"),
			Bucket:    os.Getenv("R2_BUCKET_NAME"),
			PublicURL: strings.TrimSuffix(os.Getenv("R2_PUBLIC_URL"), "/"),
		},
	}
}

// AuthEnabled reports whether the analytics report sits behind admin login.
func (a AdminConfig) AuthEnabled() bool {
	return a.JWTSecret != "" && a.PasswordHash != ""
}

// Enabled reports whether digest snapshots should be archived to R2.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.Bucket != ""
}

// Enabled is false when DIGEST_CRON is explicitly set to "off".
func (d DigestConfig) Enabled() bool {
	return d.Schedule != "" && !strings.EqualFold(d.Schedule, "off")
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
