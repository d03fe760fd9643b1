package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string        `env:"LISTEN_ADDR"`
	Port           string        `env:"PORT"            envDefault:"8080"`
	Env            string        `env:"APP_ENV"         envDefault:"production"`
	DatabaseDriver string        `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabasePath   string        `env:"DATABASE_PATH"   envDefault:"cabpool.db"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	SessionSecret  string        `env:"SESSION_SECRET"  envDefault:"cabpool-dev-secret"`
	GinMode        string        `env:"GIN_MODE"        envDefault:"release"`
	UploadDir      string        `env:"UPLOAD_DIR"      envDefault:"data/uploads"`
	UploadURLPath  string        `env:"UPLOAD_URL_PATH" envDefault:"/static/uploads"`
	UploadMaxBytes int64         `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
	RedisURL       string        `env:"REDIS_URL"`
	CacheTTL       time.Duration `env:"CACHE_TTL"       envDefault:"10m"`
	AdminUsername  string        `env:"ADMIN_USERNAME"`
	AdminPassword  string        `env:"ADMIN_PASSWORD"`
	SiteBaseURL    string        `env:"SITE_BASE_URL"   envDefault:"http://localhost:8080"`
}

// Load reads an optional .env file and then the process environment.
// Missing values fall back to the defaults declared on AppConfig.
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv parses the process environment without touching .env files.
func FromEnv() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = "8080"
	}
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	if c.ListenAddr == "" {
		c.ListenAddr = fmt.Sprintf(":%s", c.Port)
	}
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	if c.DatabaseDriver == "" {
		c.DatabaseDriver = "sqlite"
	}
	c.DatabasePath = strings.TrimSpace(c.DatabasePath)
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.SessionSecret = strings.TrimSpace(c.SessionSecret)
	c.UploadDir = strings.TrimSpace(c.UploadDir)
	c.UploadURLPath = "/" + strings.Trim(strings.TrimSpace(c.UploadURLPath), "/")
	if c.UploadMaxBytes <= 0 {
		c.UploadMaxBytes = 10 << 20
	}
	c.RedisURL = strings.TrimSpace(c.RedisURL)
	c.AdminUsername = strings.TrimSpace(c.AdminUsername)
	c.AdminPassword = strings.TrimSpace(c.AdminPassword)
	c.SiteBaseURL = strings.TrimRight(strings.TrimSpace(c.SiteBaseURL), "/")
}

// DSN returns the connection string for the configured driver.
func (c AppConfig) DSN() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

// IsDevelopment reports whether the app runs with development defaults.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}
