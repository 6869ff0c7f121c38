package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups application settings read from the environment (and optionally a config file).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	DB      DBConfig
	Session SessionConfig
	Upload  UploadConfig
	Seed    SeedConfig
}

type AppConfig struct {
	Env            string // development, production
	Name           string
	LogLevel       string
	RestaurantName string // printed on receipts and reports
}

type HTTPConfig struct {
	Port        string
	CORSOrigins string
}

// Addr returns the listen address.
func (c HTTPConfig) Addr() string {
	return ":" + c.Port
}

// DBConfig holds PostgreSQL settings. DatabaseURL wins when set.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	TimeZone    string
	Debug       bool
}

// DSN returns the connection string handed to the postgres driver.
func (c DBConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	if c.TimeZone != "" {
		q.Set("TimeZone", c.TimeZone)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

type SessionConfig struct {
	Secret       string
	Issuer       string
	CookieName   string
	CookieSecure bool
	TTL          time.Duration
}

type UploadConfig struct {
	Dir       string
	MaxBytes  int64
	PublicURL string // URL prefix the stored files are served from
}

// SeedConfig is the bootstrap manager account created on an empty user table.
type SeedConfig struct {
	ManagerUsername string
	ManagerPassword string
}

// Load reads configuration. Environment variables take precedence over the optional file.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // optional

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:            v.GetString("APP_ENV"),
			Name:           v.GetString("APP_NAME"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			RestaurantName: v.GetString("RESTAURANT_NAME"),
		},
		HTTP: HTTPConfig{
			Port:        v.GetString("PORT"),
			CORSOrigins: v.GetString("CORS_ORIGINS"),
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			TimeZone:    v.GetString("DB_TIMEZONE"),
			Debug:       v.GetBool("DB_DEBUG"),
		},
		Session: SessionConfig{
			Secret:       v.GetString("JWT_SECRET"),
			Issuer:       v.GetString("JWT_ISSUER"),
			CookieName:   v.GetString("SESSION_COOKIE_NAME"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
			TTL:          time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		},
		Upload: UploadConfig{
			Dir:       v.GetString("UPLOAD_DIR"),
			MaxBytes:  v.GetInt64("UPLOAD_MAX_BYTES"),
			PublicURL: v.GetString("UPLOAD_PUBLIC_URL"),
		},
		Seed: SeedConfig{
			ManagerUsername: v.GetString("SEED_MANAGER_USERNAME"),
			ManagerPassword: v.GetString("SEED_MANAGER_PASSWORD"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "POS Sajiwa")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RESTAURANT_NAME", "Sajiwa Resto")
	v.SetDefault("PORT", "3000")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "pos_sajiwa")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("JWT_ISSUER", "pos-sajiwa")
	v.SetDefault("SESSION_COOKIE_NAME", "pos_session")
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 5*1024*1024)
	v.SetDefault("UPLOAD_PUBLIC_URL", "/uploads")
	v.SetDefault("SEED_MANAGER_USERNAME", "manager")
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		if c.App.Env == "production" {
			return errors.New("JWT_SECRET is required in production")
		}
		c.Session.Secret = "dev-only-secret-change-in-production"
	}
	if c.App.Env == "production" && len(c.Session.Secret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
