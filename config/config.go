package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Port        string
	Environment string

	DBDriver string
	DBURL    string

	JWTSecret      string
	JWTExpiryHours int

	CORSOrigins []string

	RedisURL string
	CacheTTL time.Duration

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
	ReminderCron      string

	AdminEmail    string
	AdminPassword string

	GoogleClientID     string
	GoogleTokenInfoURL string
	GoogleUserInfoURL  string
	FacebookAppID      string
	FacebookAppSecret  string
	FacebookGraphURL   string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("CACHE_TTL_SECONDS", 60)
	v.SetDefault("REMINDER_CRON", "0 9 * * *")
	v.SetDefault("GOOGLE_TOKENINFO_URL", "https://oauth2.googleapis.com/tokeninfo")
	v.SetDefault("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v3/userinfo")
	v.SetDefault("FACEBOOK_GRAPH_URL", "https://graph.facebook.com")

	cfg := &Config{
		Port:               v.GetString("PORT"),
		Environment:        v.GetString("APP_ENV"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		DBURL:              v.GetString("DB_URL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTExpiryHours:     v.GetInt("JWT_EXPIRY_HOURS"),
		CORSOrigins:        splitList(v.GetString("CORS_ORIGINS")),
		RedisURL:           v.GetString("REDIS_URL"),
		CacheTTL:           time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		TwilioAccountSID:   v.GetString("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    v.GetString("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber:  v.GetString("TWILIO_PHONE_NUMBER"),
		ReminderCron:       v.GetString("REMINDER_CRON"),
		AdminEmail:         v.GetString("ADMIN_EMAIL"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleTokenInfoURL: v.GetString("GOOGLE_TOKENINFO_URL"),
		GoogleUserInfoURL:  v.GetString("GOOGLE_USERINFO_URL"),
		FacebookAppID:      v.GetString("FACEBOOK_APP_ID"),
		FacebookAppSecret:  v.GetString("FACEBOOK_APP_SECRET"),
		FacebookGraphURL:   v.GetString("FACEBOOK_GRAPH_URL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET not set")
	}
	switch c.DBDriver {
	case "postgres", "mysql":
		if c.DBURL == "" {
			return fmt.Errorf("DB_URL is required for driver %q", c.DBDriver)
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTExpiryHours <= 0 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be positive")
	}
	return nil
}

// TwilioEnabled reports whether SMS delivery is configured.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}

// GoogleEnabled reports whether Google sign-in can check token audiences.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}

func (c *Config) FacebookEnabled() bool {
	return c.FacebookAppID != "" && c.FacebookAppSecret != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
