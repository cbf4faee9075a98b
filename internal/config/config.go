package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	// ClientURL is the browser-facing frontend base URL used for
	// post-callback redirects.
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:3000"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `env:"GOOGLE_CALLBACK_URL"`

	NaverClientID     string `env:"NAVER_CLIENT_ID"`
	NaverClientSecret string `env:"NAVER_CLIENT_SECRET"`
	NaverCallbackURL  string `env:"NAVER_CALLBACK_URL"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	OAuthStateTTL time.Duration `env:"OAUTH_STATE_TTL" envDefault:"5m"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"true"`

	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file, then parses and validates the
// environment. A missing .env is ignored; variables already set in the
// environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports every missing or malformed setting at once.
func (c Config) Validate() error {
	var errs []error

	required := []struct {
		name  string
		value string
	}{
		{"CLIENT_URL", c.ClientURL},
		{"GOOGLE_CLIENT_ID", c.GoogleClientID},
		{"GOOGLE_CLIENT_SECRET", c.GoogleClientSecret},
		{"GOOGLE_CALLBACK_URL", c.GoogleCallbackURL},
		{"NAVER_CLIENT_ID", c.NaverClientID},
		{"NAVER_CLIENT_SECRET", c.NaverClientSecret},
		{"NAVER_CALLBACK_URL", c.NaverCallbackURL},
		{"DATABASE_DSN", c.DatabaseDSN},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("config: %s must be set", r.name))
		}
	}

	for _, u := range []struct {
		name  string
		value string
	}{
		{"CLIENT_URL", c.ClientURL},
		{"GOOGLE_CALLBACK_URL", c.GoogleCallbackURL},
		{"NAVER_CALLBACK_URL", c.NaverCallbackURL},
	} {
		if u.value == "" {
			continue
		}
		if !isAbsoluteURL(u.value) {
			errs = append(errs, fmt.Errorf("config: %s must be an absolute URL", u.name))
		}
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("config: SESSION_TTL must be positive"))
	}
	if c.OAuthStateTTL <= 0 {
		errs = append(errs, errors.New("config: OAUTH_STATE_TTL must be positive"))
	}
	if !c.CookieSecure {
		errs = append(errs, errors.New("config: COOKIE_SECURE must be true, the session cookie uses the __Host- prefix"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, errors.New("config: BCRYPT_COST must be between 4 and 31"))
	}

	return errors.Join(errs...)
}

// ClientBaseURL returns ClientURL without a trailing slash.
func (c Config) ClientBaseURL() string {
	return strings.TrimRight(c.ClientURL, "/")
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
