package config

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	JWT      JWTConfig      `env:",prefix=JWT_"`
	Google   GoogleConfig   `env:",prefix=GOOGLE_"`
	Cookie   CookieConfig   `env:",prefix=COOKIE_"`
	Security SecurityConfig `env:",prefix="`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	Env      string         `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	URL            string   `env:"URL"`
	Host           string   `env:"HOST,default=localhost"`
	Port           string   `env:"PORT,default=5432"`
	User           string   `env:"USER,default=habit_tracker"`
	Password       string   `env:"PASSWORD,default=habit_tracker_password"`
	DBName         string   `env:"DB,default=habit_tracker_db"`
	SSLMode        string   `env:"SSLMODE,default=disable"`
	MaxOpenConns   int      `env:"MAX_OPEN_CONNS,default=5"`
	AcquireTimeout Duration `env:"ACQUIRE_TIMEOUT,default=5s"`
	AutoMigrate    bool     `env:"AUTO_MIGRATE,default=true"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

type JWTConfig struct {
	Secret   string   `env:"SECRET,required"`
	Issuer   string   `env:"ISSUER,default=habit-tracker"`
	Audience string   `env:"AUDIENCE,default=habit-tracker"`
	Expiry   Duration `env:"EXPIRY,default=30d"`
}

type GoogleConfig struct {
	ClientID string `env:"CLIENT_ID,required"`
	Issuer   string `env:"ISSUER,default=https://accounts.google.com"`
}

type CookieConfig struct {
	Name     string `env:"NAME,default=session"`
	Domain   string `env:"DOMAIN,default=localhost"`
	Secure   bool   `env:"SECURE,default=false"`
	SameSite string `env:"SAMESITE,default=lax"`
}

type SecurityConfig struct {
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// SameSiteMode maps the configured policy onto net/http's cookie mode.
func (c CookieConfig) SameSiteMode() (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(c.SameSite)) {
	case "strict":
		return http.SameSiteStrictMode, nil
	case "lax":
		return http.SameSiteLaxMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return http.SameSiteDefaultMode, fmt.Errorf("COOKIE_SAMESITE must be one of strict, lax, none; got %q", c.SameSite)
	}
}

// HostOnly reports whether the cookie must omit the Domain attribute.
func (c CookieConfig) HostOnly() bool {
	d := strings.ToLower(strings.TrimSpace(c.Domain))
	return d == "" || d == "localhost"
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(config.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if config.JWT.Expiry.Duration <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRY must be positive")
	}

	if strings.TrimSpace(config.Google.ClientID) == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID must not be empty")
	}

	if _, err := config.Cookie.SameSiteMode(); err != nil {
		return nil, err
	}

	if config.Postgres.MaxOpenConns < 1 {
		return nil, fmt.Errorf("POSTGRES_MAX_OPEN_CONNS must be positive")
	}

	return &config, nil
}
