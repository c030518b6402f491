package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig           `envPrefix:"APP_"`
	Server        ServerConfig        `envPrefix:"SERVER_"`
	Log           LogConfig           `envPrefix:"LOG_"`
	Database      DatabaseConfig      `envPrefix:"DATABASE_"`
	Auth          AuthConfig          `envPrefix:"AUTH_"`
	PasswordReset PasswordResetConfig `envPrefix:"PASSWORD_RESET_"`
	JWT           JWTConfig           `envPrefix:"JWT_"`
	RefreshToken  RefreshTokenConfig  `envPrefix:"REFRESH_TOKEN_"`
	Revocation    RevocationConfig    `envPrefix:"REVOCATION_"`
	Mail          MailConfig          `envPrefix:"MAIL_"`
	RateLimit     RateLimitConfig     `envPrefix:"RATE_LIMIT_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"jwtauth"`
	URL  string `env:"URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	Host           string   `env:"HOST" envDefault:"localhost"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	RoutePrefix    string   `env:"ROUTE_PREFIX" envDefault:"/api/auth"`
	MetricsEnabled bool     `env:"METRICS_ENABLED" envDefault:"true"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"app.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type AuthConfig struct {
	BcryptCost          int           `env:"BCRYPT_COST" envDefault:"10"`
	PasswordResetExpiry time.Duration `env:"PASSWORD_RESET_EXPIRY" envDefault:"60m"`
}

// PasswordResetConfig holds the one-time reset code settings. CodeTTL of zero
// falls back to AuthConfig.PasswordResetExpiry.
type PasswordResetConfig struct {
	CodeLength       int           `env:"CODE_LENGTH" envDefault:"8"`
	CodeAlphabet     string        `env:"CODE_ALPHABET" envDefault:"ABCDEFGHJKLMNPQRSTUVWXYZ23456789"`
	MaxAttempts      int           `env:"MAX_ATTEMPTS" envDefault:"5"`
	Cooldown         time.Duration `env:"COOLDOWN" envDefault:"60s"`
	CodeTTL          time.Duration `env:"CODE_TTL" envDefault:"0s"`
	Pepper           string        `env:"PEPPER"`
	AsyncNotify      bool          `env:"ASYNC_NOTIFY" envDefault:"true"`
	CleanupRetention time.Duration `env:"CLEANUP_RETENTION" envDefault:"720h"`
}

type JWTConfig struct {
	SecretKey    string        `env:"SECRET_KEY"`
	Algorithm    string        `env:"ALGORITHM" envDefault:"HS256"`
	AccessExpiry time.Duration `env:"ACCESS_EXPIRY" envDefault:"15m"`
	Issuer       string        `env:"ISSUER" envDefault:"jwtauth"`
}

type RefreshTokenConfig struct {
	TokenLength     int           `env:"TOKEN_LENGTH" envDefault:"32"`
	Expiry          time.Duration `env:"EXPIRY" envDefault:"24h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
	CookieName      string        `env:"COOKIE_NAME" envDefault:"refresh_token"`
	CookiePath      string        `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain    string        `env:"COOKIE_DOMAIN"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"false"`
	CookieSameSite  string        `env:"COOKIE_SAME_SITE" envDefault:"lax"`
}

type RevocationConfig struct {
	Enabled       bool          `env:"ENABLED" envDefault:"true"`
	CleanupPeriod time.Duration `env:"CLEANUP_PERIOD" envDefault:"1h"`
}

type MailConfig struct {
	Enabled      bool   `env:"ENABLED" envDefault:"false"`
	Host         string `env:"HOST" envDefault:"localhost"`
	Port         int    `env:"PORT" envDefault:"587"`
	Username     string `env:"USERNAME"`
	Password     string `env:"PASSWORD"`
	Encryption   string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress  string `env:"FROM_ADDRESS"`
	FromName     string `env:"FROM_NAME"`
	TemplatesDir string `env:"TEMPLATES_DIR"`
	SendAttempts uint64 `env:"SEND_ATTEMPTS" envDefault:"3"`
}

type CountingMode string

const (
	CountAll      CountingMode = "all"
	CountFailures CountingMode = "failures"
	CountSuccess  CountingMode = "success"
)

type RateLimitConfig struct {
	Store        string        `env:"STORE" envDefault:"memory"`
	LoginRate    int           `env:"LOGIN_RATE" envDefault:"10"`
	LoginPeriod  time.Duration `env:"LOGIN_PERIOD" envDefault:"1m"`
	ForgotRate   int           `env:"FORGOT_RATE" envDefault:"5"`
	ForgotPeriod time.Duration `env:"FORGOT_PERIOD" envDefault:"1m"`
	ResetRate    int           `env:"RESET_RATE" envDefault:"10"`
	ResetPeriod  time.Duration `env:"RESET_PERIOD" envDefault:"1m"`
}

// ResetCodeTTL is the lifetime of an issued reset code.
func (c *Config) ResetCodeTTL() time.Duration {
	if c.PasswordReset.CodeTTL > 0 {
		return c.PasswordReset.CodeTTL
	}
	if c.Auth.PasswordResetExpiry > 0 {
		return c.Auth.PasswordResetExpiry
	}
	return time.Hour
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	if c, ok := cfg.(*Config); ok {
		return Validate(c)
	}
	return nil
}

func Validate(cfg *Config) error {
	if err := validateJWTConfig(&cfg.JWT); err != nil {
		return err
	}
	if err := validateRefreshTokenConfig(&cfg.RefreshToken); err != nil {
		return err
	}
	return validatePasswordResetConfig(&cfg.PasswordReset)
}

func validateJWTConfig(cfg *JWTConfig) error {
	if len(cfg.SecretKey) < 32 {
		return fmt.Errorf("JWT secret key must be at least 32 characters long")
	}

	lower := strings.ToLower(cfg.SecretKey)
	for _, pattern := range []string{"password", "secret", "test", "example", "default", "change"} {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("JWT secret key contains weak patterns")
		}
	}

	if cfg.Algorithm != "" && cfg.Algorithm != "HS256" {
		return fmt.Errorf("JWT algorithm %q is not supported (supported: HS256)", cfg.Algorithm)
	}
	return nil
}

func validateRefreshTokenConfig(cfg *RefreshTokenConfig) error {
	if cfg.TokenLength < 16 {
		return fmt.Errorf("refresh token length must be at least 16 bytes")
	}
	if cfg.TokenLength > 128 {
		return fmt.Errorf("refresh token length cannot exceed 128 bytes")
	}
	switch strings.ToLower(cfg.CookieSameSite) {
	case "", "lax", "strict", "none":
	default:
		return fmt.Errorf("refresh token cookie same-site must be: lax, strict, or none")
	}
	return nil
}

func validatePasswordResetConfig(cfg *PasswordResetConfig) error {
	if cfg.CodeLength < 4 || cfg.CodeLength > 32 {
		return fmt.Errorf("password reset code length must be between 4 and 32")
	}
	if cfg.MaxAttempts < 1 || cfg.MaxAttempts > 255 {
		return fmt.Errorf("password reset max attempts must be between 1 and 255")
	}
	if cfg.Cooldown < 0 {
		return fmt.Errorf("password reset cooldown cannot be negative")
	}
	if cfg.CleanupRetention < 0 {
		return fmt.Errorf("password reset cleanup retention cannot be negative")
	}

	seen := make(map[rune]bool)
	for _, r := range cfg.CodeAlphabet {
		if unicode.IsSpace(r) || unicode.IsLower(r) {
			return fmt.Errorf("password reset code alphabet must contain only upper-case, non-space characters")
		}
		if seen[r] {
			return fmt.Errorf("password reset code alphabet contains duplicate character %q", r)
		}
		seen[r] = true
	}
	if len(seen) < 2 {
		return fmt.Errorf("password reset code alphabet must contain at least 2 characters")
	}
	return nil
}
