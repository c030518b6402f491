package testutils

import (
	"time"

	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"golang.org/x/crypto/bcrypt"
)

// TestJWTSecret passes the weak-pattern check in config.Validate.
const TestJWTSecret = "k9Qz7Lm2Xw4Rt8Vb6Np3Hs5Jd1Fg0Ca7Ye2Uo4Ik6Mn"

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "Test App",
			URL:  "http://localhost:8080",
		},
		Server: config.ServerConfig{
			Host:        "localhost",
			Port:        "0",
			RoutePrefix: "/api/auth",
		},
		Log: config.LogConfig{
			Level:  "debug",
			Format: "console",
			Output: "stdout",
		},
		Auth: config.AuthConfig{
			BcryptCost:          bcrypt.MinCost,
			PasswordResetExpiry: time.Hour,
		},
		PasswordReset: config.PasswordResetConfig{
			CodeLength:       resetcode.DefaultLength,
			CodeAlphabet:     resetcode.DefaultAlphabet,
			MaxAttempts:      5,
			Cooldown:         60 * time.Second,
			AsyncNotify:      false,
			CleanupRetention: 30 * 24 * time.Hour,
		},
		JWT: config.JWTConfig{
			SecretKey:    TestJWTSecret,
			Algorithm:    "HS256",
			AccessExpiry: 15 * time.Minute,
			Issuer:       "test-issuer",
		},
		RefreshToken: config.RefreshTokenConfig{
			TokenLength:     32,
			Expiry:          24 * time.Hour,
			CleanupInterval: time.Hour,
			CookieName:      "refresh_token",
			CookiePath:      "/",
			CookieSameSite:  "lax",
		},
		Revocation: config.RevocationConfig{
			Enabled:       true,
			CleanupPeriod: time.Hour,
		},
		Mail: config.MailConfig{
			Enabled:      false,
			FromAddress:  "noreply@example.com",
			FromName:     "Test App",
			SendAttempts: 1,
		},
		RateLimit: config.RateLimitConfig{
			Store:        "memory",
			LoginRate:    100,
			LoginPeriod:  time.Minute,
			ForgotRate:   100,
			ForgotPeriod: time.Minute,
			ResetRate:    100,
			ResetPeriod:  time.Minute,
		},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			DSN:    ":memory:",
		},
	}
}

var TestUsers = struct {
	ValidUser struct {
		Name     string
		Email    string
		Password string
	}
}{
	ValidUser: struct {
		Name     string
		Email    string
		Password string
	}{
		Name:     "Test User",
		Email:    "user@example.com",
		Password: "Password123",
	},
}

var TestClient = resetcode.ClientInfo{
	IP:        "203.0.113.7",
	UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Clock is a settable time source for services that accept WithClock.
type Clock struct {
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start.UTC()}
}

func (c *Clock) Now() time.Time {
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
