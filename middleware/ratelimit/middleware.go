package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/jwtauth/config"
)

type Config struct {
	Store     Store
	Rate      int
	Period    time.Duration
	CountMode config.CountingMode
	// Scope separates counters of routes sharing a store.
	Scope string
	// ResetOnSuccess clears the counter after a successful request. Only
	// used with CountFailures.
	ResetOnSuccess bool
	KeyGenerator   func(c echo.Context) string
	OnLimitReached func(c echo.Context) error
}

func Middleware(cfg *Config) echo.MiddlewareFunc {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}
	if cfg.Period <= 0 {
		cfg.Period = time.Minute
	}
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = DefaultKeyGenerator
	}
	if cfg.OnLimitReached == nil {
		cfg.OnLimitReached = DefaultOnLimitReached
	}
	if cfg.CountMode == "" {
		cfg.CountMode = config.CountAll
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := cfg.KeyGenerator(c)
			if cfg.Scope != "" {
				key = cfg.Scope + ":" + key
			}
			resetTime := time.Now().Add(cfg.Period)

			count, existingResetTime, exists := cfg.Store.Get(key)
			if exists {
				resetTime = existingResetTime
			}

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Rate))
			header.Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if count >= cfg.Rate {
				header.Set("X-RateLimit-Remaining", "0")
				header.Set("Retry-After", strconv.Itoa(max(int(time.Until(resetTime).Seconds()), 1)))
				return cfg.OnLimitReached(c)
			}

			if cfg.CountMode == config.CountAll {
				count = cfg.Store.Increment(key, resetTime)
				header.Set("X-RateLimit-Remaining", strconv.Itoa(max(cfg.Rate-count, 0)))
				return next(c)
			}

			header.Set("X-RateLimit-Remaining", strconv.Itoa(max(cfg.Rate-count-1, 0)))
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			failed := status >= http.StatusBadRequest
			switch {
			case (cfg.CountMode == config.CountFailures) == failed:
				cfg.Store.Increment(key, resetTime)
			case cfg.ResetOnSuccess && !failed:
				cfg.Store.Reset(key)
			}
			return err
		}
	}
}

func DefaultKeyGenerator(c echo.Context) string {
	realIP := c.RealIP()
	if realIP == "" || realIP == "unknown" {
		realIP = "fallback"
	}
	return "rate_limit:" + realIP
}

func DefaultOnLimitReached(c echo.Context) error {
	return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
}

func NewStore(rateLimitConfig *config.RateLimitConfig) Store {
	switch rateLimitConfig.Store {
	case "memory":
		fallthrough
	default:
		return NewMemoryStore()
	}
}
