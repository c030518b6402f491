package resetcode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tech-arch1tect/jwtauth/services/logging"
	"go.uber.org/zap"
)

const userAgentMaxLength = 255

type Config struct {
	CodeLength  int
	MaxAttempts uint8
	Cooldown    time.Duration
	AsyncNotify bool
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithListener(listener Listener) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, listener)
	}
}

type Service struct {
	config    Config
	store     Store
	hasher    Hasher
	generator *Generator
	creds     CredentialStore
	passwords PasswordHasher
	notifier  Notifier
	logger    *logging.Service
	listeners []Listener
	now       func() time.Time
	inflight  sync.WaitGroup
}

func NewService(cfg Config, store Store, hasher Hasher, gen *Generator, creds CredentialStore, passwords PasswordHasher, notifier Notifier, logger *logging.Service, opts ...Option) *Service {
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = gen.Length()
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}

	s := &Service{
		config:    cfg,
		store:     store,
		hasher:    hasher,
		generator: gen,
		creds:     creds,
		passwords: passwords,
		notifier:  notifier,
		logger:    logger.Named("resetcode"),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Issue creates a new code for email and hands it to the notifier. The caller
// is responsible for deciding whether email belongs to an account.
func (s *Service) Issue(ctx context.Context, email string, client ClientInfo, ttl time.Duration) error {
	email = normalizeEmail(email)
	now := s.now()

	latest, err := s.store.Latest(ctx, email)
	if err != nil {
		return err
	}
	if latest != nil && now.Sub(latest.CreatedAt) < s.config.Cooldown {
		issueRateLimited.Inc()
		s.logger.Debug("reset code request within cooldown", zap.String("email", email))
		return ErrRateLimited
	}

	code, err := s.generator.Generate(s.config.CodeLength)
	if err != nil {
		return err
	}
	code = strings.ToUpper(code)

	hash, err := s.hasher.Hash(code)
	if err != nil {
		return err
	}

	record := &Record{
		Email:       email,
		CodeHash:    hash,
		Attempts:    0,
		MaxAttempts: s.config.MaxAttempts,
		ExpiresAt:   now.Add(ttl),
		IPAddress:   optional(client.IP, 45),
		UserAgent:   optional(client.UserAgent, userAgentMaxLength),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Supersede(ctx, email, now, record); err != nil {
		return err
	}
	codesIssued.Inc()

	s.dispatch(ctx, email, code, DescribeExpiry(ttl))

	event := RequestedEvent{Email: email, Client: client, ExpiresAt: record.ExpiresAt, At: now}
	for _, l := range s.listeners {
		l.ResetRequested(ctx, event)
	}
	return nil
}

func (s *Service) dispatch(ctx context.Context, email, code, expiresIn string) {
	if s.notifier == nil {
		return
	}

	send := func(ctx context.Context) {
		if err := s.notifier.SendResetCode(ctx, email, code, expiresIn); err != nil {
			notifyFailures.Inc()
			s.logger.Error("failed to send reset code", zap.String("email", email), zap.Error(err))
		}
	}

	if !s.config.AsyncNotify {
		send(ctx)
		return
	}

	s.inflight.Add(1)
	go func(ctx context.Context) {
		defer s.inflight.Done()
		send(ctx)
	}(context.WithoutCancel(ctx))
}

// Wait blocks until every asynchronous notification has finished.
func (s *Service) Wait() {
	s.inflight.Wait()
}

// VerifyCode checks code against the latest active record without consuming
// it. A mismatch costs one attempt.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (bool, error) {
	email = normalizeEmail(email)

	record, err := s.store.LatestActive(ctx, email, s.now())
	if err != nil {
		return false, err
	}
	if record == nil {
		verifications.WithLabelValues("missing").Inc()
		return false, nil
	}
	if record.IsLocked() {
		verifications.WithLabelValues("locked").Inc()
		return false, nil
	}

	if !s.hasher.Compare(record.CodeHash, code) {
		verifications.WithLabelValues("mismatch").Inc()
		if err := s.store.IncrementAttempts(ctx, record.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	verifications.WithLabelValues("match").Inc()
	return true, nil
}

// ResetPassword consumes code and replaces the password for email. The record
// stays locked from lookup to commit so only one caller can consume a code.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string, client ClientInfo) (err error) {
	email = normalizeEmail(email)
	now := s.now()

	defer func() {
		passwordResets.WithLabelValues(resetResult(err)).Inc()
	}()

	var outcome error
	err = s.store.WithLockedActive(ctx, email, now, func(ctx context.Context, locked Locked) error {
		record := locked.Record()
		switch {
		case record == nil:
			outcome = ErrCodeExpired
			return nil
		case record.IsLocked():
			outcome = ErrTooManyAttempts
			return nil
		case !s.hasher.Compare(record.CodeHash, code):
			// the increment must survive the failed reset
			if err := locked.IncrementAttempts(); err != nil {
				return err
			}
			outcome = ErrCodeInvalid
			return nil
		}

		if err := locked.MarkUsed(now); err != nil {
			if errors.Is(err, ErrAlreadyConsumed) {
				return ErrCodeExpired
			}
			return err
		}

		hash, err := s.passwords.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		return s.creds.SetPassword(ctx, email, hash)
	})
	if err != nil {
		if !errors.Is(err, ErrIdentityNotFound) && !errors.Is(err, ErrCodeExpired) {
			s.logger.Error("password reset failed", zap.String("email", email), zap.Error(err))
		}
		return err
	}
	if outcome != nil {
		s.logger.Info("password reset rejected", zap.String("email", email), zap.String("reason", Code(outcome)))
		return outcome
	}

	s.logger.Info("password reset completed", zap.String("email", email))
	event := CompletedEvent{Email: email, Client: client, At: now}
	for _, l := range s.listeners {
		l.ResetCompleted(ctx, event)
	}
	return nil
}

func optional(value string, max int) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if r := []rune(value); len(r) > max {
		value = string(r[:max])
	}
	return &value
}
