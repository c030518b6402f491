package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) SendTemplate(ctx context.Context, templateName string, to []string, subject string, data map[string]any) error {
	args := m.Called(ctx, templateName, to, subject, data)
	return args.Error(0)
}

type MockRevocationService struct {
	mock.Mock
}

func (m *MockRevocationService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocationService) RevokeToken(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	args := m.Called(ctx, jti, userID, expiresAt)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendResetCode(ctx context.Context, email, code, expiresIn string) error {
	args := m.Called(ctx, email, code, expiresIn)
	return args.Error(0)
}

type SentCode struct {
	Email     string
	Code      string
	ExpiresIn string
}

// CapturingNotifier records every code it is asked to deliver.
type CapturingNotifier struct {
	mu   sync.Mutex
	sent []SentCode
	Err  error
}

func (n *CapturingNotifier) SendResetCode(ctx context.Context, email, code, expiresIn string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, SentCode{Email: email, Code: code, ExpiresIn: expiresIn})
	return n.Err
}

func (n *CapturingNotifier) Sent() []SentCode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]SentCode(nil), n.sent...)
}

// Last returns the most recent code sent to email.
func (n *CapturingNotifier) Last(email string) (SentCode, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].Email == email {
			return n.sent[i], true
		}
	}
	return SentCode{}, false
}
