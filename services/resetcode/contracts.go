package resetcode

import "context"

// CredentialStore overwrites a stored password hash. Implementations must use
// the transaction carried by ctx when one is present.
type CredentialStore interface {
	SetPassword(ctx context.Context, email, passwordHash string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Notifier delivers the plaintext code out of band.
type Notifier interface {
	SendResetCode(ctx context.Context, email, code, expiresIn string) error
}

type ClientInfo struct {
	IP        string
	UserAgent string
}

type NotifierFunc func(ctx context.Context, email, code, expiresIn string) error

func (f NotifierFunc) SendResetCode(ctx context.Context, email, code, expiresIn string) error {
	return f(ctx, email, code, expiresIn)
}
