package resetcode

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Hasher interface {
	Hash(code string) (string, error)
	Compare(hash, code string) bool
}

// BcryptHasher hashes the upper-cased code with bcrypt. A non-empty pepper keys
// the code with HMAC-SHA256 first.
type BcryptHasher struct {
	cost   int
	pepper []byte
}

func NewBcryptHasher(cost int, pepper string) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	h := &BcryptHasher{cost: cost}
	if pepper != "" {
		h.pepper = []byte(pepper)
	}
	return h
}

func (h *BcryptHasher) Hash(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(h.prepare(code), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash reset code: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), h.prepare(code)) == nil
}

func (h *BcryptHasher) prepare(code string) []byte {
	normalized := []byte(strings.ToUpper(strings.TrimSpace(code)))
	if h.pepper == nil {
		return normalized
	}
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write(normalized)
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}
