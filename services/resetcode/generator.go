package resetcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

const (
	// DefaultAlphabet omits I, O, 0 and 1.
	DefaultAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	DefaultLength   = 8
)

var ErrInvalidAlphabet = errors.New("invalid reset code alphabet")

type Generator struct {
	alphabet []rune
	index    map[rune]struct{}
	length   int
}

func NewGenerator(alphabet string, length int) (*Generator, error) {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	if length <= 0 {
		length = DefaultLength
	}

	runes := []rune(alphabet)
	index := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		if unicode.IsSpace(r) || unicode.ToUpper(r) != r {
			return nil, fmt.Errorf("%w: %q is not an upper-case character", ErrInvalidAlphabet, r)
		}
		if _, dup := index[r]; dup {
			return nil, fmt.Errorf("%w: duplicate character %q", ErrInvalidAlphabet, r)
		}
		index[r] = struct{}{}
	}
	if len(runes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 characters", ErrInvalidAlphabet)
	}

	return &Generator{alphabet: runes, index: index, length: length}, nil
}

func (g *Generator) Length() int {
	return g.length
}

// Generate draws length characters uniformly from the alphabet.
func (g *Generator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("reset code length must be positive, got %d", length)
	}

	max := big.NewInt(int64(len(g.alphabet)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random index: %w", err)
		}
		b.WriteRune(g.alphabet[n.Int64()])
	}
	return b.String(), nil
}

// Valid reports whether code, once upper-cased, has the configured length and
// only alphabet characters.
func (g *Generator) Valid(code string) bool {
	runes := []rune(strings.ToUpper(strings.TrimSpace(code)))
	if len(runes) != g.length {
		return false
	}
	for _, r := range runes {
		if _, ok := g.index[r]; !ok {
			return false
		}
	}
	return true
}
