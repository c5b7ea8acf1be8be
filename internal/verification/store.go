package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"

	"github.com/example/bazaar/internal/cache"
)

// CodeTTL is the absolute lifetime of a verification code.
const CodeTTL = 300 * time.Second

// Store keeps one live 6-digit confirmation code per email. Issuing a new
// code overwrites any previous one; expired and absent codes are
// indistinguishable to callers.
type Store struct {
	cache cache.Cache
}

// NewStore constructs a Store over the given cache.
func NewStore(c cache.Cache) *Store {
	return &Store{cache: c}
}

// Issue generates a random 6-digit code and stores it for the email with
// a 5-minute expiry. The code is returned to the caller for delivery.
func (s *Store) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, codeKey(email), code, CodeTTL); err != nil {
		return "", err
	}
	return code, nil
}

// Lookup returns the live code for the email, or an empty string when no
// code is stored or it has expired.
func (s *Store) Lookup(ctx context.Context, email string) (string, error) {
	code, err := s.cache.Get(ctx, codeKey(email))
	if errors.Is(err, cache.ErrMiss) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

// Revoke deletes the stored code for the email.
func (s *Store) Revoke(ctx context.Context, email string) error {
	return s.cache.Delete(ctx, codeKey(email))
}

func codeKey(email string) string {
	return "verify:" + email
}

// generateCode draws a uniform random integer in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
