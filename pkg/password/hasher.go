// Package password hashes and verifies user secrets with bcrypt.
//
// Usage:
//
//	hasher := password.NewBcryptHasher(password.WithCost(10))
//	hash, err := hasher.Hash(ctx, "my-password")
//	ok, err := hasher.Verify(ctx, "my-password", hash)
package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultCost matches the cost the existing user table was hashed with.
const DefaultCost = 10

// MaxSecretBytes is the longest secret bcrypt reads. Bytes past it are ignored.
const MaxSecretBytes = 72

var (
	// ErrHashing means bcrypt itself failed. The caller answers with a generic 500.
	ErrHashing = errors.New("password: hashing failed")
	// ErrVerification means the stored hash is corrupt. A wrong secret is not an error.
	ErrVerification = errors.New("password: stored hash is malformed")
)

// Hasher defines the interface for password hashing and verification.
type Hasher interface {
	Hash(ctx context.Context, secret string) (string, error)
	Verify(ctx context.Context, secret, hash string) (bool, error)
}

// BcryptHasher implements Hasher using bcrypt. At most `workers` hash or
// verify operations run at once; the rest wait for a slot.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// BcryptOption configures the bcrypt hasher.
type BcryptOption func(*bcryptOptions)

type bcryptOptions struct {
	cost    int
	workers int64
}

// WithCost sets the bcrypt cost parameter. Out of range values are ignored.
func WithCost(cost int) BcryptOption {
	return func(o *bcryptOptions) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			o.cost = cost
		}
	}
}

// WithWorkers bounds concurrent bcrypt operations (default: GOMAXPROCS).
func WithWorkers(n int) BcryptOption {
	return func(o *bcryptOptions) {
		if n > 0 {
			o.workers = int64(n)
		}
	}
}

func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	o := bcryptOptions{cost: DefaultCost, workers: int64(runtime.GOMAXPROCS(0))}
	for _, opt := range opts {
		opt(&o)
	}
	return &BcryptHasher{cost: o.cost, sem: semaphore.NewWeighted(o.workers)}
}

func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(ctx context.Context, secret string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashing, err)
	}
	return string(hash), nil
}

// Verify reports whether secret matches hash. bcrypt compares in constant time.
// A secret longer than MaxSecretBytes never matches, since bcrypt would only
// compare its prefix.
func (h *BcryptHasher) Verify(ctx context.Context, secret, hash string) (bool, error) {
	if len(secret) > MaxSecretBytes {
		return false, nil
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrVerification, err)
	}
}
