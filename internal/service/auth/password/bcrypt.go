// Package password hashes and verifies user passwords with bcrypt.
//
// Bcrypt is deliberately slow, so the number of hashes computed at the same time is limited:
// requests that can't get a slot wait for it (or for their context to be cancelled)
// instead of starving the whole process of CPU.
package password

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultCost = 10

	opHash   = "hash"
	opVerify = "verify"
)

var ErrEmptyPassword = oops.Code("PASSWORD_EMPTY").Errorf("password cannot be empty")

type Config struct {
	// Bcrypt cost factor
	// If not set than DefaultCost is used
	Cost int

	// Max number of hashes computed simultaneously
	// If not set than GOMAXPROCS is used
	Concurrency int

	// Optional histogram to observe hashing durations, labeled by operation
	Durations prometheus.ObserverVec
}

type BcryptHasher struct {
	cost      int
	slots     *semaphore.Weighted
	durations prometheus.ObserverVec
}

func New(cfg Config) (*BcryptHasher, error) {
	if cfg.Cost == 0 {
		cfg.Cost = DefaultCost
	}
	if cfg.Cost < bcrypt.MinCost || cfg.Cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be in range [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.Cost)
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}

	return &BcryptHasher{
		cost:      cfg.Cost,
		slots:     semaphore.NewWeighted(int64(cfg.Concurrency)),
		durations: cfg.Durations,
	}, nil
}

// Hash returns salted bcrypt hash, so the same password never gives the same hash twice
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	var hash []byte
	err := h.withSlot(ctx, opHash, func() (err error) {
		hash, err = bcrypt.GenerateFromPassword(prehash(password), h.cost)
		return err
	})
	if err != nil {
		return "", oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}

	return string(hash), nil
}

// Verify compares password with known hash in constant time
// Returns (false, nil) on mismatch. Error means the hash itself is broken or context is done
func (h *BcryptHasher) Verify(ctx context.Context, password string, hash string) (bool, error) {
	var cmpErr error
	err := h.withSlot(ctx, opVerify, func() error {
		cmpErr = bcrypt.CompareHashAndPassword([]byte(hash), prehash(password))
		return nil
	})
	if err != nil {
		return false, oops.Code("PASSWORD_VERIFY_FAILED").Wrap(err)
	}

	switch {
	case cmpErr == nil:
		return true, nil
	case errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, oops.Code("PASSWORD_MALFORMED_HASH").Wrap(cmpErr)
	}
}

func (h *BcryptHasher) withSlot(ctx context.Context, op string, fn func() error) error {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for free hashing slot: %w", err)
	}
	defer h.slots.Release(1)

	start := time.Now()
	err := fn()
	if h.durations != nil {
		h.durations.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}

	return err
}

// Bcrypt uses first 72 bytes of the password only, so longer passwords are hashed with sha256 first
// It's applied to every password to keep single hash format
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}
