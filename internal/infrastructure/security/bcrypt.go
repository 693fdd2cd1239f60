package security

import (
	"context"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/baechuer/credential-service/internal/domain"
)

// BcryptHasher hashes on a bounded pool so a burst of signins cannot occupy
// every CPU at once.
type BcryptHasher struct {
	cost int
	pool *semaphore.Weighted
}

// NewBcryptHasher falls back to bcrypt.DefaultCost and GOMAXPROCS workers
// when cost or workers are not positive.
func NewBcryptHasher(cost, workers int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &BcryptHasher{
		cost: cost,
		pool: semaphore.NewWeighted(int64(workers)),
	}
}

func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.pool.Acquire(ctx, 1); err != nil {
		return "", domain.ErrHashFailed(err)
	}
	defer h.pool.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := h.pool.Acquire(ctx, 1); err != nil {
		return false, domain.ErrHashFailed(err)
	}
	defer h.pool.Release(1)

	// Malformed digests can never match, so every failure reads as a mismatch.
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}
