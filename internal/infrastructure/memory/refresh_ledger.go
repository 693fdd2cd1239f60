package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/baechuer/credential-service/internal/domain"
)

// RefreshLedger is the single-process auth.RefreshLedger.
// Expired entries are swept lazily on each MarkUsed.
type RefreshLedger struct {
	mu   sync.Mutex
	used map[string]time.Time // tokenID -> keep until
	now  func() time.Time
}

func NewRefreshLedger() *RefreshLedger {
	return &RefreshLedger{
		used: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (l *RefreshLedger) MarkUsed(ctx context.Context, tokenID string, until time.Time) (bool, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return false, domain.ErrMissingField("token_id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, exp := range l.used {
		if !now.Before(exp) {
			delete(l.used, id)
		}
	}

	if _, seen := l.used[tokenID]; seen {
		return false, nil
	}
	if !until.After(now) {
		until = now.Add(time.Second)
	}
	l.used[tokenID] = until
	return true, nil
}

// Len reports how many consumed ids are still retained.
func (l *RefreshLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.used)
}
