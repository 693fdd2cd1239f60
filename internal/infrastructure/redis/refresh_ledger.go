package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/credential-service/internal/domain"
)

// RefreshLedger implements auth.RefreshLedger:
// - key: rtused:<jti> -> "1"
// - SET NX with a TTL reaching the token's own expiry
// - a failed NX means the token id was already consumed
type RefreshLedger struct {
	rdb    *goredis.Client
	prefix string
	now    func() time.Time
}

func NewRefreshLedger(c *Client) *RefreshLedger {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &RefreshLedger{
		rdb:    rdb,
		prefix: "rtused:",
		now:    time.Now,
	}
}

func (l *RefreshLedger) MarkUsed(ctx context.Context, tokenID string, until time.Time) (bool, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return false, domain.ErrMissingField("token_id")
	}
	if l.rdb == nil {
		return false, domain.ErrRedisUnavailable(errors.New("redis refresh ledger not configured"))
	}

	ttl := until.Sub(l.now())
	if ttl <= 0 {
		// Already expired tokens never verify; keep the entry briefly anyway.
		ttl = time.Second
	}

	ok, err := l.rdb.SetNX(ctx, l.prefix+tokenID, "1", ttl).Result()
	if err != nil {
		return false, domain.ErrRedisUnavailable(err)
	}
	return ok, nil
}
