package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/baechuer/credential-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

type auditLog struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditLog) record(action string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{action: action, fields: fields})
}

func (a *auditLog) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.action)
	}
	return out
}

/*
Fakes for ports
*/

type fakeUserStore struct {
	mu sync.Mutex

	byID    map[string]domain.User
	byEmail map[string]domain.User

	// injected errors (if set, method returns error)
	findByEmailErr error
	findByIDErr    error
	createErr      error

	createCalls int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    map[string]domain.User{},
		byEmail: map[string]domain.User{},
	}
}

func (f *fakeUserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	u.ID = bson.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now
	f.byID[u.Hex()] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findByEmailErr != nil {
		return domain.User{}, false, f.findByEmailErr
	}
	u, ok := f.byEmail[email]
	return u, ok, nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (domain.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findByIDErr != nil {
		return domain.User{}, false, f.findByIDErr
	}
	u, ok := f.byID[id]
	return u, ok, nil
}

func (f *fakeUserStore) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[id]
	delete(f.byID, id)
	delete(f.byEmail, u.Email)
}

func (f *fakeUserStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// fakeHasher salts with a counter so equal inputs yield distinct digests.
type fakeHasher struct {
	n atomic.Int64

	hashFn   func(pw string) (string, error)
	verifyFn func(pw, hash string) (bool, error)

	verifyCalls atomic.Int64
	hashCalls   atomic.Int64
}

func (h *fakeHasher) Hash(ctx context.Context, pw string) (string, error) {
	h.hashCalls.Add(1)
	if h.hashFn != nil {
		return h.hashFn(pw)
	}
	return fmt.Sprintf("h$%d$%s", h.n.Add(1), pw), nil
}

func (h *fakeHasher) Verify(ctx context.Context, pw, hash string) (bool, error) {
	h.verifyCalls.Add(1)
	if h.verifyFn != nil {
		return h.verifyFn(pw, hash)
	}
	parts := strings.SplitN(hash, "$", 3)
	return len(parts) == 3 && parts[0] == "h" && parts[2] == pw, nil
}

// fakeIssuer encodes tokens as "kind|user|jti|unixnano" and trusts nothing else.
type fakeIssuer struct {
	mu  sync.Mutex
	seq int

	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	signErr error
}

func newFakeIssuer() *fakeIssuer {
	return &fakeIssuer{
		accessTTL:  time.Minute,
		refreshTTL: time.Hour,
		now:        time.Now,
	}
}

func (f *fakeIssuer) issue(userID string, kind TokenKind, ttl time.Duration) (IssuedToken, error) {
	if f.signErr != nil {
		return IssuedToken{}, domain.ErrTokenSignFailed(f.signErr)
	}
	f.mu.Lock()
	f.seq++
	jti := fmt.Sprintf("jti-%d", f.seq)
	f.mu.Unlock()

	exp := f.now().Add(ttl)
	return IssuedToken{
		Token:     fmt.Sprintf("%s|%s|%s|%d", kind, userID, jti, exp.UnixNano()),
		TokenID:   jti,
		ExpiresAt: exp,
	}, nil
}

func (f *fakeIssuer) IssueAccessToken(userID string) (IssuedToken, error) {
	return f.issue(userID, KindAccess, f.accessTTL)
}

func (f *fakeIssuer) IssueRefreshToken(userID string) (IssuedToken, error) {
	return f.issue(userID, KindRefresh, f.refreshTTL)
}

func (f *fakeIssuer) Verify(token string, kind TokenKind) (TokenClaims, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 4 {
		return TokenClaims{}, domain.ErrTokenInvalid(domain.TokenMalformed)
	}
	var nanos int64
	if _, err := fmt.Sscan(parts[3], &nanos); err != nil {
		return TokenClaims{}, domain.ErrTokenInvalid(domain.TokenMalformed)
	}
	exp := time.Unix(0, nanos)
	if !f.now().Before(exp) {
		return TokenClaims{}, domain.ErrTokenInvalid(domain.TokenExpired)
	}
	if TokenKind(parts[0]) != kind {
		return TokenClaims{}, domain.ErrTokenInvalid(domain.TokenWrongKind)
	}
	return TokenClaims{UserID: parts[1], Kind: kind, TokenID: parts[2], ExpiresAt: exp}, nil
}

type fakeLedger struct {
	mu   sync.Mutex
	used map[string]time.Time
	err  error
}

func newFakeLedger() *fakeLedger { return &fakeLedger{used: map[string]time.Time{}} }

func (l *fakeLedger) MarkUsed(ctx context.Context, tokenID string, until time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	if _, ok := l.used[tokenID]; ok {
		return false, nil
	}
	l.used[tokenID] = until
	return true, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []UserSignedUpEvent
	err    error
}

func (p *fakePublisher) PublishUserSignedUp(ctx context.Context, evt UserSignedUpEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

type testDeps struct {
	users  *fakeUserStore
	hasher *fakeHasher
	tokens *fakeIssuer
	ledger *fakeLedger
	pub    *fakePublisher
	audit  *auditLog
}

func newSvcForTest(t *testing.T) (*Service, *testDeps) {
	t.Helper()
	return newSvcWithConfig(t, Config{SingleUseRefresh: true})
}

func newSvcWithConfig(t *testing.T, cfg Config) (*Service, *testDeps) {
	t.Helper()
	d := &testDeps{
		users:  newFakeUserStore(),
		hasher: &fakeHasher{},
		tokens: newFakeIssuer(),
		ledger: newFakeLedger(),
		pub:    &fakePublisher{},
		audit:  &auditLog{},
	}
	svc := NewService(d.users, d.hasher, d.tokens, d.ledger, d.pub, cfg).WithAudit(d.audit.record)
	return svc, d
}

var errBoom = errors.New("boom")
