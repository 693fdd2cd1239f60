package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/baechuer/credential-service/internal/domain"
)

// UserStore keeps users in process memory. It assigns identifiers and
// timestamps the same way the Mongo store does and enforces unique emails.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string // email -> userID
	now     func() time.Time
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = domain.NormalizeEmail(u.Email)
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	u.ID = bson.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now

	id := u.ID.Hex()
	r.byID[id] = u
	r.byEmail[u.Email] = id
	return u, nil
}

func (r *UserStore) FindByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return domain.User{}, false, nil
	}
	return r.byID[id], true, nil
}

func (r *UserStore) FindByID(ctx context.Context, id string) (domain.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	return u, ok, nil
}

func (r *UserStore) DeleteByID(ctx context.Context, id string) (domain.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, false, nil
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return u, true, nil
}

// Ping always succeeds; it lets the memory store stand in for readiness checks.
func (r *UserStore) Ping(ctx context.Context) error { return nil }
