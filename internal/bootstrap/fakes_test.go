package bootstrap

import (
	"context"
	"sync"

	"github.com/baechuer/credential-service/internal/application/auth"
)

type fakePublisher struct {
	mu        sync.Mutex
	published int
	closed    bool
}

func (f *fakePublisher) PublishUserSignedUp(ctx context.Context, evt auth.UserSignedUpEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published++
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}
