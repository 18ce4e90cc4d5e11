package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace/internal/domain"
)

// LockStore handles per-resource distributed locking in Redis. Booking
// creation serializes the conflict re-check and the insert behind a lock
// keyed by (kind, resource id), closing the check-then-act window between
// search and commit.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireResourceLock attempts to acquire the lock for a resource.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireResourceLock(ctx context.Context, kind domain.BookingKind, resourceID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, resourceLockKey(kind, resourceID), "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ReleaseResourceLock releases the lock for a resource.
func (s *LockStore) ReleaseResourceLock(ctx context.Context, kind domain.BookingKind, resourceID string) error {
	return s.client.Del(ctx, resourceLockKey(kind, resourceID)).Err()
}

func resourceLockKey(kind domain.BookingKind, resourceID string) string {
	return fmt.Sprintf("lock:resource:%s:%s", kind, resourceID)
}
