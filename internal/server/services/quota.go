package services

import (
	"context"
	"sync"

	"github.com/mkarulin/filevault/internal/common"
	"github.com/mkarulin/filevault/internal/server/repositories/files"
)

// QuotaEnforcer checks per-owner storage consumption against a configured
// ceiling. Usage is recomputed from metadata on every check, never cached.
//
// The check-then-write sequence is not atomic on its own: two concurrent
// uploads by one owner could both pass the check before either persists.
// Lock serializes uploads per owner to close that race; the caller holds
// the lock across check, write and metadata persist.
type QuotaEnforcer struct {
	repo       files.Repository
	maxPerUser int64

	mu    sync.Mutex
	owner map[string]*sync.Mutex
}

func NewQuotaEnforcer(repo files.Repository, maxPerUser int64) *QuotaEnforcer {
	return &QuotaEnforcer{
		repo:       repo,
		maxPerUser: maxPerUser,
		owner:      make(map[string]*sync.Mutex),
	}
}

// Lock acquires the per-owner upload lock and returns the release func.
func (q *QuotaEnforcer) Lock(ownerID string) func() {
	q.mu.Lock()
	m, ok := q.owner[ownerID]
	if !ok {
		m = &sync.Mutex{}
		q.owner[ownerID] = m
	}
	q.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Check fails with *common.QuotaExceededError when used + requested would
// pass the ceiling. used + requested == ceiling is still allowed.
func (q *QuotaEnforcer) Check(ctx context.Context, ownerID string, requested int64) error {
	used, err := q.repo.SumSizeByOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	if used+requested > q.maxPerUser {
		return &common.QuotaExceededError{
			Used:      used,
			Available: q.maxPerUser - used,
			Requested: requested,
		}
	}
	return nil
}
