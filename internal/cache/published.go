// Package cache holds the published-courses read cache: a denormalized,
// TTL-bounded snapshot serving the course listing. The canonical store is
// the source of truth; the snapshot may be stale within the TTL window but
// is explicitly invalidated on every publication-state change.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aulahub/aulahub-backend/internal/platform/apperr"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/types"
)

// Source produces the fresh projection from the canonical store.
type Source func(ctx context.Context) ([]types.PublishedCourse, error)

// SnapshotStore persists the serialized snapshot with a TTL. Load returns
// (nil, nil) on a clean miss.
type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, raw []byte, ttl time.Duration) error
	Drop(ctx context.Context) error
}

type PublishedCache struct {
	log    *logger.Logger
	store  SnapshotStore
	source Source
	ttl    time.Duration

	group singleflight.Group

	mu          sync.RWMutex
	lastKnown   []types.PublishedCourse
	hasSnapshot bool
}

func NewPublishedCache(store SnapshotStore, source Source, ttl time.Duration, baseLog *logger.Logger) *PublishedCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &PublishedCache{
		log:    baseLog.With("cache", "PublishedCache"),
		store:  store,
		source: source,
		ttl:    ttl,
	}
}

// GetPublished serves the snapshot, repopulating lazily on a miss. A failed
// refresh degrades to the last-known snapshot when one survives; only when
// nothing is cached at all does the caller see a retryable upstream error.
func (pc *PublishedCache) GetPublished(ctx context.Context) ([]types.PublishedCourse, error) {
	raw, err := pc.store.Load(ctx)
	if err != nil {
		pc.log.Warn("snapshot store load failed", "error", err)
	} else if raw != nil {
		var entries []types.PublishedCourse
		if jerr := json.Unmarshal(raw, &entries); jerr == nil {
			pc.remember(entries)
			return entries, nil
		}
		pc.log.Warn("snapshot store held bad payload, refreshing", "bytes", len(raw))
	}

	entries, rerr := pc.Refresh(ctx)
	if rerr == nil {
		return entries, nil
	}

	if stale, ok := pc.staleCopy(); ok {
		pc.log.Warn("refresh failed, serving last-known snapshot", "error", rerr)
		return stale, nil
	}
	return nil, rerr
}

// Refresh scans the canonical store and replaces the snapshot. Concurrent
// callers collapse onto one in-flight scan, which runs detached from the
// first caller's context so its cancellation cannot poison the waiters.
func (pc *PublishedCache) Refresh(ctx context.Context) ([]types.PublishedCourse, error) {
	scanCtx := context.WithoutCancel(ctx)
	v, err, _ := pc.group.Do("published", func() (any, error) {
		entries, err := pc.source(scanCtx)
		if err != nil {
			return nil, fmt.Errorf("%w: published course scan: %v", apperr.ErrUpstream, err)
		}
		if entries == nil {
			entries = []types.PublishedCourse{}
		}
		raw, jerr := json.Marshal(entries)
		if jerr != nil {
			return nil, jerr
		}
		if serr := pc.store.Save(scanCtx, raw, pc.ttl); serr != nil {
			// The caller still gets fresh data; only the shared snapshot
			// write failed.
			pc.log.Warn("snapshot store save failed", "error", serr)
		}
		pc.remember(entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]types.PublishedCourse), nil
}

// Invalidate drops both the shared snapshot and the in-process copy.
// Dropping the local copy matters: after an unpublish, a degraded read must
// not resurrect the stale listing.
func (pc *PublishedCache) Invalidate(ctx context.Context) error {
	pc.mu.Lock()
	pc.lastKnown = nil
	pc.hasSnapshot = false
	pc.mu.Unlock()

	if err := pc.store.Drop(ctx); err != nil {
		return fmt.Errorf("%w: drop snapshot: %v", apperr.ErrUpstream, err)
	}
	return nil
}

func (pc *PublishedCache) remember(entries []types.PublishedCourse) {
	copied := make([]types.PublishedCourse, len(entries))
	copy(copied, entries)
	pc.mu.Lock()
	pc.lastKnown = copied
	pc.hasSnapshot = true
	pc.mu.Unlock()
}

func (pc *PublishedCache) staleCopy() ([]types.PublishedCourse, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	if !pc.hasSnapshot {
		return nil, false
	}
	copied := make([]types.PublishedCourse, len(pc.lastKnown))
	copy(copied, pc.lastKnown)
	return copied, true
}
