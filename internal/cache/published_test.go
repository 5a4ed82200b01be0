package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// countingSource counts canonical-store scans and can be told to fail or
// block.
type countingSource struct {
	mu      sync.Mutex
	scans   int64
	fail    bool
	block   chan struct{}
	entries []types.PublishedCourse
}

func (s *countingSource) source(ctx context.Context) ([]types.PublishedCourse, error) {
	atomic.AddInt64(&s.scans, 1)
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, fmt.Errorf("canonical store down")
	}
	out := make([]types.PublishedCourse, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *countingSource) set(entries []types.PublishedCourse, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	s.fail = fail
}

func oneCourse(title string) []types.PublishedCourse {
	return []types.PublishedCourse{{CourseID: uuid.New(), Title: title, TeacherName: "Rosa Diaz"}}
}

func TestGetPublished_PopulatesLazilyThenServesSnapshot(t *testing.T) {
	src := &countingSource{}
	src.set(oneCourse("Algebra"), false)
	pc := NewPublishedCache(NewMemorySnapshotStore(), src.source, time.Minute, testLogger(t))

	for i := 0; i < 3; i++ {
		entries, err := pc.GetPublished(context.Background())
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if len(entries) != 1 || entries[0].Title != "Algebra" {
			t.Fatalf("get %d returned %+v", i, entries)
		}
	}
	if n := atomic.LoadInt64(&src.scans); n != 1 {
		t.Fatalf("expected a single canonical scan, got %d", n)
	}
}

func TestGetPublished_RescansAfterTTL(t *testing.T) {
	src := &countingSource{}
	src.set(oneCourse("Algebra"), false)
	pc := NewPublishedCache(NewMemorySnapshotStore(), src.source, 20*time.Millisecond, testLogger(t))

	if _, err := pc.GetPublished(context.Background()); err != nil {
		t.Fatalf("warm: %v", err)
	}
	src.set(oneCourse("Biology"), false)

	time.Sleep(40 * time.Millisecond)
	entries, err := pc.GetPublished(context.Background())
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Biology" {
		t.Fatalf("expected refreshed snapshot, got %+v", entries)
	}
	if n := atomic.LoadInt64(&src.scans); n != 2 {
		t.Fatalf("expected second scan after TTL, got %d", n)
	}
}

func TestInvalidate_DropsSnapshotBeforeTTL(t *testing.T) {
	src := &countingSource{}
	src.set(oneCourse("Algebra"), false)
	pc := NewPublishedCache(NewMemorySnapshotStore(), src.source, time.Hour, testLogger(t))

	if _, err := pc.GetPublished(context.Background()); err != nil {
		t.Fatalf("warm: %v", err)
	}
	src.set(nil, false)
	if err := pc.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	entries, err := pc.GetPublished(context.Background())
	if err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("invalidated snapshot still served: %+v", entries)
	}
}

func TestGetPublished_DegradesToLastKnownOnSourceFailure(t *testing.T) {
	src := &countingSource{}
	src.set(oneCourse("Algebra"), false)
	pc := NewPublishedCache(NewMemorySnapshotStore(), src.source, 20*time.Millisecond, testLogger(t))

	if _, err := pc.GetPublished(context.Background()); err != nil {
		t.Fatalf("warm: %v", err)
	}

	// TTL lapses and the canonical store goes down; the last-known
	// snapshot keeps serving.
	src.set(nil, true)
	time.Sleep(40 * time.Millisecond)
	entries, err := pc.GetPublished(context.Background())
	if err != nil {
		t.Fatalf("degraded get: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Algebra" {
		t.Fatalf("expected last-known snapshot, got %+v", entries)
	}
}

func TestGetPublished_InvalidateBeatsDegradedServing(t *testing.T) {
	src := &countingSource{}
	src.set(oneCourse("Algebra"), false)
	pc := NewPublishedCache(NewMemorySnapshotStore(), src.source, time.Hour, testLogger(t))

	if _, err := pc.GetPublished(context.Background()); err != nil {
		t.Fatalf("warm: %v", err)
	}

	// After an explicit invalidation the stale copy is gone too; with the
	// canonical store down there is nothing safe to serve.
	if err := pc.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	src.set(nil, true)
	if _, err := pc.GetPublished(context.Background()); err == nil {
		t.Fatalf("expected error: invalidated data must not be resurrected")
	}
}

func TestRefresh_ScanSurvivesCallerCancellation(t *testing.T) {
	src := &countingSource{}
	src.set(oneCourse("Algebra"), false)

	// A context-honoring source: if the scan ran on the caller's context,
	// cancellation would fail it for every collapsed waiter.
	honoring := func(ctx context.Context) ([]types.PublishedCourse, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return src.source(ctx)
	}
	pc := NewPublishedCache(NewMemorySnapshotStore(), honoring, time.Minute, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	entries, err := pc.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh must run detached from the caller's context: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the scan result, got %+v", entries)
	}
}

func TestRefresh_CollapsesConcurrentScans(t *testing.T) {
	src := &countingSource{block: make(chan struct{})}
	src.set(oneCourse("Algebra"), false)
	pc := NewPublishedCache(NewMemorySnapshotStore(), src.source, time.Minute, testLogger(t))

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pc.Refresh(context.Background())
			errs <- err
		}()
	}

	// Give the goroutines time to pile onto the in-flight scan, then
	// release it.
	time.Sleep(20 * time.Millisecond)
	close(src.block)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("refresh: %v", err)
		}
	}
	if n := atomic.LoadInt64(&src.scans); n != 1 {
		t.Fatalf("expected one collapsed scan, got %d", n)
	}
}
