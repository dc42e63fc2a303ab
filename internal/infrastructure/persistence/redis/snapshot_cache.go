package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mentor-hub/student-mentor/internal/domain/student"
)

// DefaultSnapshotTTL keeps snapshots fresh enough that a re-assessment a few
// minutes later still reflects current data.
const DefaultSnapshotTTL = 5 * time.Minute

// SnapshotCache is a read-through cache for student snapshots. Errors are
// logged and treated as misses: a broken cache must never fail a request.
type SnapshotCache struct {
	cache  *Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewSnapshotCache creates a SnapshotCache with the given TTL; ttl <= 0 uses
// DefaultSnapshotTTL.
func NewSnapshotCache(cache *Cache, ttl time.Duration, logger *slog.Logger) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotCache{
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "snapshot_cache")),
	}
}

// Get returns the cached snapshot for a student, if present.
func (s *SnapshotCache) Get(ctx context.Context, studentID int64) (*student.Snapshot, bool) {
	var snap student.Snapshot
	err := s.cache.Get(ctx, SnapshotKey(studentID), &snap)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("snapshot cache read failed",
				slog.Int64("student_id", studentID),
				slog.Any("error", err),
			)
		}
		return nil, false
	}
	return &snap, true
}

// Set stores a snapshot with the configured TTL.
func (s *SnapshotCache) Set(ctx context.Context, snap *student.Snapshot) {
	if snap == nil {
		return
	}
	if err := s.cache.Set(ctx, SnapshotKey(snap.StudentID), snap, s.ttl); err != nil {
		s.logger.Warn("snapshot cache write failed",
			slog.Int64("student_id", snap.StudentID),
			slog.Any("error", err),
		)
	}
}

// Invalidate removes a cached snapshot.
func (s *SnapshotCache) Invalidate(ctx context.Context, studentID int64) {
	if err := s.cache.Delete(ctx, SnapshotKey(studentID)); err != nil {
		s.logger.Warn("snapshot cache invalidation failed",
			slog.Int64("student_id", studentID),
			slog.Any("error", err),
		)
	}
}
