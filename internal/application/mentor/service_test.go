package mentor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentor-hub/student-mentor/internal/domain/shared"
	"github.com/mentor-hub/student-mentor/internal/domain/student"
	"github.com/mentor-hub/student-mentor/internal/domain/wellbeing"
	"github.com/mentor-hub/student-mentor/internal/infrastructure/external/backend"
)

func f(v float64) *float64 { return &v }

// fakeBackend records saved payloads.
type fakeBackend struct {
	mu        sync.Mutex
	snap      *student.Snapshot
	fetchErr  error
	fetches   int
	wellbeing []backend.WellbeingPayload
	guidance  []backend.GuidancePayload
}

func (b *fakeBackend) GetStudentInfo(ctx context.Context, studentID int64) (*student.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetches++
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	return b.snap, nil
}

func (b *fakeBackend) SaveWellbeing(ctx context.Context, studentID int64, payload backend.WellbeingPayload) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wellbeing = append(b.wellbeing, payload)
	return nil
}

func (b *fakeBackend) SaveGuidance(ctx context.Context, studentID int64, payload backend.GuidancePayload) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.guidance = append(b.guidance, payload)
	return nil
}

// syncRunner executes tasks inline so tests stay deterministic.
type syncRunner struct {
	names    []string
	rejected bool
}

func (r *syncRunner) Submit(name string, task func(ctx context.Context)) bool {
	if r.rejected {
		return false
	}
	r.names = append(r.names, name)
	task(context.Background())
	return true
}

// fixedAnalyzer returns canned values.
type fixedAnalyzer struct {
	stress    float64
	gist      string
	guidances []string
}

func (a *fixedAnalyzer) ComplaintStress(context.Context, []student.Complaint) float64 {
	return a.stress
}
func (a *fixedAnalyzer) WellbeingGist(context.Context, *student.Snapshot) string { return a.gist }
func (a *fixedAnalyzer) Guidance(context.Context, *student.Snapshot) []string    { return a.guidances }

type mapCache struct {
	mu    sync.Mutex
	snaps map[int64]*student.Snapshot
}

func newMapCache() *mapCache { return &mapCache{snaps: map[int64]*student.Snapshot{}} }

func (c *mapCache) Get(_ context.Context, studentID int64) (*student.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.snaps[studentID]
	return snap, ok
}

func (c *mapCache) Set(_ context.Context, snap *student.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps[snap.StudentID] = snap
}

type recordingStore struct {
	mu          sync.Mutex
	assessments []wellbeing.Result
	guidances   [][]string
}

func (s *recordingStore) RecordAssessment(_ context.Context, _ int64, result wellbeing.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessments = append(s.assessments, result)
	return nil
}

func (s *recordingStore) RecordGuidance(_ context.Context, _ int64, guidances []string, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guidances = append(s.guidances, guidances)
	return nil
}

func newService(b *fakeBackend, a *fixedAnalyzer, r *syncRunner) *Service {
	svc := NewService(b, a, r, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestProcessSchedulesBothTasks(t *testing.T) {
	b := &fakeBackend{snap: &student.Snapshot{StudentID: 42}}
	a := &fixedAnalyzer{stress: 0, gist: "doing fine", guidances: []string{"walk", "hydrate"}}
	r := &syncRunner{}
	svc := newService(b, a, r)

	err := svc.Process(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, []string{"wellbeing", "guidance"}, r.names)
	require.Len(t, b.wellbeing, 1)
	require.Len(t, b.guidance, 1)
}

func TestProcessComputesAssessmentFromDefaults(t *testing.T) {
	// Empty snapshot: habits 15 + complaints 0 + pulse 18 = 33 of 90 = 36%.
	b := &fakeBackend{snap: &student.Snapshot{StudentID: 7, HabitsSummary: &student.HabitsSummary{}}}
	a := &fixedAnalyzer{stress: 0, gist: "a gist"}
	svc := newService(b, a, &syncRunner{})

	require.NoError(t, svc.Process(context.Background(), 7))

	require.Len(t, b.wellbeing, 1)
	got := b.wellbeing[0]
	assert.Equal(t, 36, got.StressPercentage)
	assert.Equal(t, "YELLOW", got.StressColour)
	assert.Equal(t, "a gist", got.WellbeingGist)
}

func TestProcessCombinesComplaintStress(t *testing.T) {
	snap := &student.Snapshot{
		StudentID:        9,
		HabitsSummary:    &student.HabitsSummary{},
		CurrentWeekPulse: &student.WeeklyPulse{Rating: f(5)}, // pulse 6
	}
	b := &fakeBackend{snap: snap}
	a := &fixedAnalyzer{stress: 24, gist: "stressed"}
	svc := newService(b, a, &syncRunner{})

	require.NoError(t, svc.Process(context.Background(), 9))

	// 15 + 24 + 6 = 45 of 90 = 50%.
	require.Len(t, b.wellbeing, 1)
	assert.Equal(t, 50, b.wellbeing[0].StressPercentage)
	assert.Equal(t, "YELLOW", b.wellbeing[0].StressColour)
}

func TestProcessGuidancePayload(t *testing.T) {
	b := &fakeBackend{snap: &student.Snapshot{StudentID: 3}}
	a := &fixedAnalyzer{guidances: []string{"swim", "sleep early", "read"}}
	svc := newService(b, a, &syncRunner{})

	require.NoError(t, svc.Process(context.Background(), 3))

	require.Len(t, b.guidance, 1)
	assert.Equal(t, []string{"swim", "sleep early", "read"}, b.guidance[0].Guidances)
	assert.Equal(t, "2025-03-07", b.guidance[0].Date)
}

func TestProcessFetchFailureSchedulesNothing(t *testing.T) {
	fetchErr := &backend.APIError{StatusCode: 404, Message: "Student not found"}
	b := &fakeBackend{fetchErr: fetchErr}
	r := &syncRunner{}
	svc := newService(b, &fixedAnalyzer{}, r)

	err := svc.Process(context.Background(), 999)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, r.names)
	assert.Empty(t, b.wellbeing)
	assert.Empty(t, b.guidance)
}

func TestProcessUsesSnapshotCache(t *testing.T) {
	b := &fakeBackend{snap: &student.Snapshot{StudentID: 42}}
	cache := newMapCache()
	svc := NewService(b, &fixedAnalyzer{}, &syncRunner{}, cache, nil, nil)
	svc.now = time.Now

	require.NoError(t, svc.Process(context.Background(), 42))
	require.NoError(t, svc.Process(context.Background(), 42))

	assert.Equal(t, 1, b.fetches, "second request should hit the cache")
}

func TestProcessRecordsAuditEntries(t *testing.T) {
	b := &fakeBackend{snap: &student.Snapshot{StudentID: 42}}
	store := &recordingStore{}
	svc := NewService(b, &fixedAnalyzer{gist: "g", guidances: []string{"x"}}, &syncRunner{}, nil, store, nil)
	svc.now = time.Now

	require.NoError(t, svc.Process(context.Background(), 42))

	assert.Len(t, store.assessments, 1)
	assert.Len(t, store.guidances, 1)
}
