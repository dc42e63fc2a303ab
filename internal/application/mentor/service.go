// Package mentor orchestrates the wellbeing assessment pipeline. A mentoring
// request fetches the student snapshot synchronously and then runs two
// independent background tasks: the wellbeing assessment (score + gist) and
// the daily guidance generation. Each task posts its result back to the
// owning backend on its own; a failure in one never blocks the other.
package mentor

import (
	"context"
	"log/slog"
	"time"

	"github.com/mentor-hub/student-mentor/internal/application/analyzer"
	"github.com/mentor-hub/student-mentor/internal/domain/student"
	"github.com/mentor-hub/student-mentor/internal/domain/wellbeing"
	"github.com/mentor-hub/student-mentor/internal/infrastructure/external/backend"
	"github.com/mentor-hub/student-mentor/pkg/timeutil"
)

// taskTimeout bounds a single background pipeline task, covering the LLM
// calls and the result submission.
const taskTimeout = 2 * time.Minute

// BackendClient is the backend surface the service depends on.
type BackendClient interface {
	GetStudentInfo(ctx context.Context, studentID int64) (*student.Snapshot, error)
	SaveWellbeing(ctx context.Context, studentID int64, payload backend.WellbeingPayload) error
	SaveGuidance(ctx context.Context, studentID int64, payload backend.GuidancePayload) error
}

// TaskRunner schedules background work.
type TaskRunner interface {
	Submit(name string, task func(ctx context.Context)) bool
}

// SnapshotCache is an optional read-through cache for student snapshots.
type SnapshotCache interface {
	Get(ctx context.Context, studentID int64) (*student.Snapshot, bool)
	Set(ctx context.Context, snap *student.Snapshot)
}

// AssessmentStore is an optional audit sink for completed assessments.
type AssessmentStore interface {
	RecordAssessment(ctx context.Context, studentID int64, result wellbeing.Result) error
	RecordGuidance(ctx context.Context, studentID int64, guidances []string, date string) error
}

// Service runs the mentoring pipeline.
type Service struct {
	backend  BackendClient
	analyzer analyzer.Analyzer
	tasks    TaskRunner
	cache    SnapshotCache   // may be nil
	store    AssessmentStore // may be nil
	logger   *slog.Logger
	now      func() time.Time // injected for tests
}

// NewService creates the mentoring service. cache and store are optional and
// may be nil.
func NewService(bc BackendClient, an analyzer.Analyzer, tasks TaskRunner, cache SnapshotCache, store AssessmentStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		backend:  bc,
		analyzer: an,
		tasks:    tasks,
		cache:    cache,
		store:    store,
		logger:   logger.With(slog.String("component", "mentor_service")),
		now:      time.Now,
	}
}

// Process fetches the student snapshot and schedules the assessment tasks.
// The fetch is synchronous so that an invalid or unknown student fails the
// request immediately; once it succeeds both tasks are scheduled and the
// caller can acknowledge with 202.
func (s *Service) Process(ctx context.Context, studentID int64) error {
	snap, err := s.fetchSnapshot(ctx, studentID)
	if err != nil {
		return err
	}

	log := s.logger.With(slog.Int64("student_id", studentID))
	log.Info("snapshot fetched, scheduling assessment tasks")

	if !s.tasks.Submit("wellbeing", func(ctx context.Context) {
		s.runWellbeing(ctx, studentID, snap)
	}) {
		log.Warn("wellbeing task rejected, pool shutting down")
	}
	if !s.tasks.Submit("guidance", func(ctx context.Context) {
		s.runGuidance(ctx, studentID, snap)
	}) {
		log.Warn("guidance task rejected, pool shutting down")
	}

	return nil
}

func (s *Service) fetchSnapshot(ctx context.Context, studentID int64) (*student.Snapshot, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Get(ctx, studentID); ok {
			s.logger.Debug("snapshot cache hit", slog.Int64("student_id", studentID))
			return snap, nil
		}
	}

	snap, err := s.backend.GetStudentInfo(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, snap)
	}
	return snap, nil
}

// runWellbeing computes the stress score, generates the gist and posts the
// assessment to the backend.
func (s *Service) runWellbeing(ctx context.Context, studentID int64, snap *student.Snapshot) {
	ctx, cancel := context.WithTimeout(ctx, taskTimeout)
	defer cancel()

	log := s.logger.With(slog.Int64("student_id", studentID))

	score := wellbeing.StressScore{
		Habits:     wellbeing.HabitsScore(snap.HabitsSummary),
		Complaints: s.analyzer.ComplaintStress(ctx, snap.UnresolvedComplaints),
		Pulse:      wellbeing.PulseScore(snap.CurrentWeekPulse),
	}
	gist := s.analyzer.WellbeingGist(ctx, snap)
	result := wellbeing.NewResult(score, gist)

	log.Info("assessment computed",
		slog.Float64("habits_score", score.Habits),
		slog.Float64("complaints_score", score.Complaints),
		slog.Float64("pulse_score", score.Pulse),
		slog.Int("stress_percentage", result.StressPercentage),
		slog.String("stress_colour", string(result.StressColor)),
	)

	payload := backend.WellbeingPayload{
		StressPercentage: result.StressPercentage,
		StressColour:     string(result.StressColor),
		WellbeingGist:    result.Gist,
	}
	if err := s.backend.SaveWellbeing(ctx, studentID, payload); err != nil {
		log.Error("failed to save wellbeing assessment", slog.Any("error", err))
		return
	}
	log.Info("wellbeing assessment saved")

	if s.store != nil {
		if err := s.store.RecordAssessment(ctx, studentID, result); err != nil {
			log.Warn("failed to record assessment audit entry", slog.Any("error", err))
		}
	}
}

// runGuidance generates the personalized daily habits and posts them to the
// backend, dated today.
func (s *Service) runGuidance(ctx context.Context, studentID int64, snap *student.Snapshot) {
	ctx, cancel := context.WithTimeout(ctx, taskTimeout)
	defer cancel()

	log := s.logger.With(slog.Int64("student_id", studentID))

	guidances := s.analyzer.Guidance(ctx, snap)
	date := timeutil.FormatDate(s.now())

	payload := backend.GuidancePayload{
		Guidances: guidances,
		Date:      date,
	}
	if err := s.backend.SaveGuidance(ctx, studentID, payload); err != nil {
		log.Error("failed to save guidance", slog.Any("error", err))
		return
	}
	log.Info("guidance saved",
		slog.Int("count", len(guidances)),
		slog.String("date", date),
	)

	if s.store != nil {
		if err := s.store.RecordGuidance(ctx, studentID, guidances, date); err != nil {
			log.Warn("failed to record guidance audit entry", slog.Any("error", err))
		}
	}
}
