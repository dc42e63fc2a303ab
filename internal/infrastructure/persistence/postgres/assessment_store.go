package postgres

import (
	"context"
	"fmt"

	"github.com/mentor-hub/student-mentor/internal/domain/wellbeing"
)

// assessmentSchema creates the audit tables. Idempotent.
const assessmentSchema = `
CREATE TABLE IF NOT EXISTS wellbeing_assessments (
	id                BIGSERIAL PRIMARY KEY,
	student_id        BIGINT NOT NULL,
	stress_percentage INTEGER NOT NULL,
	stress_colour     TEXT NOT NULL,
	wellbeing_gist    TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_wellbeing_assessments_student
	ON wellbeing_assessments (student_id, created_at DESC);

CREATE TABLE IF NOT EXISTS guidance_batches (
	id            BIGSERIAL PRIMARY KEY,
	student_id    BIGINT NOT NULL,
	guidances     TEXT[] NOT NULL,
	guidance_date DATE NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_guidance_batches_student
	ON guidance_batches (student_id, guidance_date DESC);
`

// AssessmentStore records completed assessments and guidance batches.
type AssessmentStore struct {
	pool *Pool
}

// NewAssessmentStore creates the store and applies the schema.
func NewAssessmentStore(ctx context.Context, pool *Pool) (*AssessmentStore, error) {
	if _, err := pool.pool.Exec(ctx, assessmentSchema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}
	return &AssessmentStore{pool: pool}, nil
}

// RecordAssessment appends a completed wellbeing assessment to the audit log.
func (s *AssessmentStore) RecordAssessment(ctx context.Context, studentID int64, result wellbeing.Result) error {
	const query = `
		INSERT INTO wellbeing_assessments (student_id, stress_percentage, stress_colour, wellbeing_gist)
		VALUES ($1, $2, $3, $4)`

	_, err := s.pool.pool.Exec(ctx, query,
		studentID, result.StressPercentage, string(result.StressColor), result.Gist)
	if err != nil {
		return fmt.Errorf("postgres: failed to record assessment: %w", err)
	}
	return nil
}

// RecordGuidance appends a guidance batch to the audit log.
func (s *AssessmentStore) RecordGuidance(ctx context.Context, studentID int64, guidances []string, date string) error {
	const query = `
		INSERT INTO guidance_batches (student_id, guidances, guidance_date)
		VALUES ($1, $2, $3)`

	_, err := s.pool.pool.Exec(ctx, query, studentID, guidances, date)
	if err != nil {
		return fmt.Errorf("postgres: failed to record guidance: %w", err)
	}
	return nil
}

// LatestAssessment returns the most recent recorded assessment for a student.
func (s *AssessmentStore) LatestAssessment(ctx context.Context, studentID int64) (wellbeing.Result, error) {
	const query = `
		SELECT stress_percentage, stress_colour, wellbeing_gist
		FROM wellbeing_assessments
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var result wellbeing.Result
	var colour string
	err := s.pool.pool.QueryRow(ctx, query, studentID).
		Scan(&result.StressPercentage, &colour, &result.Gist)
	if err != nil {
		return wellbeing.Result{}, fmt.Errorf("postgres: failed to load assessment: %w", err)
	}
	result.StressColor = wellbeing.Color(colour)
	return result, nil
}
