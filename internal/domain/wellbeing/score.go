// Package wellbeing implements the deterministic stress scoring model.
//
// A stress score is an additive composite in [0,90]:
//
//	habits     [0,30]  fifteen per-metric sub-scores (habits.go)
//	complaints [0,30]  count heuristic or qualitative analyzer
//	pulse      [6,30]  inverted weekly mood rating
//
// Scores are recomputed fresh per request and never persisted as
// intermediate state.
package wellbeing

import "github.com/mentor-hub/student-mentor/internal/domain/student"

// Color is the presentation band derived from a stress score.
type Color string

const (
	ColorGreen  Color = "GREEN"
	ColorYellow Color = "YELLOW"
	ColorOrange Color = "ORANGE"
	ColorRed    Color = "RED"
)

// StressScore holds the three components of the composite score.
// Immutable once computed.
type StressScore struct {
	Habits     float64
	Complaints float64
	Pulse      float64
}

// Total returns the composite stress score clamped to [0,90].
func (s StressScore) Total() float64 {
	return clamp(s.Habits+s.Complaints+s.Pulse, 0, 90)
}

// Percentage converts the composite score to [0,100]. The fraction is
// truncated, not rounded: 33/90 maps to 36.
func (s StressScore) Percentage() int {
	p := int(s.Total() / 90.0 * 100.0)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Color maps the composite score onto the presentation bands, boundaries
// inclusive on the lower band: 30 is GREEN, 60 YELLOW, 75 ORANGE.
func (s StressScore) Color() Color {
	total := s.Total()
	switch {
	case total <= 30:
		return ColorGreen
	case total <= 60:
		return ColorYellow
	case total <= 75:
		return ColorOrange
	default:
		return ColorRed
	}
}

// Result is the derived wellbeing assessment submitted to the backend.
type Result struct {
	StressPercentage int
	StressColor      Color
	Gist             string
}

// NewResult derives the presentation values from a stress score and the
// narrative gist.
func NewResult(score StressScore, gist string) Result {
	return Result{
		StressPercentage: score.Percentage(),
		StressColor:      score.Color(),
		Gist:             gist,
	}
}

// PulseScore maps the weekly mood pulse into [6,30]. A missing pulse or a
// missing or non-positive rating scores the neutral 18.
//
// The rating's own scale is inferred by value: ratings >= 6 are treated as a
// 1-10 scale, ratings below as 1-5, each inverted (higher rating = lower
// stress) and mapped linearly onto [6,30]. The inference is ambiguous for
// legitimate high ratings on a 1-5 scale; behavior is preserved as-is
// pending product clarification.
func PulseScore(pulse *student.WeeklyPulse) float64 {
	if pulse == nil || pulse.Rating == nil {
		return 18.0
	}
	rating := *pulse.Rating
	if rating <= 0 {
		return 18.0
	}

	var score float64
	if rating >= 6 {
		// 1-10 scale: rating 1 -> 30, rating 10 -> 6
		score = 30 - (rating-1)*(24.0/9.0)
	} else {
		// 1-5 scale: rating 1 -> 30, rating 5 -> 6
		score = (6 - rating) * 6
	}
	return clamp(score, 6, 30)
}

// ComplaintsHeuristic is the count-based complaint score used when no
// qualitative analyzer is available: five points per unresolved complaint,
// capped at 30. An empty list scores 0.
func ComplaintsHeuristic(complaints []student.Complaint) float64 {
	if len(complaints) == 0 {
		return 0
	}
	return clamp(float64(len(complaints))*5, 0, 30)
}
