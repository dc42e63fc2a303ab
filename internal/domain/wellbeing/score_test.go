package wellbeing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentor-hub/student-mentor/internal/domain/student"
)

func TestPulseScore_NeutralDefaults(t *testing.T) {
	assert.Equal(t, 18.0, PulseScore(nil))
	assert.Equal(t, 18.0, PulseScore(&student.WeeklyPulse{}))
	assert.Equal(t, 18.0, PulseScore(&student.WeeklyPulse{Rating: f(0)}))
	assert.Equal(t, 18.0, PulseScore(&student.WeeklyPulse{Rating: f(-2)}))
}

func TestPulseScore_FivePointScale(t *testing.T) {
	// Ratings below 6 are treated as a 1-5 scale: (6-rating)*6.
	assert.Equal(t, 30.0, PulseScore(&student.WeeklyPulse{Rating: f(1)}))
	assert.Equal(t, 18.0, PulseScore(&student.WeeklyPulse{Rating: f(3)}))
	assert.Equal(t, 6.0, PulseScore(&student.WeeklyPulse{Rating: f(5)}))
}

func TestPulseScore_TenPointScale(t *testing.T) {
	// Ratings >= 6 flip to a 1-10 scale interpretation.
	assert.InDelta(t, 16.67, PulseScore(&student.WeeklyPulse{Rating: f(6)}), 0.01)
	assert.Equal(t, 6.0, PulseScore(&student.WeeklyPulse{Rating: f(10)}))
}

func TestPulseScore_Bounds(t *testing.T) {
	for _, r := range []float64{0.5, 1, 2, 4.9, 5, 6, 7, 10, 15} {
		got := PulseScore(&student.WeeklyPulse{Rating: f(r)})
		assert.GreaterOrEqual(t, got, 6.0, "rating %v", r)
		assert.LessOrEqual(t, got, 30.0, "rating %v", r)
	}
}

func TestComplaintsHeuristic(t *testing.T) {
	assert.Equal(t, 0.0, ComplaintsHeuristic(nil))
	assert.Equal(t, 0.0, ComplaintsHeuristic([]student.Complaint{}))

	three := []student.Complaint{
		{Description: "x"}, {Description: "y"}, {Description: "z"},
	}
	assert.Equal(t, 15.0, ComplaintsHeuristic(three))

	many := make([]student.Complaint, 10)
	assert.Equal(t, 30.0, ComplaintsHeuristic(many))
}

func TestStressScore_Total(t *testing.T) {
	s := StressScore{Habits: 15, Complaints: 0, Pulse: 18}
	assert.Equal(t, 33.0, s.Total())

	// Components are individually bounded, but the total still clamps.
	assert.Equal(t, 90.0, StressScore{Habits: 40, Complaints: 40, Pulse: 40}.Total())
	assert.Equal(t, 0.0, StressScore{Habits: -5, Complaints: 0, Pulse: 0}.Total())
}

func TestStressScore_PercentageTruncates(t *testing.T) {
	// 33/90 = 36.67%, truncated to 36.
	assert.Equal(t, 36, StressScore{Habits: 15, Pulse: 18}.Percentage())
	assert.Equal(t, 0, StressScore{}.Percentage())
	assert.Equal(t, 100, StressScore{Habits: 30, Complaints: 30, Pulse: 30}.Percentage())
}

func TestStressScore_PercentageMonotone(t *testing.T) {
	prev := -1
	for total := 0.0; total <= 90; total++ {
		p := StressScore{Habits: total}.Percentage()
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
}

func TestStressScore_ColorBands(t *testing.T) {
	cases := []struct {
		total float64
		want  Color
	}{
		{0, ColorGreen},
		{30, ColorGreen},
		{31, ColorYellow},
		{60, ColorYellow},
		{61, ColorOrange},
		{75, ColorOrange},
		{76, ColorRed},
		{90, ColorRed},
	}
	for _, tc := range cases {
		got := StressScore{Habits: tc.total}.Color()
		assert.Equal(t, tc.want, got, "total %v", tc.total)
	}
}

func TestAllDefaultsScenario(t *testing.T) {
	// Missing habits, no complaints, missing pulse:
	// 15 + 0 + 18 = 33 -> 36% -> YELLOW.
	s := StressScore{
		Habits:     HabitsScore(nil),
		Complaints: ComplaintsHeuristic(nil),
		Pulse:      PulseScore(nil),
	}
	assert.Equal(t, 33.0, s.Total())
	assert.Equal(t, 36, s.Percentage())
	assert.Equal(t, ColorYellow, s.Color())
}

func TestNewResult(t *testing.T) {
	s := StressScore{Habits: 15, Pulse: 18}
	r := NewResult(s, "doing okay")
	assert.Equal(t, 36, r.StressPercentage)
	assert.Equal(t, ColorYellow, r.StressColor)
	assert.Equal(t, "doing okay", r.Gist)
}
