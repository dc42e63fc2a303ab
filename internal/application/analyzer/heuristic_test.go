package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentor-hub/student-mentor/internal/domain/student"
)

func f(v float64) *float64 { return &v }

func TestNewWithoutClientSelectsHeuristic(t *testing.T) {
	a := New(nil, nil)
	_, ok := a.(*heuristicAnalyzer)
	assert.True(t, ok)
}

func TestHeuristicComplaintStress(t *testing.T) {
	a := &heuristicAnalyzer{}
	ctx := context.Background()

	assert.Equal(t, 0.0, a.ComplaintStress(ctx, nil))
	assert.Equal(t, 15.0, a.ComplaintStress(ctx, make([]student.Complaint, 3)))
	assert.Equal(t, 30.0, a.ComplaintStress(ctx, make([]student.Complaint, 10)))
}

func TestHeuristicGuidanceUsesFirstHobby(t *testing.T) {
	a := &heuristicAnalyzer{}
	snap := &student.Snapshot{
		Interests: &student.Interests{Hobbies: []string{"Rock_Climbing", "chess"}},
	}

	habits := a.Guidance(context.Background(), snap)

	assert.Len(t, habits, 3)
	assert.Equal(t, "Dedicate 30 minutes daily to practice rock climbing to develop your skills and passion", habits[0])
}

func TestHeuristicGuidanceDefaults(t *testing.T) {
	a := &heuristicAnalyzer{}

	habits := a.Guidance(context.Background(), &student.Snapshot{})

	assert.Equal(t, []string{
		"Engage in at least 30 minutes of physical activity daily to boost energy and mood",
		"Practice 10 minutes of mindfulness meditation before starting your day",
		"Read for 20 minutes before bed instead of using electronic devices",
	}, habits)
}

func TestHeuristicGuidanceScreenAndWaterBranches(t *testing.T) {
	a := &heuristicAnalyzer{}
	snap := &student.Snapshot{
		HabitsSummary: &student.HabitsSummary{
			AverageScreenTimeHours: f(6),
			AverageWaterIntake:     f(1),
		},
	}

	habits := a.Guidance(context.Background(), snap)

	assert.Contains(t, habits, "Take a 10-minute break every hour from screens to rest your eyes and stretch")
	assert.Contains(t, habits, "Drink at least 8 glasses of water throughout the day, keeping a water bottle nearby")
}

func TestHeuristicGistEmptySnapshot(t *testing.T) {
	a := &heuristicAnalyzer{}

	gist := a.WellbeingGist(context.Background(), &student.Snapshot{})

	// No habit or pulse data, so only the no-complaints sentence applies.
	assert.Equal(t, "It's positive that you don't have any pending concerns at the moment.", gist)
}

func TestHeuristicGistCombinesObservations(t *testing.T) {
	a := &heuristicAnalyzer{}
	snap := &student.Snapshot{
		HabitsSummary: &student.HabitsSummary{
			AverageSleepHours:      f(8),
			AverageExerciseHours:   f(0.5),
			AverageScreenTimeHours: f(5),
		},
		UnresolvedComplaints: []student.Complaint{{Description: "noise"}},
		CurrentWeekPulse:     &student.WeeklyPulse{Rating: f(1)},
	}

	gist := a.WellbeingGist(context.Background(), snap)

	assert.Contains(t, gist, "healthy 8.0 hours of sleep")
	assert.Contains(t, gist, "Consider adding more physical activity")
	assert.Contains(t, gist, "screen time is on the higher side")
	assert.Contains(t, gist, "You have 1 unresolved concern(s)")
	assert.Contains(t, gist, "going through a tough time")
}

func TestHeuristicGistPulseBands(t *testing.T) {
	a := &heuristicAnalyzer{}
	ctx := context.Background()

	cases := []struct {
		rating float64
		want   string
	}{
		{4, "feeling good"},
		{2, "has been moderate"},
		{1, "tough time"},
	}
	for _, tc := range cases {
		snap := &student.Snapshot{CurrentWeekPulse: &student.WeeklyPulse{Rating: f(tc.rating)}}
		assert.Contains(t, a.WellbeingGist(ctx, snap), tc.want)
	}
}
