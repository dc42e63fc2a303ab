package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/mentor-hub/student-mentor/internal/domain/student"
	"github.com/mentor-hub/student-mentor/internal/domain/wellbeing"
)

// Fallback strings shared by both analyzers.
const (
	// GistUnavailable is returned when the LLM produced nothing usable.
	GistUnavailable = "We're currently unable to generate a detailed wellbeing assessment. Please check back later."

	gistBalanced = "Based on the available data, you appear to be maintaining a balanced lifestyle. Keep focusing on healthy habits and don't hesitate to seek support when needed. Remember that small consistent efforts lead to big improvements in overall wellbeing."
)

// fallbackGuidance is returned when the LLM response cannot be parsed.
var fallbackGuidance = []string{
	"Engage in at least 30 minutes of physical activity daily",
	"Practice 5 minutes of deep breathing exercises each morning",
}

// heuristicAnalyzer produces deterministic assessments without any external
// calls. It backs the no-API-key mode and the LLM failure path.
type heuristicAnalyzer struct{}

func (h *heuristicAnalyzer) ComplaintStress(_ context.Context, complaints []student.Complaint) float64 {
	return wellbeing.ComplaintsHeuristic(complaints)
}

func (h *heuristicAnalyzer) WellbeingGist(_ context.Context, snap *student.Snapshot) string {
	return heuristicGist(snap)
}

func (h *heuristicAnalyzer) Guidance(_ context.Context, snap *student.Snapshot) []string {
	return heuristicGuidance(snap)
}

// heuristicGist stitches canned observations from whatever data is present.
func heuristicGist(snap *student.Snapshot) string {
	var parts []string

	if snap != nil && snap.HabitsSummary != nil {
		h := snap.HabitsSummary
		if h.AverageSleepHours != nil && *h.AverageSleepHours != 0 {
			if *h.AverageSleepHours >= 7 {
				parts = append(parts, fmt.Sprintf("You're getting a healthy %.1f hours of sleep on average, which is great for your wellbeing.", *h.AverageSleepHours))
			} else {
				parts = append(parts, fmt.Sprintf("Your average sleep of %.1f hours could be improved - aim for 7-9 hours for optimal health.", *h.AverageSleepHours))
			}
		}
		if h.AverageExerciseHours != nil && *h.AverageExerciseHours != 0 {
			if *h.AverageExerciseHours >= 1 {
				parts = append(parts, fmt.Sprintf("Your exercise routine of %.1f hours daily shows good commitment to physical health.", *h.AverageExerciseHours))
			} else {
				parts = append(parts, "Consider adding more physical activity to your routine for better overall wellness.")
			}
		}
		if h.AverageScreenTimeHours != nil && *h.AverageScreenTimeHours > 4 {
			parts = append(parts, "Your screen time is on the higher side - taking regular breaks can help reduce eye strain and improve focus.")
		}
	}

	if snap != nil && len(snap.UnresolvedComplaints) > 0 {
		parts = append(parts, fmt.Sprintf("You have %d unresolved concern(s) being addressed. Remember, seeking help is a sign of strength.", len(snap.UnresolvedComplaints)))
	} else {
		parts = append(parts, "It's positive that you don't have any pending concerns at the moment.")
	}

	if snap != nil && snap.CurrentWeekPulse != nil && snap.CurrentWeekPulse.Rating != nil && *snap.CurrentWeekPulse.Rating != 0 {
		rating := *snap.CurrentWeekPulse.Rating
		switch {
		case rating >= 4:
			parts = append(parts, "Your recent mood rating suggests you're feeling good - keep up the positive momentum!")
		case rating >= 2:
			parts = append(parts, "Your recent mood has been moderate. Remember to take time for activities you enjoy.")
		default:
			parts = append(parts, "Your recent mood rating indicates you might be going through a tough time. Consider reaching out to someone you trust.")
		}
	}

	if len(parts) == 0 {
		return gistBalanced
	}
	return strings.Join(parts, " ")
}

// heuristicGuidance builds semi-personalized habits from the snapshot.
func heuristicGuidance(snap *student.Snapshot) []string {
	var habits []string

	var interests *student.Interests
	var summary *student.HabitsSummary
	if snap != nil {
		interests = snap.Interests
		summary = snap.HabitsSummary
	}

	if hobby, ok := interests.FirstHobby(); ok {
		name := strings.ReplaceAll(strings.ToLower(hobby), "_", " ")
		habits = append(habits, fmt.Sprintf("Dedicate 30 minutes daily to practice %s to develop your skills and passion", name))
	} else {
		habits = append(habits, "Engage in at least 30 minutes of physical activity daily to boost energy and mood")
	}

	var screenTime, waterIntake *float64
	if summary != nil {
		screenTime = summary.AverageScreenTimeHours
		waterIntake = summary.AverageWaterIntake
	}

	if screenTime != nil && *screenTime > 4 {
		habits = append(habits, "Take a 10-minute break every hour from screens to rest your eyes and stretch")
	} else {
		habits = append(habits, "Practice 10 minutes of mindfulness meditation before starting your day")
	}

	if waterIntake != nil && *waterIntake < 2 {
		habits = append(habits, "Drink at least 8 glasses of water throughout the day, keeping a water bottle nearby")
	} else {
		habits = append(habits, "Read for 20 minutes before bed instead of using electronic devices")
	}

	if len(habits) > 3 {
		habits = habits[:3]
	}
	return habits
}
