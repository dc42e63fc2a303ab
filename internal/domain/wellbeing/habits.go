package wellbeing

import (
	"strings"

	"github.com/mentor-hub/student-mentor/internal/domain/student"
)

// Each habit metric contributes a sub-score in {0, 1, 2}: 0 inside the
// domain-informed optimal band, 1 near it, 2 far from it. A missing metric
// scores the neutral default of 1. Fifteen metrics give the habits component
// its [0,30] range; a missing summary therefore scores exactly 15.

const neutralSubScore = 1.0

// HabitsScore maps a 30-day habits summary into [0,30].
// The function is pure and total: it never fails, only clamps.
func HabitsScore(h *student.HabitsSummary) float64 {
	if h == nil {
		return 15.0
	}

	score := 0.0

	// Sleep (4 metrics)
	score += scoreSleepQuality(h.AverageSleepQuality)
	score += scoreSleepHours(h.AverageSleepHours)
	score += scoreBedtime(h.AverageBedtime)
	score += scoreWakeTime(h.AverageWakeTime)

	// Diet (3 metrics)
	score += scoreWaterIntake(h.AverageWaterIntake)
	score += scoreJunkFoodFrequency(h.AverageJunkFoodFrequency)
	score += scoreMealsConsumed(h.AverageMealsConsumed)

	// Exercise (3 metrics)
	score += scoreExerciseHours(h.AverageExerciseHours)
	score += scoreCaloriesBurned(h.TotalCaloriesBurned)
	score += scoreExerciseType(h.MostCommonExerciseType)

	// Screen time (2 metrics)
	score += scoreScreenTime(h.AverageScreenTimeHours)
	score += scorePreSleepScreenTime(h.AveragePreSleepScreenTime)

	// Media consumption (3 metrics)
	score += scoreMediaDuration(h.AverageMediaDuration)
	score += scoreEducationalContent(h.EducationalContentCount)
	score += scorePlatform(h.MostUsedPlatform)

	return clamp(score, 0, 30)
}

// scoreSleepQuality expects a 0-10 scale; higher quality means lower stress.
func scoreSleepQuality(quality *float64) float64 {
	if quality == nil {
		return neutralSubScore
	}
	q := clamp(*quality, 0, 10)
	switch {
	case q >= 8:
		return 0
	case q >= 6:
		return 1
	default:
		return 2
	}
}

// scoreSleepHours treats 7-9 hours as optimal.
func scoreSleepHours(hours *float64) float64 {
	if hours == nil {
		return neutralSubScore
	}
	h := *hours
	switch {
	case h >= 7 && h <= 9:
		return 0
	case (h >= 6 && h < 7) || (h > 9 && h <= 10):
		return 1
	default:
		return 2
	}
}

// scoreBedtime treats a 22:00-23:00 bedtime as optimal. The value is on a
// 24-hour clock and normalized with modulo so 24.5 and 0.5 are equivalent.
func scoreBedtime(bedtime *float64) float64 {
	if bedtime == nil {
		return neutralSubScore
	}
	b := mod24(*bedtime)
	switch {
	case b >= 22 && b <= 23:
		return 0
	case (b >= 21 && b < 22) || (b >= 0 && b < 1):
		return 1
	default:
		return 2
	}
}

// scoreWakeTime treats a 06:00-07:00 wake time as optimal.
func scoreWakeTime(wake *float64) float64 {
	if wake == nil {
		return neutralSubScore
	}
	w := mod24(*wake)
	switch {
	case w >= 6 && w <= 7:
		return 0
	case (w >= 5 && w < 6) || (w > 7 && w <= 8):
		return 1
	default:
		return 2
	}
}

// scoreWaterIntake treats 2-3 liters per day as optimal.
func scoreWaterIntake(liters *float64) float64 {
	if liters == nil {
		return neutralSubScore
	}
	l := *liters
	switch {
	case l >= 2 && l <= 3:
		return 0
	case (l >= 1.5 && l < 2) || (l > 3 && l <= 4):
		return 1
	default:
		return 2
	}
}

// scoreJunkFoodFrequency is times per week; lower is better.
func scoreJunkFoodFrequency(freq *float64) float64 {
	if freq == nil {
		return neutralSubScore
	}
	switch {
	case *freq <= 1:
		return 0
	case *freq <= 3:
		return 1
	default:
		return 2
	}
}

// scoreMealsConsumed treats three meals a day as optimal.
func scoreMealsConsumed(meals *float64) float64 {
	if meals == nil {
		return neutralSubScore
	}
	m := *meals
	switch {
	case m >= 2.5 && m <= 3.5:
		return 0
	case (m >= 2 && m < 2.5) || (m > 3.5 && m <= 4):
		return 1
	default:
		return 2
	}
}

// scoreExerciseHours treats 1-2 hours a day as optimal; both too little and
// too much exercise raise the score.
func scoreExerciseHours(hours *float64) float64 {
	if hours == nil {
		return neutralSubScore
	}
	h := *hours
	switch {
	case h >= 1 && h <= 2:
		return 0
	case (h >= 0.5 && h < 1) || (h > 2 && h <= 3):
		return 1
	default:
		return 2
	}
}

// scoreCaloriesBurned compares the 30-day total against a 10000 kcal target.
func scoreCaloriesBurned(calories *float64) float64 {
	if calories == nil {
		return neutralSubScore
	}
	c := *calories
	if c < 0 {
		c = 0
	}
	const monthlyTarget = 10000.0
	switch {
	case c >= monthlyTarget:
		return 0
	case c >= monthlyTarget*0.7:
		return 1
	default:
		return 2
	}
}

var (
	highIntensityExercise = []string{"running", "cycling", "swimming", "hiit", "crossfit"}
	moderateExercise      = []string{"walking", "yoga", "pilates", "dancing"}
)

// scoreExerciseType scores by case-insensitive substring membership in the
// curated term lists.
func scoreExerciseType(exerciseType string) float64 {
	if exerciseType == "" {
		return neutralSubScore
	}
	return scoreTermList(exerciseType, highIntensityExercise, moderateExercise)
}

// scoreScreenTime: up to two hours a day is fine.
func scoreScreenTime(hours *float64) float64 {
	if hours == nil {
		return neutralSubScore
	}
	switch {
	case *hours <= 2:
		return 0
	case *hours <= 4:
		return 1
	default:
		return 2
	}
}

// scorePreSleepScreenTime: screens right before bed disturb sleep.
func scorePreSleepScreenTime(hours *float64) float64 {
	if hours == nil {
		return neutralSubScore
	}
	switch {
	case *hours <= 0.5:
		return 0
	case *hours <= 1:
		return 1
	default:
		return 2
	}
}

// scoreMediaDuration: up to one hour a day is fine.
func scoreMediaDuration(hours *float64) float64 {
	if hours == nil {
		return neutralSubScore
	}
	switch {
	case *hours <= 1:
		return 0
	case *hours <= 2:
		return 1
	default:
		return 2
	}
}

// scoreEducationalContent: more educational items is better.
func scoreEducationalContent(count *float64) float64 {
	if count == nil {
		return neutralSubScore
	}
	switch {
	case *count >= 20:
		return 0
	case *count >= 10:
		return 1
	default:
		return 2
	}
}

var (
	educationalPlatforms = []string{"khan academy", "coursera", "edx", "udemy", "youtube education"}
	neutralPlatforms     = []string{"youtube", "netflix", "spotify"}
)

// scorePlatform scores the dominant media platform by term-list membership.
func scorePlatform(platform string) float64 {
	if platform == "" {
		return neutralSubScore
	}
	return scoreTermList(platform, educationalPlatforms, neutralPlatforms)
}

// scoreTermList returns 0 when value contains a best-list term, 1 for an
// okay-list term, 2 otherwise. Matching is case-insensitive substring.
func scoreTermList(value string, best, okay []string) float64 {
	v := strings.ToLower(value)
	for _, term := range best {
		if strings.Contains(v, term) {
			return 0
		}
	}
	for _, term := range okay {
		if strings.Contains(v, term) {
			return 1
		}
	}
	return 2
}

// mod24 normalizes a clock value into [0,24). Handles negatives the way
// Python's modulo does, so -1.5 becomes 22.5.
func mod24(v float64) float64 {
	m := v - 24*float64(int(v/24))
	if m < 0 {
		m += 24
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
