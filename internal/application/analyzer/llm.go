package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/mentor-hub/student-mentor/internal/domain/student"
	"github.com/mentor-hub/student-mentor/internal/domain/wellbeing"
)

const (
	maxGuidances      = 3
	maxGuidanceLength = 200
)

// jsonArrayPattern extracts the outermost JSON array from a reply that may be
// wrapped in markdown fences or prose.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// llmAnalyzer calls the DeepSeek API and degrades to the heuristic output on
// any failure.
type llmAnalyzer struct {
	client CompletionClient
	logger *slog.Logger
}

// ═══════════════════════════════════════════════════════════════════════════
// Complaint stress
// ═══════════════════════════════════════════════════════════════════════════

func (a *llmAnalyzer) ComplaintStress(ctx context.Context, complaints []student.Complaint) float64 {
	var texts []string
	for _, c := range complaints {
		if c.Description != "" {
			texts = append(texts, c.Description)
		}
	}
	if len(texts) == 0 {
		return 0.0
	}

	prompt := fmt.Sprintf(`Analyze the following student complaints and assess the stress level they indicate.

Complaints:
%s

Rate the stress level indicated by these complaints on a scale of 0-30, where:
- 0-10: Low stress (minor issues, easily resolvable)
- 11-20: Moderate stress (some concerns, manageable)
- 21-30: High stress (serious issues, significant concerns)

Respond with ONLY a number between 0 and 30, no other text.`, strings.Join(texts, "\n\n"))

	content, err := a.client.ChatCompletion(ctx, prompt, 0.3, 10)
	if err != nil {
		a.logger.Warn("complaint stress generation failed, using count heuristic", slog.Any("error", err))
		return wellbeing.ComplaintsHeuristic(complaints)
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(content), 64)
	if err != nil {
		a.logger.Warn("complaint stress reply is not a number, using count heuristic",
			slog.String("reply", content),
		)
		return wellbeing.ComplaintsHeuristic(complaints)
	}

	if score < 0 {
		return 0
	}
	if score > 30 {
		return 30
	}
	return score
}

// ═══════════════════════════════════════════════════════════════════════════
// Wellbeing gist
// ═══════════════════════════════════════════════════════════════════════════

func (a *llmAnalyzer) WellbeingGist(ctx context.Context, snap *student.Snapshot) string {
	content, err := a.client.ChatCompletion(ctx, buildGistPrompt(snap), 0.7, 300)
	if err != nil {
		a.logger.Warn("gist generation failed", slog.Any("error", err))
		return GistUnavailable
	}
	if content == "" {
		return GistUnavailable
	}
	return content
}

func buildGistPrompt(snap *student.Snapshot) string {
	var b strings.Builder

	b.WriteString(`You are a student wellness advisor. Based on the following student data, write a brief, empathetic paragraph (3-5 sentences) summarizing how the student is doing overall. Be supportive and constructive.

Student Data:
`)

	if snap != nil && snap.HabitsSummary != nil {
		h := snap.HabitsSummary
		b.WriteString("\nHabits Summary (Last 30 days):\n")
		writeOptional(&b, "- Sleep Quality: %s/10\n", h.AverageSleepQuality)
		writeOptional(&b, "- Average Sleep Hours: %s hours\n", h.AverageSleepHours)
		writeOptional(&b, "- Average Bedtime: %s\n", h.AverageBedtime)
		writeOptional(&b, "- Average Wake Time: %s\n", h.AverageWakeTime)
		writeOptional(&b, "- Average Water Intake: %sL/day\n", h.AverageWaterIntake)
		writeOptional(&b, "- Junk Food Frequency: %s times/week\n", h.AverageJunkFoodFrequency)
		writeOptional(&b, "- Average Meals: %s/day\n", h.AverageMealsConsumed)
		writeOptional(&b, "- Average Exercise: %s hours/day\n", h.AverageExerciseHours)
		if h.MostCommonExerciseType != "" {
			fmt.Fprintf(&b, "- Preferred Exercise: %s\n", h.MostCommonExerciseType)
		}
		writeOptional(&b, "- Average Screen Time: %s hours/day\n", h.AverageScreenTimeHours)
		writeOptional(&b, "- Pre-Sleep Screen Time: %s hours\n", h.AveragePreSleepScreenTime)
		writeOptional(&b, "- Educational Content Consumed: %s items\n", h.EducationalContentCount)
	} else {
		b.WriteString("\nNo habits data available.\n")
	}

	if snap != nil && len(snap.UnresolvedComplaints) > 0 {
		fmt.Fprintf(&b, "\nUnresolved Complaints (%d total):\n", len(snap.UnresolvedComplaints))
		complaints := snap.UnresolvedComplaints
		if len(complaints) > 5 {
			complaints = complaints[:5]
		}
		for i, c := range complaints {
			desc := c.Description
			if desc == "" {
				desc = "No description"
			}
			status := c.Status
			if status == "" {
				status = "Unknown"
			}
			fmt.Fprintf(&b, "- Complaint %d: %s (Status: %s)\n", i+1, desc, status)
		}
	} else {
		b.WriteString("\nNo unresolved complaints.\n")
	}

	if snap != nil && snap.CurrentWeekPulse != nil {
		b.WriteString("\nCurrent Week Pulse:\n")
		writeOptional(&b, "- Overall Rating: %s\n", snap.CurrentWeekPulse.Rating)
		if snap.CurrentWeekPulse.Feedback != "" {
			fmt.Fprintf(&b, "- Feedback: %s\n", snap.CurrentWeekPulse.Feedback)
		}
	} else {
		b.WriteString("\nNo pulse data available for this week.\n")
	}

	b.WriteString(`
Write a supportive, personalized paragraph (3-5 sentences) about how this student is doing. Focus on:
1. Overall wellbeing based on habits
2. Any concerns from complaints
3. Recent mood/pulse data
4. Encouragement and constructive observations

Respond with ONLY the paragraph, no additional formatting or labels.`)

	return b.String()
}

// ═══════════════════════════════════════════════════════════════════════════
// Guidance
// ═══════════════════════════════════════════════════════════════════════════

func (a *llmAnalyzer) Guidance(ctx context.Context, snap *student.Snapshot) []string {
	content, err := a.client.ChatCompletion(ctx, buildGuidancePrompt(snap), 0.7, 500)
	if err != nil {
		a.logger.Warn("guidance generation failed", slog.Any("error", err))
		return fallbackGuidance
	}

	guidances := parseGuidanceReply(content)
	if len(guidances) == 0 {
		a.logger.Warn("guidance reply could not be parsed", slog.String("reply", content))
		return fallbackGuidance
	}
	return guidances
}

func buildGuidancePrompt(snap *student.Snapshot) string {
	var b strings.Builder

	b.WriteString(`You are a wellness coach helping to create personalized daily habits for a student.
Generate 2-3 specific, actionable daily habits that are tailored to this student's profile.

IMPORTANT: Respond ONLY with a JSON array of habit descriptions (strings only).
Each description should be a clear, actionable statement (max 200 characters).

Format your response as valid JSON only, no additional text or explanation.

Student Profile:
`)

	if snap != nil && snap.PhysicalProfile != nil {
		p := snap.PhysicalProfile
		b.WriteString("\nPhysical Profile:\n")
		if p.HeightFeet != nil && p.HeightInches != nil {
			cm, _ := p.HeightCm()
			fmt.Fprintf(&b, "- Height: %s'%s\" (%.1f cm)\n", num(*p.HeightFeet), num(*p.HeightInches), cm)
		} else if p.HeightFeet != nil {
			cm, _ := p.HeightCm()
			fmt.Fprintf(&b, "- Height: %s' (%.1f cm)\n", num(*p.HeightFeet), cm)
		}
		writeOptional(&b, "- Weight: %s kg\n", p.BodyWeightKg)
		if p.TextToSpeechNeeded {
			b.WriteString("- Text-to-Speech Support: Needed\n")
		}
		if p.MotorSupportNeeded {
			b.WriteString("- Motor Support: Needed\n")
		}
		if p.MedicalCondition != "" {
			fmt.Fprintf(&b, "- Medical Condition: %s\n", p.MedicalCondition)
		}
		if p.MedicalConditionNotes != "" {
			fmt.Fprintf(&b, "- Medical Notes: %s\n", p.MedicalConditionNotes)
		}
	}

	if snap != nil && snap.Interests != nil {
		in := snap.Interests
		b.WriteString("\nInterests:\n")
		if len(in.Hobbies) > 0 {
			fmt.Fprintf(&b, "- Hobbies: %s\n", strings.Join(in.Hobbies, ", "))
		}
		if len(in.Professions) > 0 {
			fmt.Fprintf(&b, "- Career Interests: %s\n", strings.Join(in.Professions, ", "))
		}
		if len(in.Accolades) > 0 {
			fmt.Fprintf(&b, "- Achievements: %s\n", strings.Join(in.Accolades, ", "))
		}
	}

	if snap != nil {
		writeOptional(&b, "\nIQ Score: %s\n", snap.IQScore)
		writeOptional(&b, "EQ Score: %s\n", snap.EQScore)
	}

	if snap != nil && snap.OceanScore != nil {
		o := snap.OceanScore
		b.WriteString("\nPersonality Traits (OCEAN Big5):\n")
		var traits []string
		if o.Openness != nil || o.Imagination != nil {
			if avg, ok := o.OpennessAvg(); ok {
				traits = append(traits, fmt.Sprintf("Openness: %.1f/100", avg))
			}
		}
		if o.Conscientious != nil || o.SelfEfficacy != nil {
			if avg, ok := o.ConscientiousnessAvg(); ok {
				traits = append(traits, fmt.Sprintf("Conscientiousness: %.1f/100", avg))
			}
		}
		if o.Extraversion != nil || o.Friendliness != nil {
			if avg, ok := o.ExtraversionAvg(); ok {
				traits = append(traits, fmt.Sprintf("Extraversion: %.1f/100", avg))
			}
		}
		if o.Neuroticism != nil || o.Anxiety != nil {
			if avg, ok := o.NeuroticismAvg(); ok {
				traits = append(traits, fmt.Sprintf("Neuroticism: %.1f/100", avg))
			}
		}
		if len(traits) > 0 {
			b.WriteString("- " + strings.Join(traits, ", ") + "\n")
		}
	}

	b.WriteString(`

Based on this profile, generate 2-3 personalized daily habits that:
1. Align with the student's interests, physical profile, and personality
2. Are specific, measurable, and achievable
3. Promote overall wellbeing and stress reduction
4. Consider physical attributes when relevant (e.g., if student has basketball as hobby and height is 190 cm, suggest "Practice 5 slam dunks")

Remember: Respond with ONLY a JSON array of strings, no other text.
Example format:
[
  "Start each day with 10 minutes of meditation focusing on breath",
  "Drink 8 glasses of water throughout the day, tracking intake"
]
`)

	return b.String()
}

// parseGuidanceReply extracts up to three habit strings from an LLM reply.
// The reply is expected to be a JSON array of strings, but replies wrapped in
// markdown fences and the legacy object form {"description": ...} are also
// accepted. Returns nil when nothing usable is found.
func parseGuidanceReply(content string) []string {
	if match := jsonArrayPattern.FindString(content); match != "" {
		content = match
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil
	}
	if len(items) > maxGuidances {
		items = items[:maxGuidances]
	}

	var guidances []string
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if strings.TrimSpace(s) != "" {
				guidances = append(guidances, truncate(s, maxGuidanceLength))
			}
			continue
		}
		var obj struct {
			Description *string `json:"description"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Description != nil {
			guidances = append(guidances, truncate(*obj.Description, maxGuidanceLength))
		}
	}
	return guidances
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// num formats a float the shortest way, matching how the values appear in
// the source data.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeOptional appends a formatted line only when the value is present.
func writeOptional(b *strings.Builder, format string, v *float64) {
	if v == nil {
		return
	}
	fmt.Fprintf(b, format, num(*v))
}
