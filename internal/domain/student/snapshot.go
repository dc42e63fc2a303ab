// Package student defines the read-only student snapshot consumed by the
// wellbeing pipeline. The snapshot is fetched once per request from the
// owning backend and never mutated afterwards.
//
// Every numeric field is optional on the wire: absence is modelled with
// pointers, and each consumer substitutes its documented neutral default
// instead of propagating nil into arithmetic.
package student

// Snapshot is the immutable view of a student returned by
// GET /student/info/{id}.
type Snapshot struct {
	StudentID            int64            `json:"studentId"`
	HabitsSummary        *HabitsSummary   `json:"habitsSummary"`
	PhysicalProfile      *PhysicalProfile `json:"physicalProfile"`
	Interests            *Interests       `json:"interests"`
	IQScore              *float64         `json:"iqScore"`
	EQScore              *float64         `json:"eqScore"`
	OceanScore           *OceanScore      `json:"oceanScore"`
	UnresolvedComplaints []Complaint      `json:"unresolvedComplaints"`
	CurrentWeekPulse     *WeeklyPulse     `json:"currentWeekPulse"`
}

// HabitsSummary aggregates 30 days of self-reported habit metrics.
type HabitsSummary struct {
	// Sleep
	AverageSleepQuality *float64 `json:"averageSleepQuality"` // 0-10 scale
	AverageSleepHours   *float64 `json:"averageSleepHours"`
	AverageBedtime      *float64 `json:"averageBedtime"`  // 24h clock
	AverageWakeTime     *float64 `json:"averageWakeTime"` // 24h clock

	// Diet
	AverageWaterIntake       *float64 `json:"averageWaterIntake"` // liters/day
	AverageJunkFoodFrequency *float64 `json:"averageJunkFoodFrequency"`
	AverageMealsConsumed     *float64 `json:"averageMealsConsumed"`

	// Exercise
	AverageExerciseHours   *float64 `json:"averageExerciseHours"`
	TotalCaloriesBurned    *float64 `json:"totalCaloriesBurned"` // 30-day total
	MostCommonExerciseType string   `json:"mostCommonExerciseType"`

	// Screen time
	AverageScreenTimeHours    *float64 `json:"averageScreenTimeHours"`
	AveragePreSleepScreenTime *float64 `json:"averagePreSleepScreenTime"`

	// Media consumption
	AverageMediaDuration    *float64 `json:"averageMediaDuration"`
	EducationalContentCount *float64 `json:"educationalContentCount"`
	MostUsedPlatform        string   `json:"mostUsedPlatform"`
}

// PhysicalProfile carries physical attributes and accessibility needs.
type PhysicalProfile struct {
	HeightFeet            *float64 `json:"heightFeet"`
	HeightInches          *float64 `json:"heightInches"`
	BodyWeightKg          *float64 `json:"bodyWeightKg"`
	TextToSpeechNeeded    bool     `json:"textToSpeechNeeded"`
	MotorSupportNeeded    bool     `json:"motorSupportNeeded"`
	MedicalCondition      string   `json:"medicalCondition"`
	MedicalConditionNotes string   `json:"medicalConditionNotes"`
}

// HeightCm converts the imperial height to centimeters, if present.
func (p *PhysicalProfile) HeightCm() (float64, bool) {
	if p == nil || p.HeightFeet == nil {
		return 0, false
	}
	cm := *p.HeightFeet * 30.48
	if p.HeightInches != nil {
		cm += *p.HeightInches * 2.54
	}
	return cm, true
}

// Interests lists the student's hobbies, career interests and accolades.
type Interests struct {
	Hobbies     []string `json:"hobbies"`
	Professions []string `json:"professions"`
	Accolades   []string `json:"accolades"`
}

// FirstHobby returns the first listed hobby, if any.
func (i *Interests) FirstHobby() (string, bool) {
	if i == nil || len(i.Hobbies) == 0 {
		return "", false
	}
	return i.Hobbies[0], true
}

// Complaint is an unresolved complaint (SUBMITTED or IN_PROGRESS).
type Complaint struct {
	Description string `json:"description"`
	Status      string `json:"status"`
}

// WeeklyPulse is the current week's self-reported mood.
type WeeklyPulse struct {
	Rating   *float64 `json:"rating"`
	Feedback string   `json:"feedback"`
}

// OceanScore holds Big-5 personality facets, each optional and on a 0-100
// scale. Each trait averages up to three sub-facets, only over present
// values.
type OceanScore struct {
	Openness      *float64 `json:"openness"`
	Conscientious *float64 `json:"conscientiousness"`
	Extraversion  *float64 `json:"extraversion"`
	Neuroticism   *float64 `json:"neuroticism"`
	Agreeableness *float64 `json:"agreeableness"`

	// Openness facets
	Imagination       *float64 `json:"imagination"`
	ArtisticInterests *float64 `json:"artisticInterests"`
	Intellect         *float64 `json:"intellect"`

	// Conscientiousness facets
	SelfEfficacy      *float64 `json:"selfEfficacy"`
	Orderliness       *float64 `json:"orderliness"`
	AchievementStrive *float64 `json:"achievementStriving"`

	// Extraversion facets
	Friendliness  *float64 `json:"friendliness"`
	ActivityLevel *float64 `json:"activityLevel"`
	Cheerfulness  *float64 `json:"cheerfulness"`

	// Neuroticism facets
	Anxiety       *float64 `json:"anxiety"`
	Depression    *float64 `json:"depression"`
	Vulnerability *float64 `json:"vulnerability"`
}

// averagePresent averages the non-nil values; ok is false when none are set.
func averagePresent(vals ...*float64) (float64, bool) {
	var sum float64
	var n int
	for _, v := range vals {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// OpennessAvg averages the openness sub-facets.
func (o *OceanScore) OpennessAvg() (float64, bool) {
	if o == nil {
		return 0, false
	}
	return averagePresent(o.Imagination, o.ArtisticInterests, o.Intellect)
}

// ConscientiousnessAvg averages the conscientiousness sub-facets.
func (o *OceanScore) ConscientiousnessAvg() (float64, bool) {
	if o == nil {
		return 0, false
	}
	return averagePresent(o.SelfEfficacy, o.Orderliness, o.AchievementStrive)
}

// ExtraversionAvg averages the extraversion sub-facets.
func (o *OceanScore) ExtraversionAvg() (float64, bool) {
	if o == nil {
		return 0, false
	}
	return averagePresent(o.Friendliness, o.ActivityLevel, o.Cheerfulness)
}

// NeuroticismAvg averages the neuroticism sub-facets.
func (o *OceanScore) NeuroticismAvg() (float64, bool) {
	if o == nil {
		return 0, false
	}
	return averagePresent(o.Anxiety, o.Depression, o.Vulnerability)
}
