package models

// SchedulerConfig carries the plain tuning parameters for a scheduling run.
// Zero values are not meaningful for most fields; start from DefaultConfig
// and override.
type SchedulerConfig struct {
	// MeetingLength is the cohort meeting length in minutes.
	MeetingLength int `json:"meeting_length"`
	// MinPeople is the smallest cohort the scheduler will keep.
	MinPeople int `json:"min_people"`
	// MaxPeople is the largest cohort the scheduler will build.
	MaxPeople int `json:"max_people"`
	// NumIterations bounds the number of greedy restarts per course.
	NumIterations int `json:"num_iterations"`
	// TimeIncrement is the alignment step for candidate meeting starts.
	TimeIncrement int `json:"time_increment"`
	// Randomness in [0,1] controls sort noise and candidate tie-breaking.
	Randomness float64 `json:"randomness"`
	// Balance enables the post-hoc size balancing pass.
	Balance bool `json:"balance"`
	// UseIfNeeded lets fallback availability satisfy overlap checks.
	UseIfNeeded bool `json:"use_if_needed"`
	// FacilitatorMode requires exactly one facilitator per cohort.
	FacilitatorMode bool `json:"facilitator_mode"`

	// FacilitatorIDs marks which people are facilitators.
	FacilitatorIDs map[string]bool `json:"-"`
	// FacilitatorMaxCohorts caps cohorts per facilitator; missing entries
	// default to 1.
	FacilitatorMaxCohorts map[string]int `json:"-"`

	// Seed makes runs reproducible; 0 seeds from the clock.
	Seed int64 `json:"seed,omitempty"`
}

// DefaultConfig returns the standard tuning parameters.
func DefaultConfig() SchedulerConfig {
	return SchedulerConfig{
		MeetingLength: 60,
		MinPeople:     4,
		MaxPeople:     8,
		NumIterations: 1000,
		TimeIncrement: 30,
		Randomness:    0.5,
		Balance:       true,
		UseIfNeeded:   true,
	}
}

// MaxCohortsFor returns the cohort cap for a facilitator.
func (c SchedulerConfig) MaxCohortsFor(facilitatorID string) int {
	if n, ok := c.FacilitatorMaxCohorts[facilitatorID]; ok && n > 0 {
		return n
	}
	return 1
}

// IsFacilitator reports whether the given person id is a facilitator.
func (c SchedulerConfig) IsFacilitator(id string) bool {
	return c.FacilitatorIDs[id]
}
