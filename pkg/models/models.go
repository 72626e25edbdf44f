package models

import "github.com/jmcallister/cohort-scheduler-api-go/pkg/interval"

// UncategorizedCourse is the synthetic course assigned to people with no
// course memberships.
const UncategorizedCourse = "Uncategorized"

// Person is one schedulable participant. Availability has already been
// normalized upstream into UTC minute-of-week intervals; the timezone is
// carried for display only. A Person is read-only during a scheduling run.
type Person struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Timezone   string              `json:"timezone,omitempty"`
	Courses    []string            `json:"courses,omitempty"`
	Experience string              `json:"experience,omitempty"`
	Intervals  []interval.Interval `json:"intervals"`
	IfNeeded   []interval.Interval `json:"if_needed_intervals,omitempty"`
}

// Group is one cohort: a set of people sharing a weekly meeting slot.
// Members are mutated only by the pass that constructs the group and, later,
// by a balancing pass that takes temporary exclusive ownership.
type Group struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Members       []*Person          `json:"-"`
	FacilitatorID string             `json:"facilitator_id,omitempty"`
	SelectedTime  *interval.Interval `json:"selected_time,omitempty"`
}

// Size returns the current member count.
func (g *Group) Size() int {
	return len(g.Members)
}

// MemberIDs returns member ids in group order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

// CourseResult is the outcome of scheduling a single course.
type CourseResult struct {
	Course      string              `json:"course"`
	Groups      []*Group            `json:"groups"`
	Score       int                 `json:"score"`
	Unassigned  []*Person           `json:"-"`
	Ungroupable []UngroupableDetail `json:"ungroupable,omitempty"`
}

// MultiCourseResult aggregates per-course outcomes for one scheduling run.
type MultiCourseResult struct {
	Courses           map[string]*CourseResult `json:"courses"`
	TotalScheduled    int                      `json:"total_scheduled"`
	TotalCohorts      int                      `json:"total_cohorts"`
	TotalBalanceMoves int                      `json:"total_balance_moves"`
	TotalPeople       int                      `json:"total_people"`
}

// UngroupableReason classifies why a person could not be placed.
type UngroupableReason string

const (
	ReasonNoAvailability        UngroupableReason = "no_availability"
	ReasonNoFacilitatorOverlap  UngroupableReason = "no_facilitator_overlap"
	ReasonFacilitatorCapacity   UngroupableReason = "facilitator_capacity"
	ReasonInsufficientGroupSize UngroupableReason = "insufficient_group_size"
)

// UngroupableDetail explains one unplaced person.
type UngroupableDetail struct {
	PersonID string            `json:"person_id"`
	Reason   UngroupableReason `json:"reason"`
	Detail   map[string]any    `json:"detail,omitempty"`
}
