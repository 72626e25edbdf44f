package models

import "github.com/jmcallister/cohort-scheduler-api-go/pkg/interval"

// PersonInput is the wire form of a Person. Availability arrives either as
// explicit minute-of-week interval pairs, as a textual spec string, or both;
// the two are merged.
type PersonInput struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Timezone     string              `json:"timezone"`
	Courses      []string            `json:"courses"`
	Experience   string              `json:"experience"`
	Intervals    []interval.Interval `json:"intervals"`
	IfNeeded     []interval.Interval `json:"if_needed_intervals"`
	Availability string              `json:"availability"`
	IfNeededSpec string              `json:"if_needed_availability"`
	Facilitator  bool                `json:"facilitator"`
}

// ToPerson converts the wire form, parsing any textual specs.
func (in PersonInput) ToPerson() *Person {
	p := &Person{
		ID:         in.ID,
		Name:       in.Name,
		Timezone:   in.Timezone,
		Courses:    in.Courses,
		Experience: in.Experience,
		Intervals:  append([]interval.Interval(nil), in.Intervals...),
		IfNeeded:   append([]interval.Interval(nil), in.IfNeeded...),
	}
	p.Intervals = append(p.Intervals, interval.ParseSpec(in.Availability)...)
	p.IfNeeded = append(p.IfNeeded, interval.ParseSpec(in.IfNeededSpec)...)
	return p
}

// ScheduleOptions are per-request overrides of the default scheduler
// configuration. Nil fields keep the default.
type ScheduleOptions struct {
	MeetingLength         *int           `json:"meeting_length"`
	MinPeople             *int           `json:"min_people"`
	MaxPeople             *int           `json:"max_people"`
	NumIterations         *int           `json:"num_iterations"`
	TimeIncrement         *int           `json:"time_increment"`
	Randomness            *float64       `json:"randomness"`
	Balance               *bool          `json:"balance"`
	UseIfNeeded           *bool          `json:"use_if_needed"`
	FacilitatorMode       *bool          `json:"facilitator_mode"`
	Seed                  *int64         `json:"seed"`
	FacilitatorMaxCohorts map[string]int `json:"facilitator_max_cohorts"`
}

// Apply overlays the non-nil options onto cfg.
func (o *ScheduleOptions) Apply(cfg *SchedulerConfig) {
	if o == nil {
		return
	}
	if o.MeetingLength != nil {
		cfg.MeetingLength = *o.MeetingLength
	}
	if o.MinPeople != nil {
		cfg.MinPeople = *o.MinPeople
	}
	if o.MaxPeople != nil {
		cfg.MaxPeople = *o.MaxPeople
	}
	if o.NumIterations != nil {
		cfg.NumIterations = *o.NumIterations
	}
	if o.TimeIncrement != nil {
		cfg.TimeIncrement = *o.TimeIncrement
	}
	if o.Randomness != nil {
		cfg.Randomness = *o.Randomness
	}
	if o.Balance != nil {
		cfg.Balance = *o.Balance
	}
	if o.UseIfNeeded != nil {
		cfg.UseIfNeeded = *o.UseIfNeeded
	}
	if o.FacilitatorMode != nil {
		cfg.FacilitatorMode = *o.FacilitatorMode
	}
	if o.Seed != nil {
		cfg.Seed = *o.Seed
	}
	if len(o.FacilitatorMaxCohorts) > 0 {
		cfg.FacilitatorMaxCohorts = o.FacilitatorMaxCohorts
	}
}

// ScheduleInput is the request body for the scheduling endpoints.
type ScheduleInput struct {
	People       []PersonInput    `json:"people"`
	Facilitators []string         `json:"facilitators"`
	Options      *ScheduleOptions `json:"options"`
}

// MemberSummary is a person reference in a response.
type MemberSummary struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// GroupSummary is the wire form of a finalized cohort.
type GroupSummary struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	FacilitatorID  string             `json:"facilitator_id,omitempty"`
	SelectedTime   *interval.Interval `json:"selected_time"`
	MeetingDisplay string             `json:"meeting_display,omitempty"`
	Members        []MemberSummary    `json:"members"`
}

// CourseSummary is the wire form of one course's outcome.
type CourseSummary struct {
	Course      string              `json:"course"`
	Score       int                 `json:"score"`
	Groups      []GroupSummary      `json:"groups"`
	Unassigned  []MemberSummary     `json:"unassigned"`
	Ungroupable []UngroupableDetail `json:"ungroupable,omitempty"`
}

// ScheduleResponse is the response body for the scheduling endpoints.
type ScheduleResponse struct {
	RunID             string                   `json:"run_id"`
	Courses           map[string]CourseSummary `json:"courses"`
	TotalScheduled    int                      `json:"total_scheduled"`
	TotalCohorts      int                      `json:"total_cohorts"`
	TotalBalanceMoves int                      `json:"total_balance_moves"`
	TotalPeople       int                      `json:"total_people"`
}

// NewScheduleResponse flattens an engine result into the wire form.
func NewScheduleResponse(runID string, result *MultiCourseResult) ScheduleResponse {
	resp := ScheduleResponse{
		RunID:             runID,
		Courses:           make(map[string]CourseSummary, len(result.Courses)),
		TotalScheduled:    result.TotalScheduled,
		TotalCohorts:      result.TotalCohorts,
		TotalBalanceMoves: result.TotalBalanceMoves,
		TotalPeople:       result.TotalPeople,
	}
	for name, cr := range result.Courses {
		summary := CourseSummary{
			Course:      cr.Course,
			Score:       cr.Score,
			Groups:      make([]GroupSummary, 0, len(cr.Groups)),
			Unassigned:  make([]MemberSummary, 0, len(cr.Unassigned)),
			Ungroupable: cr.Ungroupable,
		}
		for _, g := range cr.Groups {
			gs := GroupSummary{
				ID:            g.ID,
				Name:          g.Name,
				FacilitatorID: g.FacilitatorID,
				SelectedTime:  g.SelectedTime,
				Members:       make([]MemberSummary, 0, len(g.Members)),
			}
			if g.SelectedTime != nil {
				gs.MeetingDisplay = interval.FormatTimeRange(*g.SelectedTime)
			}
			for _, m := range g.Members {
				gs.Members = append(gs.Members, MemberSummary{ID: m.ID, Name: m.Name})
			}
			summary.Groups = append(summary.Groups, gs)
		}
		for _, p := range cr.Unassigned {
			summary.Unassigned = append(summary.Unassigned, MemberSummary{ID: p.ID, Name: p.Name})
		}
		resp.Courses[name] = summary
	}
	return resp
}
