package scheduler

import (
	"github.com/jmcallister/cohort-scheduler-api-go/pkg/interval"
	"github.com/jmcallister/cohort-scheduler-api-go/pkg/models"
)

// commonAvailability intersects the members' availability bitsets.
func commonAvailability(ix *AvailabilityIndex, members []*models.Person) *interval.BitSet {
	common := ix.For(members[0]).Clone()
	for _, m := range members[1:] {
		common.IntersectWith(ix.For(m))
	}
	return common
}

// GroupIsValid reports whether the given members share at least one
// contiguous MeetingLength block starting at a TimeIncrement-aligned minute.
// An empty group is valid. When cfg carries facilitator ids, exactly one
// member must be a facilitator regardless of time overlap.
func GroupIsValid(ix *AvailabilityIndex, members []*models.Person, cfg models.SchedulerConfig) bool {
	if len(members) == 0 {
		return true
	}
	if len(cfg.FacilitatorIDs) > 0 {
		facilitators := 0
		for _, m := range members {
			if cfg.IsFacilitator(m.ID) {
				facilitators++
			}
		}
		if facilitators != 1 {
			return false
		}
	}
	_, ok := commonAvailability(ix, members).FirstSpan(cfg.MeetingLength, cfg.TimeIncrement)
	return ok
}

// FindMeetingTimes returns every TimeIncrement-aligned meeting window that
// fits inside all members' availability, in ascending start order. The
// scheduler always selects the first option as a finalized group's meeting
// time.
func FindMeetingTimes(ix *AvailabilityIndex, members []*models.Person, cfg models.SchedulerConfig) []interval.Interval {
	if len(members) == 0 {
		return nil
	}
	starts := commonAvailability(ix, members).AllSpans(cfg.MeetingLength, cfg.TimeIncrement)
	windows := make([]interval.Interval, 0, len(starts))
	for _, start := range starts {
		windows = append(windows, interval.Interval{Start: start, End: start + cfg.MeetingLength})
	}
	return windows
}
