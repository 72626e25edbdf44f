package scheduler

import "github.com/jmcallister/cohort-scheduler-api-go/pkg/models"

// analyzeUngroupable classifies every unassigned person in a course. The
// first matching reason wins:
//
//  1. no_availability          — both interval sets are empty
//  2. no_facilitator_overlap   — facilitator mode, and no facilitator shares
//                                even one minute with this person
//  3. facilitator_capacity     — overlapping facilitators exist but every
//                                one of them is at its cohort cap
//  4. insufficient_group_size  — enough time overlap in principle, but too
//                                few overlapping unassigned people to form a
//                                cohort
func (s *Scheduler) analyzeUngroupable(ix *AvailabilityIndex, population []*models.Person, groups []*models.Group, unassigned []*models.Person) []models.UngroupableDetail {
	if len(unassigned) == 0 {
		return nil
	}

	var facilitators []*models.Person
	cohortsLed := make(map[string]int)
	if s.cfg.FacilitatorMode {
		for _, p := range population {
			if s.cfg.IsFacilitator(p.ID) {
				facilitators = append(facilitators, p)
			}
		}
		for _, g := range groups {
			if g.FacilitatorID != "" {
				cohortsLed[g.FacilitatorID]++
			}
		}
	}

	details := make([]models.UngroupableDetail, 0, len(unassigned))
	for _, p := range unassigned {
		details = append(details, s.classify(ix, p, facilitators, cohortsLed, unassigned))
	}
	return details
}

func (s *Scheduler) classify(ix *AvailabilityIndex, p *models.Person, facilitators []*models.Person, cohortsLed map[string]int, unassigned []*models.Person) models.UngroupableDetail {
	if len(p.Intervals) == 0 && len(p.IfNeeded) == 0 {
		return models.UngroupableDetail{PersonID: p.ID, Reason: models.ReasonNoAvailability}
	}

	if s.cfg.FacilitatorMode {
		overlapping := 0
		saturated := 0
		for _, f := range facilitators {
			if f.ID == p.ID {
				continue
			}
			if !ix.For(p).Intersects(ix.For(f)) {
				continue
			}
			overlapping++
			if cohortsLed[f.ID] >= s.cfg.MaxCohortsFor(f.ID) {
				saturated++
			}
		}
		if overlapping == 0 {
			return models.UngroupableDetail{PersonID: p.ID, Reason: models.ReasonNoFacilitatorOverlap}
		}
		if saturated == overlapping {
			return models.UngroupableDetail{
				PersonID: p.ID,
				Reason:   models.ReasonFacilitatorCapacity,
				Detail: map[string]any{
					"facilitators_at_capacity": saturated,
				},
			}
		}
	}

	peers := 0
	for _, other := range unassigned {
		if other.ID == p.ID {
			continue
		}
		if ix.For(p).Intersects(ix.For(other)) {
			peers++
		}
	}
	return models.UngroupableDetail{
		PersonID: p.ID,
		Reason:   models.ReasonInsufficientGroupSize,
		Detail: map[string]any{
			"overlapping_unassigned": peers,
			"min_people":             s.cfg.MinPeople,
		},
	}
}
