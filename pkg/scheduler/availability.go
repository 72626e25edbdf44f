package scheduler

import (
	"github.com/jmcallister/cohort-scheduler-api-go/pkg/interval"
	"github.com/jmcallister/cohort-scheduler-api-go/pkg/models"
)

// AvailabilityIndex caches one availability bitset per person for the
// duration of a course run. Overlap checks dominate the solver's runtime, so
// the per-minute interval data is folded into bitsets once up front.
type AvailabilityIndex struct {
	sets map[string]*interval.BitSet
}

// NewAvailabilityIndex builds the per-person bitsets. When useIfNeeded is
// set, fallback availability counts toward overlap checks; otherwise only
// firm intervals do.
func NewAvailabilityIndex(people []*models.Person, useIfNeeded bool) *AvailabilityIndex {
	ix := &AvailabilityIndex{sets: make(map[string]*interval.BitSet, len(people))}
	for _, p := range people {
		if useIfNeeded {
			ix.sets[p.ID] = interval.NewBitSet(p.Intervals, p.IfNeeded)
		} else {
			ix.sets[p.ID] = interval.NewBitSet(p.Intervals)
		}
	}
	return ix
}

// For returns the cached bitset for a person.
func (ix *AvailabilityIndex) For(p *models.Person) *interval.BitSet {
	return ix.sets[p.ID]
}

// TotalAvailableMinutes sums a person's firm and if-needed interval lengths.
// Minutes present in both sets are counted twice; the value is only a sort
// heuristic and is never used for validity.
func TotalAvailableMinutes(p *models.Person) int {
	return interval.TotalMinutes(p.Intervals) + interval.TotalMinutes(p.IfNeeded)
}
