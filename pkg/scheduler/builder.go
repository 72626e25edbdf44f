package scheduler

import (
	"math/rand"
	"sort"

	"github.com/jmcallister/cohort-scheduler-api-go/pkg/interval"
	"github.com/jmcallister/cohort-scheduler-api-go/pkg/models"
)

// PickStrategy selects one index from candidates when a person could join
// more than one existing group. Injecting it keeps the tie-break policy
// explicit and swappable in tests.
type PickStrategy interface {
	Pick(rng *rand.Rand, candidates []int, randomness float64) int
}

// FirstFitPick takes the first candidate unless a randomness roll asks for a
// uniform choice among all of them. With randomness 0 it is fully
// deterministic.
type FirstFitPick struct{}

// Pick implements PickStrategy.
func (FirstFitPick) Pick(rng *rand.Rand, candidates []int, randomness float64) int {
	if randomness == 0 || rng.Float64() > randomness {
		return candidates[0]
	}
	return candidates[rng.Intn(len(candidates))]
}

// buildGroup is the arena representation of a cohort under construction.
// It carries the running intersection of member availability so that append
// checks cost one bitset intersection instead of a rescan of every member.
// buildGroups live only inside a single builder pass; the optimizer freezes
// the winning pass into immutable models.Group values.
type buildGroup struct {
	members       []*models.Person
	facilitatorID string
	common        *interval.BitSet
}

func (g *buildGroup) canAppend(avail *interval.BitSet, cfg models.SchedulerConfig) bool {
	_, ok := g.common.Intersect(avail).FirstSpan(cfg.MeetingLength, cfg.TimeIncrement)
	return ok
}

func (g *buildGroup) append(p *models.Person, avail *interval.BitSet) {
	g.members = append(g.members, p)
	g.common.IntersectWith(avail)
}

// buildIteration runs one full randomized greedy construction pass over the
// population and returns the groups that met the minimum size.
func (s *Scheduler) buildIteration(ix *AvailabilityIndex, people []*models.Person) []*buildGroup {
	if s.cfg.FacilitatorMode {
		return s.buildFacilitatorIteration(ix, people)
	}

	var groups []*buildGroup
	for _, p := range s.noisyOrder(people) {
		avail := ix.For(p)
		if idx, ok := s.pickGroup(groups, avail); ok {
			groups[idx].append(p, avail)
			continue
		}
		groups = append(groups, &buildGroup{
			members: []*models.Person{p},
			common:  avail.Clone(),
		})
	}
	return filterSmall(groups, s.cfg.MinPeople)
}

// buildFacilitatorIteration is the facilitator-mode pass: facilitators never
// join as ordinary members; a participant with no fitting group instead
// opens a two-person group with the first facilitator that still has cohort
// capacity and shares a meeting slot, or stays unplaced for this pass.
func (s *Scheduler) buildFacilitatorIteration(ix *AvailabilityIndex, people []*models.Person) []*buildGroup {
	var facilitators, participants []*models.Person
	for _, p := range people {
		if s.cfg.IsFacilitator(p.ID) {
			facilitators = append(facilitators, p)
		} else {
			participants = append(participants, p)
		}
	}

	cohorts := make(map[string]int, len(facilitators))
	var groups []*buildGroup
	for _, p := range s.noisyOrder(participants) {
		avail := ix.For(p)
		if idx, ok := s.pickGroup(groups, avail); ok {
			groups[idx].append(p, avail)
			continue
		}
		for _, f := range facilitators {
			if cohorts[f.ID] >= s.cfg.MaxCohortsFor(f.ID) {
				continue
			}
			joint := ix.For(f).Intersect(avail)
			if _, ok := joint.FirstSpan(s.cfg.MeetingLength, s.cfg.TimeIncrement); !ok {
				continue
			}
			groups = append(groups, &buildGroup{
				members:       []*models.Person{f, p},
				facilitatorID: f.ID,
				common:        joint,
			})
			cohorts[f.ID]++
			break
		}
	}
	return filterSmall(groups, s.cfg.MinPeople)
}

// pickGroup collects the indices of under-capacity groups that would remain
// valid after appending the person, and lets the pick strategy choose one.
func (s *Scheduler) pickGroup(groups []*buildGroup, avail *interval.BitSet) (int, bool) {
	var candidates []int
	for i, g := range groups {
		if len(g.members) >= s.cfg.MaxPeople {
			continue
		}
		if g.canAppend(avail, s.cfg) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return s.pick.Pick(s.rng, candidates, s.cfg.Randomness), true
}

// noisyOrder sorts ascending by noise-perturbed total availability, seating
// the hardest-to-place people first while keeping run-to-run variety.
func (s *Scheduler) noisyOrder(people []*models.Person) []*models.Person {
	r := s.cfg.Randomness
	keys := make(map[string]float64, len(people))
	for _, p := range people {
		noise := 1 - 0.1*r + s.rng.Float64()*0.2*r
		keys[p.ID] = float64(TotalAvailableMinutes(p)) * noise
	}
	ordered := make([]*models.Person, len(people))
	copy(ordered, people)
	sort.SliceStable(ordered, func(i, j int) bool {
		return keys[ordered[i].ID] < keys[ordered[j].ID]
	})
	return ordered
}

// filterSmall drops groups below the minimum size. Their members are simply
// absent from this pass's result; a later pass may seat them differently.
func filterSmall(groups []*buildGroup, minPeople int) []*buildGroup {
	kept := groups[:0]
	for _, g := range groups {
		if len(g.members) >= minPeople {
			kept = append(kept, g)
		}
	}
	return kept
}
