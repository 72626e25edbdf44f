package scheduler

import (
	"sort"

	"github.com/jmcallister/cohort-scheduler-api-go/pkg/models"
)

// Balance takes temporary exclusive ownership of the finalized groups and
// moves members from larger to smaller groups until the size spread is at
// most one or no legal move remains. Groups are scanned largest-first with
// targets taken smallest-first; the first member whose relocation keeps the
// target valid is moved and the scan restarts. A move is only taken when the
// source is at least two larger than the target, so every move strictly
// evens the pair and the pass terminates. Perfect balance is not guaranteed.
// Returns the number of moves performed.
func (s *Scheduler) Balance(ix *AvailabilityIndex, groups []*models.Group) int {
	moves := 0
	if len(groups) < 2 {
		return moves
	}

	for {
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].Size() > groups[j].Size()
		})
		if groups[0].Size()-groups[len(groups)-1].Size() <= 1 {
			return moves
		}
		if !s.moveOne(ix, groups) {
			return moves
		}
		moves++
	}
}

// moveOne performs the first legal relocation found in scan order.
func (s *Scheduler) moveOne(ix *AvailabilityIndex, groups []*models.Group) bool {
	for si := 0; si < len(groups); si++ {
		src := groups[si]
		for ti := len(groups) - 1; ti > si; ti-- {
			tgt := groups[ti]
			if src.Size() <= tgt.Size()+1 {
				continue
			}
			for mi, m := range src.Members {
				// full-slice expression keeps the candidate append from
				// scribbling on tgt's backing array
				trial := append(tgt.Members[:tgt.Size():tgt.Size()], m)
				if !GroupIsValid(ix, trial, s.cfg) {
					continue
				}
				src.Members = append(src.Members[:mi], src.Members[mi+1:]...)
				tgt.Members = append(tgt.Members, m)
				return true
			}
		}
	}
	return false
}
