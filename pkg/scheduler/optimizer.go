package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmcallister/cohort-scheduler-api-go/pkg/models"
)

// ProgressFunc observes optimizer progress. It is called every progressEvery
// iterations and is purely observational.
type ProgressFunc func(iteration, totalIterations, bestScore, totalPeople int)

const (
	cancelCheckEvery = 50
	progressEvery    = 100
)

// optimizeCourse repeats the greedy builder up to NumIterations times against
// the same population and keeps the first partition that reaches the maximum
// number of placed people, stopping early once everyone is placed. The
// winning arena groups are frozen into finalized models.Group values with
// their earliest common meeting window selected.
func (s *Scheduler) optimizeCourse(ctx context.Context, course string, ix *AvailabilityIndex, people []*models.Person) ([]*models.Group, []*models.Person, error) {
	var best []*buildGroup
	bestScore := -1
	total := len(people)

	for i := 1; i <= s.cfg.NumIterations; i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		groups := s.buildIteration(ix, people)
		if score := placedCount(groups); score > bestScore {
			bestScore = score
			best = groups
		}

		if i%progressEvery == 0 {
			s.logger.Debug("optimizer progress",
				zap.String("course", course),
				zap.Int("iteration", i),
				zap.Int("total_iterations", s.cfg.NumIterations),
				zap.Int("best_score", bestScore),
				zap.Int("people", total),
			)
			if s.progress != nil {
				s.progress(i, s.cfg.NumIterations, bestScore, total)
			}
		}

		if bestScore == total {
			break
		}
	}

	placed := make(map[string]bool, bestScore)
	finalized := make([]*models.Group, 0, len(best))
	for i, bg := range best {
		g := &models.Group{
			ID:            uuid.NewString(),
			Name:          fmt.Sprintf("%s Cohort %d", course, i+1),
			Members:       bg.members,
			FacilitatorID: bg.facilitatorID,
		}
		assignSelectedTime(ix, g, s.cfg)
		for _, m := range g.Members {
			placed[m.ID] = true
		}
		finalized = append(finalized, g)
	}

	var unassigned []*models.Person
	for _, p := range people {
		if !placed[p.ID] {
			unassigned = append(unassigned, p)
		}
	}
	return finalized, unassigned, nil
}

// assignSelectedTime picks the earliest feasible meeting window for a
// finalized group.
func assignSelectedTime(ix *AvailabilityIndex, g *models.Group, cfg models.SchedulerConfig) {
	if windows := FindMeetingTimes(ix, g.Members, cfg); len(windows) > 0 {
		g.SelectedTime = &windows[0]
	} else {
		g.SelectedTime = nil
	}
}

func placedCount(groups []*buildGroup) int {
	total := 0
	for _, g := range groups {
		total += len(g.members)
	}
	return total
}
