// Package scheduler partitions people with weekly recurring availability
// into cohorts sharing a common meeting time. The core is a stochastic
// constraint solver: a randomized greedy construction pass repeated with
// restarts, a local-search balancing pass, and a multi-course layer that
// keeps one person's cohorts from double-booking them. It performs no I/O;
// callers hand it normalized Person records and receive a structured result.
package scheduler

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jmcallister/cohort-scheduler-api-go/pkg/interval"
	"github.com/jmcallister/cohort-scheduler-api-go/pkg/models"
)

// Scheduler runs cohort scheduling with a fixed configuration. It owns its
// randomness source so runs are seedable and reproducible; nothing global is
// touched. A Scheduler is not safe for concurrent Schedule calls because the
// rand source is unsynchronized.
type Scheduler struct {
	cfg      models.SchedulerConfig
	rng      *rand.Rand
	pick     PickStrategy
	progress ProgressFunc
	logger   *zap.Logger
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithLogger attaches a zap logger; the default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProgress registers an observer for optimizer progress.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Scheduler) { s.progress = fn }
}

// WithPickStrategy overrides the candidate-group tie-break policy.
func WithPickStrategy(p PickStrategy) Option {
	return func(s *Scheduler) {
		if p != nil {
			s.pick = p
		}
	}
}

// New builds a Scheduler. A zero cfg.Seed seeds the randomness source from
// the clock; tests pass a fixed seed for reproducibility. Facilitator ids are
// only honored in facilitator mode.
func New(cfg models.SchedulerConfig, opts ...Option) *Scheduler {
	if !cfg.FacilitatorMode {
		cfg.FacilitatorIDs = nil
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Scheduler{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		pick:   FirstFitPick{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule partitions the population into cohorts, one course at a time.
// People enrolled in several courses are scheduled independently per course,
// with each course's selected meeting windows claimed so later courses
// cannot double-book the same person. Courses are processed in name order,
// which makes the claim priority deterministic.
func (s *Scheduler) Schedule(ctx context.Context, people []*models.Person) (*models.MultiCourseResult, error) {
	if len(people) == 0 {
		return nil, ErrNoUsers
	}
	if s.cfg.FacilitatorMode && len(s.cfg.FacilitatorIDs) == 0 {
		return nil, ErrNoFacilitators
	}

	buckets := bucketByCourse(people)
	courses := make([]string, 0, len(buckets))
	for course := range buckets {
		courses = append(courses, course)
	}
	sort.Strings(courses)

	result := &models.MultiCourseResult{
		Courses:     make(map[string]*models.CourseResult, len(courses)),
		TotalPeople: len(people),
	}
	claimed := make(map[string][]interval.Interval)

	for _, course := range courses {
		population := trimClaimed(buckets[course], claimed)
		ix := NewAvailabilityIndex(population, s.cfg.UseIfNeeded)

		cr := &models.CourseResult{Course: course, Groups: []*models.Group{}}
		result.Courses[course] = cr

		if len(population) < s.cfg.MinPeople ||
			(s.cfg.FacilitatorMode && !hasFacilitator(population, s.cfg)) {
			cr.Unassigned = population
			cr.Ungroupable = s.analyzeUngroupable(ix, population, nil, population)
			s.logger.Info("course skipped",
				zap.String("course", course),
				zap.Int("people", len(population)),
			)
			continue
		}

		groups, unassigned, err := s.optimizeCourse(ctx, course, ix, population)
		if err != nil {
			return nil, err
		}

		moves := 0
		if s.cfg.Balance && len(groups) >= 2 {
			moves = s.Balance(ix, groups)
			if moves > 0 {
				// membership changed; the selected windows must be re-derived
				for _, g := range groups {
					assignSelectedTime(ix, g, s.cfg)
				}
			}
		}

		cr.Groups = groups
		cr.Unassigned = unassigned
		for _, g := range groups {
			cr.Score += g.Size()
			if g.SelectedTime == nil {
				continue
			}
			for _, m := range g.Members {
				claimed[m.ID] = append(claimed[m.ID], *g.SelectedTime)
			}
		}
		cr.Ungroupable = s.analyzeUngroupable(ix, population, groups, unassigned)

		result.TotalScheduled += cr.Score
		result.TotalCohorts += len(groups)
		result.TotalBalanceMoves += moves

		s.logger.Info("course scheduled",
			zap.String("course", course),
			zap.Int("people", len(population)),
			zap.Int("cohorts", len(groups)),
			zap.Int("scheduled", cr.Score),
			zap.Int("unassigned", len(unassigned)),
			zap.Int("balance_moves", moves),
		)
	}

	return result, nil
}

// bucketByCourse groups people by course membership. People in several
// courses land in every bucket; people with none land in the synthetic
// Uncategorized course.
func bucketByCourse(people []*models.Person) map[string][]*models.Person {
	buckets := make(map[string][]*models.Person)
	for _, p := range people {
		if len(p.Courses) == 0 {
			buckets[models.UncategorizedCourse] = append(buckets[models.UncategorizedCourse], p)
			continue
		}
		for _, course := range p.Courses {
			buckets[course] = append(buckets[course], p)
		}
	}
	return buckets
}

// trimClaimed drops, from each person's availability, any block overlapping
// a meeting window already claimed for them by an earlier course. People
// with no claims are passed through unchanged; the rest get shallow copies
// so Person inputs stay read-only.
func trimClaimed(people []*models.Person, claimed map[string][]interval.Interval) []*models.Person {
	trimmed := make([]*models.Person, 0, len(people))
	for _, p := range people {
		blocks := claimed[p.ID]
		if len(blocks) == 0 {
			trimmed = append(trimmed, p)
			continue
		}
		cp := *p
		cp.Intervals = dropOverlapping(p.Intervals, blocks)
		cp.IfNeeded = dropOverlapping(p.IfNeeded, blocks)
		trimmed = append(trimmed, &cp)
	}
	return trimmed
}

func dropOverlapping(intervals, blocks []interval.Interval) []interval.Interval {
	var kept []interval.Interval
	for _, iv := range intervals {
		clear := true
		for _, b := range blocks {
			if iv.Overlaps(b) {
				clear = false
				break
			}
		}
		if clear {
			kept = append(kept, iv)
		}
	}
	return kept
}

func hasFacilitator(people []*models.Person, cfg models.SchedulerConfig) bool {
	for _, p := range people {
		if cfg.IsFacilitator(p.ID) {
			return true
		}
	}
	return false
}
