package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcallister/cohort-scheduler-api-go/pkg/interval"
	"github.com/jmcallister/cohort-scheduler-api-go/pkg/models"
)

func TestScheduleEmptyPopulation(t *testing.T) {
	s := New(testConfig())
	_, err := s.Schedule(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoUsers)
}

func TestScheduleFacilitatorModeNeedsFacilitators(t *testing.T) {
	cfg := testConfig()
	cfg.FacilitatorMode = true
	s := New(cfg)

	_, err := s.Schedule(context.Background(), []*models.Person{
		testPerson("a", "M09:00 M10:00", "go"),
	})
	assert.ErrorIs(t, err, ErrNoFacilitators)
}

func TestScheduleSinglePair(t *testing.T) {
	people := []*models.Person{
		testPerson("a", "M09:00 M10:00", "go"),
		testPerson("b", "M09:00 M10:00", "go"),
	}
	s := New(testConfig())

	res, err := s.Schedule(context.Background(), people)
	require.NoError(t, err)

	cr := res.Courses["go"]
	require.NotNil(t, cr)
	require.Len(t, cr.Groups, 1)

	g := cr.Groups[0]
	assert.Equal(t, 2, g.Size())
	assert.Equal(t, "go Cohort 1", g.Name)
	require.NotNil(t, g.SelectedTime)
	assert.Equal(t, interval.Interval{Start: 540, End: 600}, *g.SelectedTime)

	assert.Equal(t, 2, res.TotalScheduled)
	assert.Equal(t, 1, res.TotalCohorts)
	assert.Equal(t, 2, res.TotalPeople)
	assert.Empty(t, cr.Ungroupable)
}

func TestScheduleDisjointAvailability(t *testing.T) {
	people := []*models.Person{
		testPerson("a", "M09:00 M10:00", "go"),
		testPerson("b", "T09:00 T10:00", "go"),
	}

	t.Run("splits into singletons when allowed", func(t *testing.T) {
		cfg := testConfig()
		cfg.MinPeople = 1
		res, err := New(cfg).Schedule(context.Background(), people)
		require.NoError(t, err)

		cr := res.Courses["go"]
		require.Len(t, cr.Groups, 2)
		assert.Equal(t, 1, cr.Groups[0].Size())
		assert.Equal(t, 1, cr.Groups[1].Size())
		assert.Empty(t, cr.Unassigned)
	})

	t.Run("leaves both unassigned under min size", func(t *testing.T) {
		res, err := New(testConfig()).Schedule(context.Background(), people)
		require.NoError(t, err)

		cr := res.Courses["go"]
		assert.Empty(t, cr.Groups)
		assert.Len(t, cr.Unassigned, 2)
		require.Len(t, cr.Ungroupable, 2)
		for _, d := range cr.Ungroupable {
			assert.Equal(t, models.ReasonInsufficientGroupSize, d.Reason)
			assert.Equal(t, 0, d.Detail["overlapping_unassigned"])
			assert.Equal(t, 2, d.Detail["min_people"])
		}
	})
}

func TestScheduleCourseBelowMinimumIsSkipped(t *testing.T) {
	res, err := New(testConfig()).Schedule(context.Background(), []*models.Person{
		testPerson("a", "M09:00 M10:00", "go"),
	})
	require.NoError(t, err)

	cr := res.Courses["go"]
	assert.Empty(t, cr.Groups)
	assert.Len(t, cr.Unassigned, 1)
	require.Len(t, cr.Ungroupable, 1)
	assert.Equal(t, models.ReasonInsufficientGroupSize, cr.Ungroupable[0].Reason)
	assert.Zero(t, res.TotalScheduled)
}

func TestScheduleNoAvailabilityReason(t *testing.T) {
	res, err := New(testConfig()).Schedule(context.Background(), []*models.Person{
		testPerson("a", "M09:00 M10:00", "go"),
		testPerson("b", "", "go"),
	})
	require.NoError(t, err)

	reasons := make(map[string]models.UngroupableReason)
	for _, d := range res.Courses["go"].Ungroupable {
		reasons[d.PersonID] = d.Reason
	}
	assert.Equal(t, models.ReasonNoAvailability, reasons["b"])
	assert.Equal(t, models.ReasonInsufficientGroupSize, reasons["a"])
}

func TestScheduleUncategorizedCourse(t *testing.T) {
	res, err := New(testConfig()).Schedule(context.Background(), []*models.Person{
		testPerson("a", "M09:00 M10:00"),
		testPerson("b", "M09:00 M10:00"),
	})
	require.NoError(t, err)

	cr := res.Courses[models.UncategorizedCourse]
	require.NotNil(t, cr)
	require.Len(t, cr.Groups, 1)
	assert.Equal(t, 2, cr.Groups[0].Size())
}

func TestScheduleFacilitatorCapacity(t *testing.T) {
	cfg := testConfig()
	cfg.FacilitatorMode = true
	cfg.FacilitatorIDs = map[string]bool{"f": true}

	people := []*models.Person{testPerson("f", "M09:00 M12:00", "go")}
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		people = append(people, testPerson(id, "M09:00 M12:00", "go"))
	}

	res, err := New(cfg).Schedule(context.Background(), people)
	require.NoError(t, err)

	cr := res.Courses["go"]
	require.Len(t, cr.Groups, 1)
	g := cr.Groups[0]
	assert.Equal(t, 4, g.Size())
	assert.Equal(t, "f", g.FacilitatorID)
	assert.Contains(t, g.MemberIDs(), "f")

	// the facilitator's single cohort is full, so the rest cannot be seated
	require.Len(t, cr.Ungroupable, 3)
	for _, d := range cr.Ungroupable {
		assert.Equal(t, models.ReasonFacilitatorCapacity, d.Reason)
		assert.Equal(t, 1, d.Detail["facilitators_at_capacity"])
	}
}

func TestScheduleFacilitatorMaxCohorts(t *testing.T) {
	cfg := testConfig()
	cfg.FacilitatorMode = true
	cfg.FacilitatorIDs = map[string]bool{"f": true}
	cfg.FacilitatorMaxCohorts = map[string]int{"f": 2}
	cfg.MaxPeople = 3
	cfg.Balance = false

	people := []*models.Person{testPerson("f", "M09:00 M12:00", "go")}
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		people = append(people, testPerson(id, "M09:00 M12:00", "go"))
	}

	res, err := New(cfg).Schedule(context.Background(), people)
	require.NoError(t, err)

	cr := res.Courses["go"]
	require.Len(t, cr.Groups, 2)
	for _, g := range cr.Groups {
		assert.Equal(t, "f", g.FacilitatorID)
	}
	assert.Empty(t, cr.Unassigned)
}

func TestScheduleNoFacilitatorOverlap(t *testing.T) {
	cfg := testConfig()
	cfg.FacilitatorMode = true
	cfg.FacilitatorIDs = map[string]bool{"f": true}

	res, err := New(cfg).Schedule(context.Background(), []*models.Person{
		testPerson("f", "M09:00 M12:00", "go"),
		testPerson("p1", "M09:00 M12:00", "go"),
		testPerson("p2", "T09:00 T10:00", "go"),
	})
	require.NoError(t, err)

	cr := res.Courses["go"]
	reasons := make(map[string]models.UngroupableReason)
	for _, d := range cr.Ungroupable {
		reasons[d.PersonID] = d.Reason
	}
	assert.Equal(t, models.ReasonNoFacilitatorOverlap, reasons["p2"])
}

func TestScheduleMultiCourseNoDoubleBooking(t *testing.T) {
	shared := testPerson("x", "M09:00 M10:00, M11:00 M12:00", "alpha", "beta")
	a := testPerson("a", "M09:00 M10:00", "alpha")
	b := testPerson("b", "M09:00 M10:00, M11:00 M12:00", "beta")

	res, err := New(testConfig()).Schedule(context.Background(), []*models.Person{shared, a, b})
	require.NoError(t, err)

	alpha := res.Courses["alpha"]
	beta := res.Courses["beta"]
	require.Len(t, alpha.Groups, 1)
	require.Len(t, beta.Groups, 1)

	at := alpha.Groups[0].SelectedTime
	bt := beta.Groups[0].SelectedTime
	require.NotNil(t, at)
	require.NotNil(t, bt)
	assert.Equal(t, interval.Interval{Start: 540, End: 600}, *at)
	assert.Equal(t, interval.Interval{Start: 660, End: 720}, *bt)
	assert.False(t, at.Overlaps(*bt))

	assert.Equal(t, 4, res.TotalScheduled)
	assert.Equal(t, 3, res.TotalPeople)
}

func TestScheduleReproducibleWithSeed(t *testing.T) {
	people := make([]*models.Person, 0, 12)
	specs := []string{
		"M09:00 M12:00", "M10:00 M13:00", "M11:00 M14:00",
		"T09:00 T12:00", "T10:00 T13:00", "T11:00 T14:00",
	}
	for i, spec := range specs {
		people = append(people,
			testPerson(string(rune('a'+i)), spec, "go"),
			testPerson(string(rune('n'+i)), spec, "go"),
		)
	}

	cfg := testConfig()
	cfg.Randomness = 0.8
	cfg.Seed = 7

	first, err := New(cfg).Schedule(context.Background(), people)
	require.NoError(t, err)
	second, err := New(cfg).Schedule(context.Background(), people)
	require.NoError(t, err)

	require.Equal(t, len(first.Courses["go"].Groups), len(second.Courses["go"].Groups))
	for i, g := range first.Courses["go"].Groups {
		assert.Equal(t, g.MemberIDs(), second.Courses["go"].Groups[i].MemberIDs())
	}
}

func TestScheduleRespectsSizeBounds(t *testing.T) {
	cfg := testConfig()
	cfg.MinPeople = 2
	cfg.MaxPeople = 3
	cfg.Randomness = 0.6
	cfg.Seed = 99

	var people []*models.Person
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		people = append(people, testPerson(id, "W18:00 W21:00", "go"))
	}

	res, err := New(cfg).Schedule(context.Background(), people)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, g := range res.Courses["go"].Groups {
		assert.GreaterOrEqual(t, g.Size(), cfg.MinPeople)
		assert.LessOrEqual(t, g.Size(), cfg.MaxPeople)
		for _, id := range g.MemberIDs() {
			seen[id]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "person %s placed more than once", id)
	}
}

func TestScheduleCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig()
	cfg.NumIterations = 1000
	cfg.MinPeople = 3

	// disjoint pairs keep every pass imperfect so the loop cannot exit early
	var people []*models.Person
	for i := 0; i < 4; i++ {
		day := string("MTWR"[i])
		people = append(people,
			testPerson(day+"1", day+"09:00 "+day+"10:00", "go"),
			testPerson(day+"2", day+"09:00 "+day+"10:00", "go"),
		)
	}

	_, err := New(cfg).Schedule(ctx, people)
	assert.ErrorIs(t, err, context.Canceled)
}
