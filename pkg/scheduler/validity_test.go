package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcallister/cohort-scheduler-api-go/pkg/interval"
	"github.com/jmcallister/cohort-scheduler-api-go/pkg/models"
)

func testPerson(id, spec string, courses ...string) *models.Person {
	return &models.Person{
		ID:        id,
		Name:      id,
		Courses:   courses,
		Intervals: interval.ParseSpec(spec),
	}
}

func testConfig() models.SchedulerConfig {
	cfg := models.DefaultConfig()
	cfg.MinPeople = 2
	cfg.MaxPeople = 4
	cfg.NumIterations = 50
	cfg.Randomness = 0
	cfg.Seed = 42
	return cfg
}

func TestGroupIsValid(t *testing.T) {
	cfg := testConfig()
	a := testPerson("a", "M09:00 M10:00")
	b := testPerson("b", "M09:00 M10:00")
	c := testPerson("c", "T09:00 T10:00")
	ix := NewAvailabilityIndex([]*models.Person{a, b, c}, true)

	assert.True(t, GroupIsValid(ix, nil, cfg))
	assert.True(t, GroupIsValid(ix, []*models.Person{a, b}, cfg))
	assert.False(t, GroupIsValid(ix, []*models.Person{a, c}, cfg))

	// shared hour is too short for a 90 minute meeting
	long := cfg
	long.MeetingLength = 90
	assert.False(t, GroupIsValid(ix, []*models.Person{a, b}, long))
}

func TestGroupIsValidIfNeededToggle(t *testing.T) {
	cfg := testConfig()
	a := testPerson("a", "M09:00 M10:00")
	b := &models.Person{ID: "b", Name: "b", IfNeeded: interval.ParseSpec("M09:00 M10:00")}
	people := []*models.Person{a, b}

	withFallback := NewAvailabilityIndex(people, true)
	assert.True(t, GroupIsValid(withFallback, people, cfg))

	firmOnly := NewAvailabilityIndex(people, false)
	assert.False(t, GroupIsValid(firmOnly, people, cfg))
}

func TestGroupIsValidFacilitatorRule(t *testing.T) {
	cfg := testConfig()
	cfg.FacilitatorMode = true
	cfg.FacilitatorIDs = map[string]bool{"f1": true, "f2": true}

	f1 := testPerson("f1", "M09:00 M12:00")
	f2 := testPerson("f2", "M09:00 M12:00")
	p := testPerson("p", "M09:00 M12:00")
	q := testPerson("q", "M09:00 M12:00")
	ix := NewAvailabilityIndex([]*models.Person{f1, f2, p, q}, true)

	assert.True(t, GroupIsValid(ix, []*models.Person{f1, p}, cfg))
	assert.False(t, GroupIsValid(ix, []*models.Person{p, q}, cfg))
	assert.False(t, GroupIsValid(ix, []*models.Person{f1, f2, p}, cfg))
}

func TestFindMeetingTimes(t *testing.T) {
	cfg := testConfig()
	a := testPerson("a", "M09:00 M11:00")
	b := testPerson("b", "M09:00 M11:00")
	ix := NewAvailabilityIndex([]*models.Person{a, b}, true)

	windows := FindMeetingTimes(ix, []*models.Person{a, b}, cfg)
	require.Len(t, windows, 3)
	assert.Equal(t, []interval.Interval{
		{Start: 540, End: 600},
		{Start: 570, End: 630},
		{Start: 600, End: 660},
	}, windows)

	assert.Nil(t, FindMeetingTimes(ix, nil, cfg))
}

func TestTotalAvailableMinutes(t *testing.T) {
	p := &models.Person{
		ID:        "p",
		Intervals: interval.ParseSpec("M09:00 M10:00"),
		IfNeeded:  interval.ParseSpec("M09:30 M10:30"),
	}
	assert.Equal(t, 120, TotalAvailableMinutes(p))
}
