package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmcallister/cohort-scheduler-api-go/pkg/models"
)

func TestFirstFitPickDeterministicAtZero(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	candidates := []int{3, 1, 4}
	for i := 0; i < 20; i++ {
		assert.Equal(t, 3, FirstFitPick{}.Pick(rng, candidates, 0))
	}
}

func TestFirstFitPickStaysInCandidates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	candidates := []int{2, 5, 7}
	for i := 0; i < 100; i++ {
		got := FirstFitPick{}.Pick(rng, candidates, 1)
		assert.Contains(t, candidates, got)
	}
}

func TestNoisyOrderSeatsScarcestFirst(t *testing.T) {
	cfg := testConfig()
	s := New(cfg)

	people := []*models.Person{
		testPerson("wide", "M09:00 M21:00"),
		testPerson("narrow", "M09:00 M10:00"),
		testPerson("medium", "M09:00 M13:00"),
	}

	ordered := s.noisyOrder(people)
	ids := make([]string, 0, len(ordered))
	for _, p := range ordered {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"narrow", "medium", "wide"}, ids)

	// input slice is left untouched
	assert.Equal(t, "wide", people[0].ID)
}

func TestFilterSmall(t *testing.T) {
	big := &buildGroup{members: []*models.Person{
		testPerson("a", "M09:00 M10:00"),
		testPerson("b", "M09:00 M10:00"),
	}}
	small := &buildGroup{members: []*models.Person{
		testPerson("c", "M09:00 M10:00"),
	}}

	kept := filterSmall([]*buildGroup{big, small}, 2)
	assert.Equal(t, []*buildGroup{big}, kept)
}

func TestBuildIterationFillsBeforeOpening(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPeople = 3
	cfg.MinPeople = 1
	s := New(cfg)

	var people []*models.Person
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		people = append(people, testPerson(id, "M09:00 M12:00"))
	}
	ix := NewAvailabilityIndex(people, true)

	groups := s.buildIteration(ix, people)
	sizes := make([]int, 0, len(groups))
	for _, g := range groups {
		sizes = append(sizes, len(g.members))
	}
	assert.Equal(t, []int{3, 2}, sizes)
}
