package scheduler

import "errors"

// Input-validation failures. Everything else a run can encounter (too-small
// courses, unplaceable people, saturated facilitators) is reported as data in
// the result, because partial success is the expected outcome of a
// best-effort solver.
var (
	// ErrNoUsers is returned when the input population is empty.
	ErrNoUsers = errors.New("scheduler: no people to schedule")
	// ErrNoFacilitators is returned when facilitator mode is requested
	// without any facilitators.
	ErrNoFacilitators = errors.New("scheduler: facilitator mode requires at least one facilitator")
)
