package service

import "fmt"

// RestorePhase is the state of one restore run.
type RestorePhase string

const (
	PhaseIdle       RestorePhase = "idle"
	PhaseValidating RestorePhase = "validating"
	PhaseClearing   RestorePhase = "clearing"
	PhaseLoading    RestorePhase = "loading"
	PhaseDone       RestorePhase = "done"
	PhaseFailed     RestorePhase = "failed"
)

// allowedRestoreTransitions encodes the restore state machine:
// Idle -> Validating -> Clearing -> Loading -> Done, with Failed reachable
// from every non-terminal working phase.
var allowedRestoreTransitions = map[RestorePhase][]RestorePhase{
	PhaseIdle:       {PhaseValidating},
	PhaseValidating: {PhaseClearing, PhaseFailed},
	PhaseClearing:   {PhaseLoading, PhaseFailed},
	PhaseLoading:    {PhaseDone, PhaseFailed},
}

// restoreRun tracks the phase of a single restore. Transitions are
// validated; an invalid transition is a coordinator bug, not a runtime
// condition, and surfaces as an error the caller treats as fatal.
type restoreRun struct {
	phase RestorePhase
}

func newRestoreRun() *restoreRun {
	return &restoreRun{phase: PhaseIdle}
}

func (r *restoreRun) to(next RestorePhase) error {
	for _, allowed := range allowedRestoreTransitions[r.phase] {
		if allowed == next {
			r.phase = next
			return nil
		}
	}
	return fmt.Errorf("invalid restore transition: %s -> %s", r.phase, next)
}

// fail moves the run to Failed from any working phase. Calling it from a
// terminal phase leaves the run as-is.
func (r *restoreRun) fail() {
	if r.phase == PhaseDone || r.phase == PhaseFailed {
		return
	}
	r.phase = PhaseFailed
}
