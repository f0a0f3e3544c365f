package domain

// Phase represents the current phase of a game
type Phase string

const (
	PhaseIdle     Phase = "IDLE"     // Music off, waiting for start
	PhasePlaying  Phase = "PLAYING"  // Music on, tokens circling
	PhaseStopping Phase = "STOPPING" // Music stopped, tokens settling onto a slot
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from current phase to target phase is valid.
// allowResume enables STOPPING -> PLAYING (music toggled back on before the settle finishes).
func (p Phase) CanTransitionTo(target Phase, allowResume bool) bool {
	validTransitions := map[Phase][]Phase{
		PhaseIdle:     {PhasePlaying},
		PhasePlaying:  {PhaseStopping},
		PhaseStopping: {PhaseIdle},
	}
	if allowResume {
		validTransitions[PhaseStopping] = append(validTransitions[PhaseStopping], PhasePlaying)
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
