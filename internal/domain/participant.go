package domain

// ParticipantStatus is whether a participant is still walking
type ParticipantStatus string

const (
	StatusActive     ParticipantStatus = "ACTIVE"
	StatusEliminated ParticipantStatus = "ELIMINATED"
)

// Participant is one token on the path. Its id is fixed at reset and never reused.
type Participant struct {
	ID              int               `json:"id"`
	Status          ParticipantStatus `json:"status"`
	EliminatedRound int               `json:"eliminatedRound,omitempty"`
}

// NewParticipant creates an active participant
func NewParticipant(id int) *Participant {
	return &Participant{
		ID:     id,
		Status: StatusActive,
	}
}

// IsActive returns true if the participant is still in the roster
func (p *Participant) IsActive() bool {
	return p.Status == StatusActive
}

// Eliminate marks the participant out in the given round
func (p *Participant) Eliminate(round int) {
	p.Status = StatusEliminated
	p.EliminatedRound = round
}
