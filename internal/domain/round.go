package domain

import "time"

// NoParticipant marks a round that eliminated nobody
const NoParticipant = -1

// RoundResult records one play-stop-eliminate cycle
type RoundResult struct {
	Number       int       `json:"number"`
	RemovedChair int       `json:"removedChair"`
	SettledSlot  int       `json:"settledSlot"`
	Eliminated   int       `json:"eliminated"`
	Fault        bool      `json:"fault"`
	StartedAt    time.Time `json:"startedAt"`
	EndedAt      time.Time `json:"endedAt,omitempty"`
}

// NewRound creates an open round
func NewRound(number int) *RoundResult {
	return &RoundResult{
		Number:       number,
		RemovedChair: NoChair,
		SettledSlot:  -1,
		Eliminated:   NoParticipant,
		StartedAt:    time.Now(),
	}
}

// HasElimination returns true if someone lost their seat this round
func (r *RoundResult) HasElimination() bool {
	return r.Eliminated != NoParticipant
}
