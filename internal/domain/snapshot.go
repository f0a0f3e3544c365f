package domain

// Snapshot is the read-only view of a game handed to the presentation layer each frame
type Snapshot struct {
	GameID       string        `json:"gameId"`
	Phase        Phase         `json:"phase"`
	Progress     float64       `json:"progress"`
	Round        int           `json:"round"`
	Roster       Roster        `json:"roster"`
	Participants []Participant `json:"participants"`
	Eliminated   []int         `json:"eliminated"`
	AbsentChairs []int         `json:"absentChairs"`
	PendingChair int           `json:"pendingChair"`
	PathLength   int           `json:"pathLength"`
	History      []RoundResult `json:"history"`
	Over         bool          `json:"over"`
	Winners      []int         `json:"winners,omitempty"`
	Policy       string        `json:"policy"`
}

// TokenPosition is where one participant is drawn
type TokenPosition struct {
	Participant int   `json:"participant"`
	OrderIndex  int   `json:"orderIndex"`
	Position    Point `json:"position"`
}

// Snapshot copies the current state
func (g *Game) Snapshot() Snapshot {
	participants := make([]Participant, len(g.participants))
	for i, p := range g.participants {
		participants[i] = *p
	}

	history := make([]RoundResult, len(g.history))
	for i, r := range g.history {
		history[i] = *r
	}

	eliminated := make([]int, len(g.eliminated))
	copy(eliminated, g.eliminated)

	return Snapshot{
		GameID:       g.ID,
		Phase:        g.phase,
		Progress:     g.progress,
		Round:        g.round,
		Roster:       g.roster.Clone(),
		Participants: participants,
		Eliminated:   eliminated,
		AbsentChairs: g.chairs.Absent(),
		PendingChair: g.pendingChair,
		PathLength:   g.path.Len(),
		History:      history,
		Over:         g.over,
		Winners:      g.Winners(),
		Policy:       g.policy.Name(),
	}
}

// Positions places every active participant on the path for the current progress
func (g *Game) Positions() []TokenPosition {
	positions := make([]TokenPosition, 0, len(g.roster))
	for i, id := range g.roster {
		positions = append(positions, TokenPosition{
			Participant: id,
			OrderIndex:  i,
			Position:    g.path.Position(i, g.progress),
		})
	}
	return positions
}
