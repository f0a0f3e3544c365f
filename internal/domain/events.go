package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of game event
type EventType string

const (
	EventGameReset             EventType = "GAME_RESET"
	EventMusicStarted          EventType = "MUSIC_STARTED"
	EventMusicStopped          EventType = "MUSIC_STOPPED"
	EventMusicResumed          EventType = "MUSIC_RESUMED"
	EventChairRemoved          EventType = "CHAIR_REMOVED"
	EventSlotSettled           EventType = "SLOT_SETTLED"
	EventParticipantEliminated EventType = "PARTICIPANT_ELIMINATED"
	EventResolveFault          EventType = "RESOLVE_FAULT"
	EventRoundEnded            EventType = "ROUND_ENDED"
	EventGameOver              EventType = "GAME_OVER"
)

// GameEvent is one entry of the trace the engine keeps of its reasoning
type GameEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GameID    string      `json:"gameId"`
	Round     int         `json:"round"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new game event
func NewEvent(eventType EventType, gameID string, round int, payload interface{}) *GameEvent {
	return &GameEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		GameID:    gameID,
		Round:     round,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// MusicStoppedPayload is recorded when the music stops and the settle target is fixed
type MusicStoppedPayload struct {
	Progress     float64 `json:"progress"`
	SettleTarget float64 `json:"settleTarget"`
	SettledSlot  int     `json:"settledSlot"`
}

// ChairRemovedPayload is recorded when the removal timer takes a chair away
type ChairRemovedPayload struct {
	Chair     int    `json:"chair"`
	Policy    string `json:"policy"`
	Remaining int    `json:"remaining"`
}

// SlotSettledPayload lists where everyone landed
type SlotSettledPayload struct {
	SettledSlot  int    `json:"settledSlot"`
	PendingChair int    `json:"pendingChair"`
	Seats        []Seat `json:"seats"`
}

// EliminationPayload names the participant who landed on the missing chair
type EliminationPayload struct {
	Resolution
	Remaining int `json:"remaining"`
}

// ResolveFaultPayload is recorded when the roster and the missing chair are out of step
type ResolveFaultPayload struct {
	SettledSlot  int    `json:"settledSlot"`
	MissingChair int    `json:"missingChair"`
	Roster       Roster `json:"roster"`
	Reason       string `json:"reason"`
}

// GameOverPayload is recorded once the stopping criteria are met
type GameOverPayload struct {
	Winners []int  `json:"winners"`
	Reason  string `json:"reason"`
}
