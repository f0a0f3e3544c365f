package app

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"chairs/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	// DefaultStaleTableTimeout is how long an unwatched, untouched table survives
	DefaultStaleTableTimeout = 2 * time.Hour
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ErrTableNotFound is returned when no table has the requested code
var ErrTableNotFound = errors.New("table not found")

// HubOptions configures the tables a hub creates
type HubOptions struct {
	Game           domain.GameSettings
	Policy         string
	Seed           int64 // 0 seeds each table from the clock
	Session        SessionSettings
	StaleTimeout   time.Duration
	RoomCodeLength int
}

// DefaultHubOptions returns the default hub options
func DefaultHubOptions() HubOptions {
	return HubOptions{
		Game:           domain.DefaultGameSettings(),
		Policy:         domain.PolicyPriority,
		Session:        DefaultSessionSettings(),
		StaleTimeout:   DefaultStaleTableTimeout,
		RoomCodeLength: DefaultRoomCodeLength,
	}
}

// GameHub manages all active tables
type GameHub struct {
	sessions map[string]*GameSession
	mu       sync.RWMutex
	opts     HubOptions
	logger   *slog.Logger
	done     chan struct{}
}

// NewGameHub creates a new game hub
func NewGameHub(opts HubOptions, logger *slog.Logger) *GameHub {
	if opts.RoomCodeLength <= 0 {
		opts.RoomCodeLength = DefaultRoomCodeLength
	}
	if opts.StaleTimeout <= 0 {
		opts.StaleTimeout = DefaultStaleTableTimeout
	}

	hub := &GameHub{
		sessions: make(map[string]*GameSession),
		opts:     opts,
		logger:   logger,
		done:     make(chan struct{}),
	}

	// Start cleanup goroutine
	go hub.cleanupLoop()

	return hub
}

// CreateTable creates a new table and returns its session
func (h *GameHub) CreateTable() (*GameSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Generate unique room code
	var roomCode string
	for attempts := 0; attempts < 10; attempts++ {
		roomCode = h.generateRoomCode()
		if _, exists := h.sessions[roomCode]; !exists {
			break
		}
	}

	// Check if we found a unique code
	if _, exists := h.sessions[roomCode]; exists {
		return nil, fmt.Errorf("failed to generate unique room code")
	}

	seed := h.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	policy, err := domain.NewChairPolicy(h.opts.Policy, seed)
	if err != nil {
		return nil, err
	}

	game, err := domain.NewGame(roomCode, h.opts.Game, policy)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	session := NewGameSession(game, h.opts.Session, h.logger)
	h.sessions[roomCode] = session

	h.logger.Info("table created", "roomCode", roomCode, "policy", policy.Name())

	return session, nil
}

// GetSession returns a table session by room code
func (h *GameHub) GetSession(roomCode string) (*GameSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return nil, ErrTableNotFound
	}

	return session, nil
}

// DeleteSession removes a table
func (h *GameHub) DeleteSession(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[roomCode]; ok {
		session.Close()
		delete(h.sessions, roomCode)
		h.logger.Info("table deleted", "roomCode", roomCode)
	}
}

// GetSessionCount returns the number of active tables
func (h *GameHub) GetSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GetTotalParticipantCount returns the number of participants still in play across all tables
func (h *GameHub) GetTotalParticipantCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.GetParticipantCount()
	}
	return total
}

// GetTotalClientCount returns the number of connected clients across all tables
func (h *GameHub) GetTotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.GetClientCount()
	}
	return total
}

// Close shuts down the hub and all tables
func (h *GameHub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*GameSession)
}

// generateRoomCode generates a random room code
func (h *GameHub) generateRoomCode() string {
	b := make([]byte, h.opts.RoomCodeLength)
	rand.Read(b)

	code := make([]byte, h.opts.RoomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// cleanupLoop periodically cleans up stale tables
func (h *GameHub) cleanupLoop() {
	interval := h.opts.StaleTimeout / 4
	if interval > 10*time.Minute {
		interval = 10 * time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleTables(time.Now())
		}
	}
}

// cleanupStaleTables removes tables nobody watches that have been idle for too long
func (h *GameHub) cleanupStaleTables(now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	stale := make([]string, 0)

	for roomCode, session := range h.sessions {
		if session.GetClientCount() == 0 && now.Sub(session.GetLastActivity()) > h.opts.StaleTimeout {
			stale = append(stale, roomCode)
		}
	}

	for _, roomCode := range stale {
		if session, ok := h.sessions[roomCode]; ok {
			session.Close()
			delete(h.sessions, roomCode)
			h.logger.Info("stale table cleaned up", "roomCode", roomCode)
		}
	}

	return len(stale)
}
