package app

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"chairs/internal/domain"
)

// ErrSessionClosed is returned for intents sent to a closed session
var ErrSessionClosed = errors.New("session closed")

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetClientID() string
	Close() error
}

// BroadcastType is the kind of update pushed to clients
type BroadcastType string

const (
	BroadcastState BroadcastType = "state"
	BroadcastTrace BroadcastType = "trace"
)

// Broadcast is one update pushed to every client of a table
type Broadcast struct {
	Type      BroadcastType `json:"type"`
	Payload   interface{}   `json:"payload"`
	Timestamp time.Time     `json:"timestamp"`
}

// StateView is the frame the presentation layer renders
type StateView struct {
	domain.Snapshot
	Positions []domain.TokenPosition `json:"positions"`
}

// SessionSettings holds the simulation loop parameters
type SessionSettings struct {
	TickHz      int
	BroadcastHz int
	Palette     []string
}

// DefaultSessionSettings returns the default loop parameters
func DefaultSessionSettings() SessionSettings {
	return SessionSettings{
		TickHz:      60,
		BroadcastHz: 20,
		Palette:     DefaultPalette,
	}
}

type intent int

const (
	intentStart intent = iota
	intentStop
	intentToggle
	intentReset
)

func (i intent) String() string {
	switch i {
	case intentStart:
		return "start"
	case intentStop:
		return "stop"
	case intentToggle:
		return "toggle"
	case intentReset:
		return "reset"
	}
	return "unknown"
}

// command is an intent waiting in the inbox together with where to send the outcome
type command struct {
	intent intent
	reply  chan error
}

// GameSession owns one game. Every intent and every tick goes through the run loop,
// which is the only goroutine that touches the game.
type GameSession struct {
	game      *domain.Game
	settings  SessionSettings
	createdAt time.Time
	logger    *slog.Logger

	inbox chan command

	// Published after every step for readers outside the loop
	mu           sync.RWMutex
	view         StateView
	lastActivity time.Time

	clients   map[string]ClientConnection // clientID -> client
	clientsMu sync.RWMutex

	// Event channel for broadcasting
	events chan *Broadcast
	done   chan struct{}
	once   sync.Once
}

// NewGameSession creates a new game session and starts its loops
func NewGameSession(game *domain.Game, settings SessionSettings, logger *slog.Logger) *GameSession {
	if settings.TickHz <= 0 {
		settings.TickHz = DefaultSessionSettings().TickHz
	}
	if settings.BroadcastHz <= 0 || settings.BroadcastHz > settings.TickHz {
		settings.BroadcastHz = settings.TickHz
	}
	if len(settings.Palette) == 0 {
		settings.Palette = DefaultPalette
	}

	now := time.Now()
	session := &GameSession{
		game:         game,
		settings:     settings,
		createdAt:    now,
		logger:       logger.With("roomCode", game.ID),
		inbox:        make(chan command, 64),
		lastActivity: now,
		clients:      make(map[string]ClientConnection),
		events:       make(chan *Broadcast, 256),
		done:         make(chan struct{}),
	}
	session.view = session.buildView()

	go session.run()
	go session.eventLoop()

	return session
}

// GetRoomCode returns the room code
func (s *GameSession) GetRoomCode() string {
	return s.game.ID
}

// GetCreatedAt returns when the table was created
func (s *GameSession) GetCreatedAt() time.Time {
	return s.createdAt
}

// GetLastActivity returns when the last intent was handled
func (s *GameSession) GetLastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

// GetParticipantCount returns the number of participants still in the roster
func (s *GameSession) GetParticipantCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.view.Roster)
}

// GetPhase returns the current game phase
func (s *GameSession) GetPhase() domain.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Phase
}

// GetClientCount returns the number of connected clients
func (s *GameSession) GetClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Palette returns the display colors keyed by participant id
func (s *GameSession) Palette() []string {
	return s.settings.Palette
}

// State returns the latest published frame
func (s *GameSession) State() StateView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// RegisterClient registers a client connection
func (s *GameSession) RegisterClient(clientID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[clientID] = client
}

// UnregisterClient removes a client connection
func (s *GameSession) UnregisterClient(clientID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, clientID)
}

// GetClient returns the client with the given id
func (s *GameSession) GetClient(clientID string) (ClientConnection, bool) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	client, ok := s.clients[clientID]
	return client, ok
}

// Start turns the music on
func (s *GameSession) Start() error {
	return s.send(intentStart)
}

// Stop stops the music
func (s *GameSession) Stop() error {
	return s.send(intentStop)
}

// Toggle presses the music button
func (s *GameSession) Toggle() error {
	return s.send(intentToggle)
}

// Reset restarts the game with everyone back in and every chair present
func (s *GameSession) Reset() error {
	return s.send(intentReset)
}

// send enqueues an intent and waits for the loop to apply it
func (s *GameSession) send(i intent) error {
	reply := make(chan error, 1)

	select {
	case s.inbox <- command{intent: i, reply: reply}:
	case <-s.done:
		return ErrSessionClosed
	}

	select {
	case err := <-reply:
		return err
	case <-s.done:
		return ErrSessionClosed
	}
}

// run is the single owner of the game
func (s *GameSession) run() {
	ticker := time.NewTicker(time.Second / time.Duration(s.settings.TickHz))
	defer ticker.Stop()

	broadcastEvery := s.settings.TickHz / s.settings.BroadcastHz
	last := time.Now()
	ticks := 0

	for {
		select {
		case <-s.done:
			return
		case cmd := <-s.inbox:
			err := s.apply(cmd.intent)
			s.publish(true, true)
			cmd.reply <- err
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if s.game.Phase() == domain.PhaseIdle {
				continue
			}
			before := s.game.Phase()
			s.game.Tick(dt)
			ticks++
			s.publish(ticks%broadcastEvery == 0 || s.game.Phase() != before, false)
		}
	}
}

// apply runs one intent against the game
func (s *GameSession) apply(i intent) error {
	var err error
	switch i {
	case intentStart:
		err = s.game.Start()
	case intentStop:
		err = s.game.RequestStop()
	case intentToggle:
		err = s.game.Toggle()
	case intentReset:
		s.game.Reset()
	}

	if err != nil {
		s.logger.Debug("intent rejected", "intent", i.String(), "phase", s.game.Phase(), "error", err)
	} else {
		s.logger.Info("intent applied", "intent", i.String(), "phase", s.game.Phase())
	}
	return err
}

// publish refreshes the frame readers see, forwards the engine trace and optionally
// broadcasts the new frame.
func (s *GameSession) publish(broadcast, activity bool) {
	view := s.buildView()

	s.mu.Lock()
	s.view = view
	if activity {
		s.lastActivity = time.Now()
	}
	s.mu.Unlock()

	for _, event := range s.game.DrainEvents() {
		s.logTrace(event)
		s.queueEvent(&Broadcast{Type: BroadcastTrace, Payload: event, Timestamp: event.Timestamp})
	}

	if broadcast {
		s.queueEvent(&Broadcast{Type: BroadcastState, Payload: view, Timestamp: time.Now()})
	}
}

func (s *GameSession) buildView() StateView {
	return StateView{
		Snapshot:  s.game.Snapshot(),
		Positions: s.game.Positions(),
	}
}

func (s *GameSession) logTrace(event *domain.GameEvent) {
	switch event.Type {
	case domain.EventResolveFault:
		s.logger.Warn("elimination fault", "round", event.Round, "detail", event.Payload)
	case domain.EventParticipantEliminated, domain.EventGameOver:
		s.logger.Info("game event", "type", event.Type, "round", event.Round, "detail", event.Payload)
	default:
		s.logger.Debug("game event", "type", event.Type, "round", event.Round)
	}
}

// queueEvent adds an update to the broadcast queue
func (s *GameSession) queueEvent(b *Broadcast) {
	select {
	case s.events <- b:
	default:
		s.logger.Warn("event queue full, dropping update", "type", b.Type)
	}
}

// eventLoop processes updates and broadcasts to clients
func (s *GameSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case b := <-s.events:
			s.broadcastEvent(b)
		}
	}
}

// broadcastEvent sends an update to every client
func (s *GameSession) broadcastEvent(b *Broadcast) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for clientID, client := range s.clients {
		if err := client.Send(b); err != nil {
			s.logger.Debug("failed to send to client", "clientID", clientID, "error", err)
		}
	}
}

// Close shuts down the session
func (s *GameSession) Close() {
	s.once.Do(func() {
		close(s.done)

		// Close all client connections
		s.clientsMu.Lock()
		for _, client := range s.clients {
			client.Close()
		}
		s.clients = make(map[string]ClientConnection)
		s.clientsMu.Unlock()
	})
}
