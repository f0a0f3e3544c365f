package domain

import (
	"fmt"
	"math"
	"time"
)

// GameSettings holds configurable game parameters
type GameSettings struct {
	Participants       int           `json:"participants"`
	LapDuration        time.Duration `json:"lapDuration"`        // time for progress to cover NormalizedRange
	RemovalDelay       time.Duration `json:"removalDelay"`       // music time before the round's chair disappears
	SettleTimeConstant time.Duration `json:"settleTimeConstant"` // deceleration time constant while stopping
	SettleMinRate      float64       `json:"settleMinRate"`      // slowest settle speed, progress units per second
	AllowResume        bool          `json:"allowResume"`        // STOPPING -> PLAYING accepted
	WinnerCount        int           `json:"winnerCount"`        // game ends when this many remain
}

// DefaultGameSettings returns the default game settings
func DefaultGameSettings() GameSettings {
	return GameSettings{
		Participants:       ChairCount,
		LapDuration:        3 * time.Second,
		RemovalDelay:       5 * time.Second,
		SettleTimeConstant: 250 * time.Millisecond,
		SettleMinRate:      0.5,
		AllowResume:        false,
		WinnerCount:        1,
	}
}

// Validate checks the settings against the fixed chair layout
func (s GameSettings) Validate() error {
	switch {
	case s.Participants < 1 || s.Participants > ChairCount:
		return fmt.Errorf("%w: participants must be between 1 and %d, got %d", ErrInvalidSettings, ChairCount, s.Participants)
	case s.WinnerCount < 1 || s.WinnerCount >= s.Participants:
		return fmt.Errorf("%w: winner count must be between 1 and %d, got %d", ErrInvalidSettings, s.Participants-1, s.WinnerCount)
	case s.LapDuration <= 0:
		return fmt.Errorf("%w: lap duration must be positive", ErrInvalidSettings)
	case s.RemovalDelay < 0:
		return fmt.Errorf("%w: removal delay must not be negative", ErrInvalidSettings)
	case s.SettleTimeConstant <= 0:
		return fmt.Errorf("%w: settle time constant must be positive", ErrInvalidSettings)
	case s.SettleMinRate <= 0:
		return fmt.Errorf("%w: settle min rate must be positive", ErrInvalidSettings)
	}
	return nil
}

// removalTimer is the one-shot chair removal countdown. epoch changes on every arm and
// on reset so a firing scheduled for an older arm is recognized as stale.
type removalTimer struct {
	armed     bool
	epoch     uint64
	remaining time.Duration
}

// Game is the round engine of one musical chairs table. It is not safe for concurrent
// use; a single owner drives every method.
type Game struct {
	ID       string
	Settings GameSettings

	path   *Path
	table  []int
	policy ChairPolicy

	phase        Phase
	roster       Roster
	participants []*Participant
	eliminated   []int
	chairs       *ChairSet
	pendingChair int
	progress     float64
	settleTarget float64

	round   int
	current *RoundResult
	history []*RoundResult
	over    bool

	timer  removalTimer
	events []*GameEvent
}

// NewGame creates a game in IDLE with the full roster and every chair present.
// A nil policy uses the bottom-up priority order.
func NewGame(id string, settings GameSettings, policy ChairPolicy) (*Game, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if policy == nil {
		policy = NewPriorityPolicy()
	}

	g := &Game{
		ID:       id,
		Settings: settings,
		path:     DefaultPath(),
		table:    PathToChair[:],
		policy:   policy,
		chairs:   NewChairSet(),
	}
	g.reset()

	return g, nil
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// Progress returns the progress scalar in normalized units
func (g *Game) Progress() float64 {
	return g.progress
}

// Roster returns a copy of the active roster in order
func (g *Game) Roster() Roster {
	return g.roster.Clone()
}

// Round returns the number of the round in play
func (g *Game) Round() int {
	return g.round
}

// PendingChair returns the chair removed this round and not yet resolved, or NoChair
func (g *Game) PendingChair() int {
	return g.pendingChair
}

// Path returns the path the participants walk
func (g *Game) Path() *Path {
	return g.path
}

// Policy returns the chair removal policy
func (g *Game) Policy() ChairPolicy {
	return g.policy
}

// IsOver returns true once the stopping criteria are met
func (g *Game) IsOver() bool {
	return g.over
}

// Winners returns the remaining roster once the game is over
func (g *Game) Winners() []int {
	if !g.over {
		return nil
	}
	return g.roster.Clone()
}

// RemovalTimer reports the removal countdown: the epoch to present when firing it,
// the time left and whether it is armed.
func (g *Game) RemovalTimer() (epoch uint64, remaining time.Duration, armed bool) {
	return g.timer.epoch, g.timer.remaining, g.timer.armed
}

// Start turns the music on
func (g *Game) Start() error {
	if g.over {
		return ErrGameOver
	}
	if g.phase != PhaseIdle {
		return ErrInvalidTransition
	}

	g.phase = PhasePlaying
	if g.current == nil {
		g.current = NewRound(g.round)
	}
	g.armRemoval()
	g.emit(EventMusicStarted, nil)

	return nil
}

// RequestStop stops the music. Motion decelerates onto the next integer slot and the
// round resolves when it gets there.
func (g *Game) RequestStop() error {
	if !g.phase.CanTransitionTo(PhaseStopping, g.Settings.AllowResume) {
		return ErrInvalidTransition
	}

	g.phase = PhaseStopping
	g.disarmRemoval()
	g.settleTarget = g.path.SettleTarget(g.progress)
	g.emit(EventMusicStopped, &MusicStoppedPayload{
		Progress:     g.progress,
		SettleTarget: g.settleTarget,
		SettledSlot:  g.path.SettledSlot(g.progress),
	})

	return nil
}

// Resume turns the music back on while the tokens are still settling
func (g *Game) Resume() error {
	if g.phase != PhaseStopping || !g.phase.CanTransitionTo(PhasePlaying, g.Settings.AllowResume) {
		return ErrInvalidTransition
	}

	g.phase = PhasePlaying
	g.settleTarget = 0
	g.armRemoval()
	g.emit(EventMusicResumed, nil)

	return nil
}

// Toggle is the single music button: start from IDLE, stop from PLAYING and resume
// from STOPPING when resuming is allowed.
func (g *Game) Toggle() error {
	switch g.phase {
	case PhaseIdle:
		return g.Start()
	case PhasePlaying:
		return g.RequestStop()
	case PhaseStopping:
		return g.Resume()
	}
	return ErrInvalidTransition
}

// Reset restores the full roster and every chair and returns to IDLE. Valid from any phase.
func (g *Game) Reset() {
	g.reset()
	g.emit(EventGameReset, nil)
}

func (g *Game) reset() {
	n := g.Settings.Participants

	g.phase = PhaseIdle
	g.roster = FullRoster(n)
	g.participants = make([]*Participant, n)
	for i := range g.participants {
		g.participants[i] = NewParticipant(i)
	}
	g.eliminated = make([]int, 0, n)
	g.chairs.Restore()
	g.pendingChair = NoChair
	g.progress = 0
	g.settleTarget = 0
	g.round = 1
	g.current = nil
	g.history = make([]*RoundResult, 0)
	g.over = false

	g.timer.armed = false
	g.timer.remaining = 0
	g.timer.epoch++
}

// Tick advances the simulation by dt. While PLAYING progress moves at one lap per
// LapDuration and the removal countdown runs; while STOPPING progress decelerates onto
// the settle target and the round resolves on arrival.
func (g *Game) Tick(dt time.Duration) {
	if dt <= 0 {
		return
	}

	switch g.phase {
	case PhasePlaying:
		rate := NormalizedRange / g.Settings.LapDuration.Seconds()
		g.progress = floorMod(g.progress+rate*dt.Seconds(), NormalizedRange)

		if g.timer.armed {
			g.timer.remaining -= dt
			if g.timer.remaining <= 0 {
				g.OnRemovalTimerFired(g.timer.epoch)
			}
		}
	case PhaseStopping:
		remaining := g.settleTarget - g.progress
		step := remaining * (1 - math.Exp(-dt.Seconds()/g.Settings.SettleTimeConstant.Seconds()))
		if floor := g.Settings.SettleMinRate * dt.Seconds(); step < floor {
			step = floor
		}
		if step >= remaining {
			_ = g.ResolveStop()
			return
		}
		g.progress += step
	}
}

// OnRemovalTimerFired removes this round's chair. The firing is ignored unless the
// music is playing, the timer is armed under the given epoch and no chair is pending.
// It returns true if a chair was removed.
func (g *Game) OnRemovalTimerFired(epoch uint64) bool {
	if g.phase != PhasePlaying || !g.timer.armed || epoch != g.timer.epoch || g.pendingChair != NoChair {
		return false
	}
	g.timer.armed = false

	available := g.chairs.Available()
	if len(available) == 0 {
		return false
	}

	chair := g.policy.Pick(available)
	if !g.chairs.Remove(chair) {
		return false
	}
	g.pendingChair = chair
	g.current.RemovedChair = chair

	g.emit(EventChairRemoved, &ChairRemovedPayload{
		Chair:     chair,
		Policy:    g.policy.Name(),
		Remaining: g.chairs.PresentCount(),
	})

	return true
}

// ResolveStop completes the settle: progress snaps onto the target slot, the participant
// on the missing chair (if any) is eliminated and the phase returns to IDLE.
func (g *Game) ResolveStop() error {
	if g.phase != PhaseStopping {
		return ErrInvalidTransition
	}

	g.progress = floorMod(g.settleTarget, NormalizedRange)
	g.settleTarget = 0
	settled := g.path.SettledSlot(g.progress)

	if g.pendingChair != NoChair && len(g.roster) > 0 {
		g.resolveRound(settled)
	}

	g.phase = PhaseIdle
	g.checkGameOver()

	return nil
}

// resolveRound runs the resolver once for the round and closes it
func (g *Game) resolveRound(settled int) {
	g.emit(EventSlotSettled, &SlotSettledPayload{
		SettledSlot:  settled,
		PendingChair: g.pendingChair,
		Seats:        Seats(settled, g.roster, g.table),
	})

	g.current.SettledSlot = settled

	res, err := Resolve(settled, g.roster, g.table, g.pendingChair)
	if err != nil {
		// Roster integrity wins: nobody is removed.
		g.current.Fault = true
		g.emit(EventResolveFault, &ResolveFaultPayload{
			SettledSlot:  settled,
			MissingChair: g.pendingChair,
			Roster:       g.roster.Clone(),
			Reason:       err.Error(),
		})
	} else {
		g.roster = g.roster.RemoveAt(res.OrderIndex)
		g.eliminated = append(g.eliminated, res.Participant)
		g.participants[res.Participant].Eliminate(g.round)
		g.current.Eliminated = res.Participant
		g.emit(EventParticipantEliminated, &EliminationPayload{
			Resolution: res,
			Remaining:  len(g.roster),
		})
	}

	g.pendingChair = NoChair
	g.current.EndedAt = time.Now()
	g.history = append(g.history, g.current)
	g.emit(EventRoundEnded, g.current)

	g.current = nil
	g.round++
}

func (g *Game) checkGameOver() {
	if g.over {
		return
	}

	var reason string
	switch {
	case len(g.roster) <= g.Settings.WinnerCount:
		reason = "winner count reached"
	case g.chairs.PresentCount() == 0:
		reason = "no chairs left"
	default:
		return
	}

	g.over = true
	g.emit(EventGameOver, &GameOverPayload{
		Winners: g.roster.Clone(),
		Reason:  reason,
	})
}

func (g *Game) armRemoval() {
	if g.pendingChair != NoChair || g.timer.armed {
		return
	}
	g.timer.epoch++
	g.timer.armed = true
	g.timer.remaining = g.Settings.RemovalDelay
}

func (g *Game) disarmRemoval() {
	g.timer.armed = false
	g.timer.remaining = 0
}

func (g *Game) emit(eventType EventType, payload interface{}) {
	g.events = append(g.events, NewEvent(eventType, g.ID, g.round, payload))
}

// DrainEvents returns the trace recorded since the last call and clears it
func (g *Game) DrainEvents() []*GameEvent {
	events := g.events
	g.events = nil
	return events
}
