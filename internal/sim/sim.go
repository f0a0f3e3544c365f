// Package sim drives a game headlessly with fixed-step ticks. It plays the role of the
// person at the music button: start, let the music run, stop, wait for the settle.
package sim

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"chairs/internal/domain"
)

// ErrStepLimit is returned when a game does not finish within the step budget
var ErrStepLimit = errors.New("simulation step limit reached")

// Options configures a simulation run
type Options struct {
	Step     time.Duration // fixed tick length
	Seed     int64         // drives how long the music plays each round
	MaxSteps int           // safety cap over the whole game
}

// DefaultOptions returns a 60 Hz run
func DefaultOptions() Options {
	return Options{
		Step:     time.Second / 60,
		Seed:     1,
		MaxSteps: 1_000_000,
	}
}

// Summary is the outcome of a simulated game
type Summary struct {
	Rounds        []domain.RoundResult `json:"rounds"`
	Winners       []int                `json:"winners"`
	Eliminated    []int                `json:"eliminated"`
	Faults        int                  `json:"faults"`
	Steps         int                  `json:"steps"`
	SimulatedTime time.Duration        `json:"simulatedTime"`
}

// Runner plays one game to the end
type Runner struct {
	game   *domain.Game
	opts   Options
	rng    *rand.Rand
	logger *slog.Logger
	steps  int
}

// NewRunner creates a runner for the given game
func NewRunner(game *domain.Game, opts Options, logger *slog.Logger) *Runner {
	if opts.Step <= 0 {
		opts.Step = DefaultOptions().Step
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultOptions().MaxSteps
	}

	return &Runner{
		game:   game,
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		logger: logger.With("gameID", game.ID),
	}
}

// Run plays rounds until the game is over
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	for !r.game.IsOver() {
		if err := ctx.Err(); err != nil {
			return r.summary(), err
		}
		if err := r.playRound(ctx); err != nil {
			return r.summary(), err
		}
	}

	r.logger.Info("game over", "winners", r.game.Winners(), "steps", r.steps)
	return r.summary(), nil
}

// playRound starts the music, lets it run past the chair removal by a random part of a
// lap, stops it and waits for the tokens to settle.
func (r *Runner) playRound(ctx context.Context) error {
	if err := r.game.Start(); err != nil {
		return err
	}
	r.flush()

	settings := r.game.Settings
	music := settings.RemovalDelay + time.Duration(r.rng.Int63n(int64(settings.LapDuration)))

	for elapsed := time.Duration(0); elapsed < music; elapsed += r.opts.Step {
		if err := r.step(ctx); err != nil {
			return err
		}
	}

	if err := r.game.RequestStop(); err != nil {
		return err
	}
	r.flush()

	for r.game.Phase() != domain.PhaseIdle {
		if err := r.step(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) step(ctx context.Context) error {
	if r.steps >= r.opts.MaxSteps {
		return ErrStepLimit
	}
	if r.steps%1000 == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	r.game.Tick(r.opts.Step)
	r.steps++
	r.flush()

	return nil
}

// flush logs the trace the engine recorded since the last step
func (r *Runner) flush() {
	for _, event := range r.game.DrainEvents() {
		level := slog.LevelDebug
		switch event.Type {
		case domain.EventResolveFault:
			level = slog.LevelWarn
		case domain.EventChairRemoved, domain.EventParticipantEliminated, domain.EventRoundEnded, domain.EventGameOver:
			level = slog.LevelInfo
		}
		r.logger.Log(context.Background(), level, "trace",
			"type", event.Type,
			"round", event.Round,
			"step", r.steps,
			"detail", event.Payload,
		)
	}
}

func (r *Runner) summary() *Summary {
	snap := r.game.Snapshot()

	faults := 0
	for _, round := range snap.History {
		if round.Fault {
			faults++
		}
	}

	return &Summary{
		Rounds:        snap.History,
		Winners:       snap.Winners,
		Eliminated:    snap.Eliminated,
		Faults:        faults,
		Steps:         r.steps,
		SimulatedTime: time.Duration(r.steps) * r.opts.Step,
	}
}
