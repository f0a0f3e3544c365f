package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chairs/internal/app"
	"chairs/internal/config"
	"chairs/internal/domain"
	"chairs/internal/sim"
)

func main() {
	// Load configuration; flags override the environment
	cfg := config.Load()

	participants := flag.Int("participants", cfg.Game.Participants, "number of participants")
	policyName := flag.String("policy", cfg.Game.ChairPolicy, "chair policy: priority or random")
	seed := flag.Int64("seed", 1, "seed for music durations and the random policy")
	tickHz := flag.Int("tick-hz", cfg.Game.TickHz, "fixed simulation step rate")
	asJSON := flag.Bool("json", false, "print the summary as JSON")
	flag.Parse()

	logger := cfg.Logging.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	opts := app.HubOptionsFromConfig(cfg)
	opts.Game.Participants = *participants

	policy, err := domain.NewChairPolicy(*policyName, *seed)
	if err != nil {
		logger.Error("invalid chair policy", "policy", *policyName, "error", err)
		os.Exit(2)
	}

	game, err := domain.NewGame("SIM", opts.Game, policy)
	if err != nil {
		logger.Error("invalid game configuration", "error", err)
		os.Exit(2)
	}

	simOpts := sim.DefaultOptions()
	simOpts.Seed = *seed
	if *tickHz > 0 {
		simOpts.Step = time.Second / time.Duration(*tickHz)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("simulating game",
		"participants", opts.Game.Participants,
		"policy", policy.Name(),
		"seed", *seed,
		"step", simOpts.Step,
	)

	summary, err := sim.NewRunner(game, simOpts, logger).Run(ctx)
	if err != nil {
		logger.Error("simulation failed", "error", err, "steps", summary.Steps)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			logger.Error("failed to encode summary", "error", err)
			os.Exit(1)
		}
		return
	}

	logger.Info("simulation finished",
		"rounds", len(summary.Rounds),
		"eliminated", summary.Eliminated,
		"winners", summary.Winners,
		"faults", summary.Faults,
		"simulatedTime", summary.SimulatedTime,
	)
}
