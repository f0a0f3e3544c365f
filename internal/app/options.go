package app

import (
	"chairs/internal/config"
	"chairs/internal/domain"
)

// HubOptionsFromConfig turns application configuration into hub options
func HubOptionsFromConfig(cfg *config.Config) HubOptions {
	game := domain.DefaultGameSettings()
	game.Participants = cfg.Game.Participants
	game.LapDuration = cfg.Game.LapDuration
	game.RemovalDelay = cfg.Game.RemovalDelay
	game.SettleTimeConstant = cfg.Game.SettleTimeConstant
	game.WinnerCount = cfg.Game.WinnerCount
	game.AllowResume = cfg.Game.AllowResume

	return HubOptions{
		Game:   game,
		Policy: cfg.Game.ChairPolicy,
		Seed:   cfg.Game.RandomSeed,
		Session: SessionSettings{
			TickHz:      cfg.Game.TickHz,
			BroadcastHz: cfg.Game.BroadcastHz,
			Palette:     cfg.Presentation.PlayerColors,
		},
		StaleTimeout:   cfg.Game.StaleTableTimeout,
		RoomCodeLength: cfg.Game.RoomCodeLength,
	}
}
