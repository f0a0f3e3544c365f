package domain

import "errors"

// Domain errors
var (
	ErrInvalidTransition  = errors.New("invalid phase transition")
	ErrGameOver           = errors.New("game is over")
	ErrNoEliminationMatch = errors.New("no participant settled on the missing chair")
	ErrInvalidSettings    = errors.New("invalid game settings")
	ErrUnknownPolicy      = errors.New("unknown chair policy")
	ErrNoChairAvailable   = errors.New("no chair available to remove")
)
