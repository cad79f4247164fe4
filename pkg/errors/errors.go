package errors

import "errors"

var (
	ErrInvalidSimulationConfig = errors.New("invalid simulation config")
	ErrInvalidMode             = errors.New("invalid simulation mode")
	ErrInvalidPlayers          = errors.New("invalid player count")

	ErrInvalidHandLength = errors.New("invalid hand length")
	ErrInvalidRank       = errors.New("invalid rank character")

	ErrOddsNotFound = errors.New("odds not found")
	ErrEmptyResult  = errors.New("simulation result is empty")
)
