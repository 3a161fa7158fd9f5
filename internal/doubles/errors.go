package doubles

import "errors"

var (
	ErrInsufficientPlayers   = errors.New("at least 4 players are required")
	ErrInsufficientGenderMix = errors.New("mixed-gender scheduling needs at least 2 male and 2 female players")
	ErrInvalidOptions        = errors.New("invalid scheduling options")
)
