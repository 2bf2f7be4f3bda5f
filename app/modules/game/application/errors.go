package gameservice

import "errors"

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrUnknownTeam    = errors.New("team is not in the playoff field")
	ErrInvalidRoster  = errors.New("invalid game roster")
	ErrInvalidKickoff = errors.New("invalid kickoff time")
)
