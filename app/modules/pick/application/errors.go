package pickservice

import "errors"

var (
	ErrUnknownPlayer = errors.New("player is not on the league roster")
	ErrGameNotFound  = errors.New("game not found")
	ErrInvalidTeam   = errors.New("team is not playing in this game")
	ErrPickLocked    = errors.New("picks are locked once the game kicks off")
	ErrNotPickOwner  = errors.New("only the pick owner or an admin can change this pick")
)
