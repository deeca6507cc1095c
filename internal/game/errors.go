package game

import "errors"

var (
	ErrGameFull     = errors.New("game is full")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrInvalidMove  = errors.New("invalid move")
	ErrGameFinished = errors.New("game already finished")
)
