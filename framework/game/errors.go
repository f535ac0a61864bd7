package game

import "errors"

// join arbitration
var (
	ErrRoomFull          = errors.New("room is full")
	ErrUUIDCollision     = errors.New("uuid already in game")
	ErrNicknameCollision = errors.New("nickname already taken")
)
