package session

import "errors"

var (
	ErrUnknownServer = errors.New("session: unknown server")
	ErrInvalidParams = errors.New("session: invalid game parameters")
	ErrNotInGame     = errors.New("session: no game in progress")
)
