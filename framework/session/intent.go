package session

import "github.com/UTDS16/battleship/framework/game/board"

// Intent is a discrete local input applied by the loop once per tick.
type Intent interface {
	isIntent()
}

type (
	RotateCursor struct{}

	// MovePointer follows the pointer in pixels: the placement preview while
	// placing, the crosshair afterwards.
	MovePointer struct {
		Pos board.Point
	}

	Aim struct {
		Pos board.Point
	}

	ConfirmPlacement struct {
		Cell board.Point
	}

	OpenCreate struct{}

	CreateGame struct {
		Params GameParams
	}

	JoinGame struct {
		Target   string
		Nickname string
	}

	CancelToLobby struct{}
)

func (RotateCursor) isIntent()     {}
func (MovePointer) isIntent()      {}
func (Aim) isIntent()              {}
func (ConfirmPlacement) isIntent() {}
func (OpenCreate) isIntent()       {}
func (CreateGame) isIntent()       {}
func (JoinGame) isIntent()         {}
func (CancelToLobby) isIntent()    {}
