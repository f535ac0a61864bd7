package game

import (
	"fmt"
	"sync"
	"time"
)

// Member is one accepted roster entry.
type Member struct {
	UUID     string `json:"uuid"`
	Nickname string `json:"nickname"`
}

// Room is the roster of a hosted game and the parameters it was created with.
type Room struct {
	Name        string
	MaxPlayers  int
	BoardWidth  int
	BoardHeight int
	CreatedAt   time.Time

	members []Member
	mu      sync.RWMutex
}

func NewRoom(name string, maxPlayers, boardWidth, boardHeight int) *Room {
	return &Room{
		Name:        name,
		MaxPlayers:  maxPlayers,
		BoardWidth:  boardWidth,
		BoardHeight: boardHeight,
		CreatedAt:   time.Now(),
		members:     make([]Member, 0, maxPlayers),
	}
}

// AddPlayer appends a member after the capacity, uuid and nickname checks.
// The roster is unchanged when an error is returned.
func (r *Room) AddPlayer(uuid, nickname string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.members) >= r.MaxPlayers {
		return fmt.Errorf("%d/%d players: %w", len(r.members), r.MaxPlayers, ErrRoomFull)
	}

	for _, m := range r.members {
		if m.UUID == uuid {
			return fmt.Errorf("%s: %w", uuid, ErrUUIDCollision)
		}
		if m.Nickname == nickname {
			return fmt.Errorf("%s: %w", nickname, ErrNicknameCollision)
		}
	}

	r.members = append(r.members, Member{UUID: uuid, Nickname: nickname})
	return nil
}

// Players returns a copy of the roster in join order.
func (r *Room) Players() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Member, len(r.members))
	copy(out, r.members)
	return out
}

func (r *Room) NumPlayers() (current, limit int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members), r.MaxPlayers
}

func (r *Room) IsFull() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members) >= r.MaxPlayers
}
