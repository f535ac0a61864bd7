package session

import (
	"fmt"
	"time"

	"github.com/UTDS16/battleship/framework/protocol"
)

// ServerEntry is one line of the lobby list.
type ServerEntry struct {
	UUID       string    `json:"uuid"`
	Name       string    `json:"name"`
	BoardSize  [2]int    `json:"boardsize"`
	NumPlayers [2]int    `json:"num_players"`
	Live       bool      `json:"live"`
	LastSeen   time.Time `json:"last_seen,omitempty"`
}

func (e ServerEntry) String() string {
	return fmt.Sprintf("%s (%dx%d, %d/%d)", e.Name, e.BoardSize[0], e.BoardSize[1], e.NumPlayers[0], e.NumPlayers[1])
}

// serverTable keeps announces keyed by uuid in first-seen order.
type serverTable struct {
	order   []string
	entries map[string]protocol.Announce
}

func newServerTable() *serverTable {
	return &serverTable{entries: make(map[string]protocol.Announce)}
}

// upsert replaces the payload of a known server in place.
func (t *serverTable) upsert(a protocol.Announce) {
	if _, ok := t.entries[a.UUID]; !ok {
		t.order = append(t.order, a.UUID)
	}
	t.entries[a.UUID] = a
}

func (t *serverTable) get(uuid string) (protocol.Announce, bool) {
	a, ok := t.entries[uuid]
	return a, ok
}

func (t *serverTable) list() []protocol.Announce {
	out := make([]protocol.Announce, 0, len(t.order))
	for _, uuid := range t.order {
		out = append(out, t.entries[uuid])
	}
	return out
}
