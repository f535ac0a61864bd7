package session

import (
	"time"

	"github.com/UTDS16/battleship/framework/game"
	"github.com/UTDS16/battleship/framework/game/board"
)

// Snapshot is an immutable copy of the session for readers outside the loop.
type Snapshot struct {
	UUID      string         `json:"uuid"`
	Nickname  string         `json:"nickname"`
	State     string         `json:"state"`
	Hosting   bool           `json:"hosting"`
	Target    string         `json:"target,omitempty"`
	Game      GameParams     `json:"game"`
	Servers   []ServerEntry  `json:"servers"`
	Roster    []game.Member  `json:"roster"`
	Phase     string         `json:"phase,omitempty"`
	Ship      string         `json:"ship,omitempty"`
	Cursor    *board.Point   `json:"cursor,omitempty"`
	Crosshair *board.Point   `json:"crosshair,omitempty"`
	Rotation  string         `json:"rotation,omitempty"`
	Preview   []board.Point  `json:"preview,omitempty"`
	PreviewPx *board.Rect    `json:"preview_px,omitempty"`
	Own       [][]board.Tile `json:"-"`
	Their     [][]board.Tile `json:"-"`
	LastError string         `json:"last_error,omitempty"`
	Stats     Stats          `json:"stats"`
	TakenAt   time.Time      `json:"taken_at"`
}

// InGame reports whether the snapshot carries a board.
func (s *Snapshot) InGame() bool {
	return s.Own != nil
}

// Rows renders a grid as one glyph string per row.
func Rows(grid [][]board.Tile) []string {
	out := make([]string, len(grid))
	for y, row := range grid {
		line := make([]byte, 0, len(row))
		for _, tile := range row {
			line = append(line, tile.String()...)
		}
		out[y] = string(line)
	}
	return out
}

func (s *Session) Snapshot() *Snapshot {
	snap := &Snapshot{
		UUID:     s.uuid,
		Nickname: s.nickname,
		State:    s.state.String(),
		Hosting:  s.hosting,
		Target:   s.target,
		Game:     s.params,
		Servers:  s.KnownServers(),
		Roster:   s.Roster(),
		Stats:    s.stats,
		TakenAt:  s.now(),
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	if s.board == nil {
		return snap
	}

	snap.Own, snap.Their = s.board.Render()
	snap.Rotation = s.board.CursorOrientation().String()
	if p, ok := s.board.Cursor(); ok {
		snap.Cursor = &p
	}
	if p, ok := s.board.Crosshair(); ok {
		snap.Crosshair = &p
	}
	snap.Phase = s.player.Phase().String()
	if ship := s.player.CurrentShip(); ship != nil {
		snap.Ship = ship.Name()
		preview := board.NewShip(ship.Index())
		if rect, ok := s.board.PreviewRect(preview); ok {
			snap.Preview = preview.OccupiedCells()
			snap.PreviewPx = &rect
		}
	}
	return snap
}
