package board

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard_GridsAreIndependent(t *testing.T) {
	a := NewBoard(4, 3, nil)
	b := NewBoard(4, 3, nil)

	a.SetOwnTile(1, 1, BombedTile())
	assert.Equal(t, Water, b.GetOwnTile(1, 1).Kind())
	assert.Equal(t, Void, a.GetTheirTile(1, 1).Kind())

	ours, theirs := a.Render()
	ours[0][0] = BombedTile()
	theirs[0][0] = BombedTile()
	assert.Equal(t, Water, a.GetOwnTile(0, 0).Kind())
	assert.Equal(t, Void, a.GetTheirTile(0, 0).Kind())

	// rows must not alias each other either
	a.SetOwnTile(0, 0, BombedTile())
	assert.Equal(t, Water, a.GetOwnTile(0, 1).Kind())
}

func TestBoard_OutOfRange(t *testing.T) {
	b := NewBoard(10, 10, nil)

	for _, p := range []Point{{-1, 0}, {0, -1}, {10, 0}, {0, 10}, {42, 42}} {
		assert.Equal(t, Void, b.GetOwnTile(p.X, p.Y).Kind(), "read at %v", p)
		assert.NotPanics(t, func() { b.SetOwnTile(p.X, p.Y, BombedTile()) })
	}
	ours, _ := b.Render()
	for y := range ours {
		for x := range ours[y] {
			require.Equal(t, Water, ours[y][x].Kind())
		}
	}
}

func TestPlaceShip_HorizontalCarrierScenario(t *testing.T) {
	b := NewBoard(10, 10, nil)
	carrier := NewShip(0)

	require.NoError(t, b.PlaceShip(carrier, 2, 2, Horizontal))

	for x := 2; x <= 6; x++ {
		tile := b.GetOwnTile(x, 2)
		assert.Equal(t, ShipBody, tile.Kind(), "(%d,2)", x)
		assert.Equal(t, 0, tile.Index())
	}
	for y := 1; y <= 3; y++ {
		assert.Equal(t, OccupiedClearance, b.GetOwnTile(1, y).Kind(), "(1,%d)", y)
		assert.Equal(t, OccupiedClearance, b.GetOwnTile(7, y).Kind(), "(7,%d)", y)
	}
	for x := 2; x <= 6; x++ {
		assert.Equal(t, OccupiedClearance, b.GetOwnTile(x, 1).Kind(), "(%d,1)", x)
		assert.Equal(t, OccupiedClearance, b.GetOwnTile(x, 3).Kind(), "(%d,3)", x)
	}
	// outside the ring stays open
	assert.True(t, b.GetOwnTile(0, 2).IsFree())
	assert.True(t, b.GetOwnTile(8, 2).IsFree())
	assert.True(t, b.GetOwnTile(4, 4).IsFree())

	err := b.PlaceShip(NewShip(4), 1, 1, Horizontal)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCellOccupied))
	assert.Len(t, b.Ships(), 1)
}

func TestPlaceShip_VerticalClearance(t *testing.T) {
	b := NewBoard(10, 10, nil)
	require.NoError(t, b.PlaceShip(NewShip(4), 5, 5, Vertical))

	assert.Equal(t, ShipBody, b.GetOwnTile(5, 5).Kind())
	assert.Equal(t, ShipBody, b.GetOwnTile(5, 6).Kind())

	ring := []Point{
		{4, 4}, {5, 4}, {6, 4},
		{4, 5}, {6, 5},
		{4, 6}, {6, 6},
		{4, 7}, {5, 7}, {6, 7},
	}
	for _, p := range ring {
		assert.Equal(t, OccupiedClearance, b.GetOwnTile(p.X, p.Y).Kind(), "%v", p)
	}
}

func TestPlaceShip_AtEdgeSpillsSilently(t *testing.T) {
	b := NewBoard(5, 5, nil)
	require.NoError(t, b.PlaceShip(NewShip(1), 1, 0, Horizontal))
	require.NoError(t, b.PlaceShip(NewShip(4), 4, 3, Vertical))

	assert.Equal(t, OccupiedClearance, b.GetOwnTile(0, 0).Kind())
	assert.Equal(t, OccupiedClearance, b.GetOwnTile(1, 1).Kind())
	assert.Equal(t, OccupiedClearance, b.GetOwnTile(3, 2).Kind())
	assert.Equal(t, ShipBody, b.GetOwnTile(4, 4).Kind())
}

func TestPlaceShip_IsAtomic(t *testing.T) {
	b := NewBoard(10, 10, nil)
	require.NoError(t, b.PlaceShip(NewShip(0), 2, 2, Horizontal))
	before, _ := b.Render()

	cases := []struct {
		name        string
		ship        *Ship
		x, y        int
		orientation Orientation
	}{
		{"overlaps body", NewShip(1), 4, 0, Vertical},
		{"touches clearance", NewShip(2), 0, 3, Horizontal},
		{"runs off the board", NewShip(3), 8, 7, Horizontal},
		{"starts off the board", NewShip(4), -1, 8, Horizontal},
		{"invalid ship", NewShip(9), 0, 8, Horizontal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := b.PlaceShip(c.ship, c.x, c.y, c.orientation)
			require.ErrorIs(t, err, ErrCellOccupied)
			after, _ := b.Render()
			require.Equal(t, before, after)
			require.False(t, c.ship.IsPlaced())
			require.Len(t, b.Ships(), 1)
		})
	}
}

func TestPlaceShip_FleetNeverTouches(t *testing.T) {
	b := NewBoard(10, 10, nil)
	origins := []Point{{0, 0}, {0, 2}, {0, 4}, {0, 6}, {0, 8}}
	for i, o := range origins {
		require.NoError(t, b.PlaceShip(NewShip(i), o.X, o.Y, Horizontal))
	}
	// every row between two ships is pure clearance
	for _, y := range []int{1, 3, 5, 7} {
		for x := 0; x < 4; x++ {
			require.Equal(t, OccupiedClearance, b.GetOwnTile(x, y).Kind(), "(%d,%d)", x, y)
		}
	}

	ships := b.Ships()
	require.Len(t, ships, FleetSize)
	for i, a := range ships {
		blocked := map[Point]bool{}
		for _, c := range a.OccupiedCells() {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					blocked[Point{c.X + dx, c.Y + dy}] = true
				}
			}
		}
		for j, other := range ships {
			if i == j {
				continue
			}
			for _, c := range other.OccupiedCells() {
				assert.False(t, blocked[c], "%s touches %s at %v", other.Name(), a.Name(), c)
			}
		}
		for _, c := range a.OccupiedCells() {
			tile := b.GetOwnTile(c.X, c.Y)
			assert.Equal(t, ShipBody, tile.Kind())
			assert.Equal(t, a.Index(), tile.Index())
		}
	}

	// diagonal neighbour of the destroyer's tail
	require.ErrorIs(t, b.PlaceShip(NewShip(4), 2, 9, Horizontal), ErrCellOccupied)
}

type stubPlacer struct {
	placing bool
	index   int
	ship    *Ship
}

func (p *stubPlacer) IsPlacingShips() bool { return p.placing }
func (p *stubPlacer) CurrentShip() *Ship { return p.ship }
func (p *stubPlacer) NextShip() *Ship {
	p.index++
	p.ship = NewShip(p.index)
	if !p.ship.IsValid() {
		p.placing = false
		p.ship = nil
	}
	return p.ship
}

func TestConfirmPlacementAt(t *testing.T) {
	b := NewBoard(10, 10, nil)
	p := &stubPlacer{placing: true, ship: NewShip(0)}

	require.NoError(t, b.ConfirmPlacementAt(p, Point{0, 0}))
	assert.Equal(t, 1, p.index)

	// the battleship would sit on the carrier's clearance ring
	err := b.ConfirmPlacementAt(p, Point{0, 1})
	require.ErrorIs(t, err, ErrCellOccupied)
	assert.Equal(t, 1, p.index)

	b.RotateCursor()
	require.NoError(t, b.ConfirmPlacementAt(p, Point{9, 2}))
	ships := b.Ships()
	require.Len(t, ships, 2)
	assert.Equal(t, Vertical, ships[1].Orientation())
}

func TestUpdateCursor(t *testing.T) {
	b := NewBoard(10, 10, nil)
	carrier := NewShip(0)

	b.UpdateCursor(carrier, Point{X: 5*TileSize + 3, Y: 4 * TileSize})
	pos, ok := b.Cursor()
	require.True(t, ok)
	assert.Equal(t, Point{3, 4}, pos)

	// clamps to the left edge
	b.UpdateCursor(carrier, Point{X: 1, Y: 0})
	pos, ok = b.Cursor()
	require.True(t, ok)
	assert.Equal(t, Point{0, 0}, pos)

	// clamps to the right edge
	b.UpdateCursor(carrier, Point{X: 9 * TileSize, Y: 9 * TileSize})
	pos, ok = b.Cursor()
	require.True(t, ok)
	assert.Equal(t, Point{5, 9}, pos)

	// below the grid
	b.UpdateCursor(carrier, Point{X: 0, Y: 10 * TileSize})
	_, ok = b.Cursor()
	assert.False(t, ok)

	// pixels above the grid floor to row -1
	b.UpdateCursor(carrier, Point{X: 0, Y: -5})
	_, ok = b.Cursor()
	assert.False(t, ok)

	b.RotateCursor()
	b.UpdateCursor(carrier, Point{X: 2 * TileSize, Y: 9 * TileSize})
	pos, ok = b.Cursor()
	require.True(t, ok)
	assert.Equal(t, Point{2, 5}, pos)

	b.UpdateCursor(carrier, Point{X: 12 * TileSize, Y: 0})
	_, ok = b.Cursor()
	assert.False(t, ok)
}

func TestUpdateCursor_ShipLongerThanBoard(t *testing.T) {
	b := NewBoard(3, 3, nil)
	b.UpdateCursor(NewShip(0), Point{X: 32, Y: 32})
	_, ok := b.Cursor()
	assert.False(t, ok)

	b.RotateCursor()
	b.UpdateCursor(NewShip(0), Point{X: 32, Y: 32})
	_, ok = b.Cursor()
	assert.False(t, ok)

	// a ship exactly as long as the board snaps to the edge
	wide := NewBoard(5, 7, nil)
	wide.UpdateCursor(NewShip(0), Point{X: 4 * TileSize, Y: 0})
	pos, ok := wide.Cursor()
	require.True(t, ok)
	assert.Equal(t, Point{0, 0}, pos)

	tall := NewBoard(2, 5, nil)
	tall.RotateCursor()
	tall.UpdateCursor(NewShip(0), Point{X: TileSize, Y: 4 * TileSize})
	pos, ok = tall.Cursor()
	require.True(t, ok)
	assert.Equal(t, Point{1, 0}, pos)
}

func TestPreviewRect(t *testing.T) {
	b := NewBoard(10, 10, nil)
	ship := NewShip(1)

	_, ok := b.PreviewRect(ship)
	assert.False(t, ok)

	b.UpdateCursor(ship, Point{X: 4 * TileSize, Y: 0})
	rect, ok := b.PreviewRect(ship)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 2 * TileSize, Y: 0, W: 4 * TileSize, H: TileSize}, rect)
	assert.Empty(t, b.Ships())
}

func TestUpdateCrosshair(t *testing.T) {
	b := NewBoard(10, 10, nil)

	_, ok := b.Crosshair()
	assert.False(t, ok)

	b.UpdateCrosshair(Point{X: 13 * TileSize, Y: 4 * TileSize})
	pos, ok := b.Crosshair()
	require.True(t, ok)
	assert.Equal(t, Point{2, 4}, pos)

	b.UpdateCrosshair(Point{X: 0, Y: -40})
	pos, _ = b.Crosshair()
	assert.Equal(t, Point{0, 0}, pos)

	b.UpdateCrosshair(Point{X: 40 * TileSize, Y: 40 * TileSize})
	pos, _ = b.Crosshair()
	assert.Equal(t, Point{9, 9}, pos)
}

func TestBoard_String(t *testing.T) {
	b := NewBoard(3, 2, nil)
	require.NoError(t, b.PlaceShip(NewShip(4), 0, 0, Horizontal))
	out := b.String()
	assert.Contains(t, out, "E")
	assert.Contains(t, out, ":")
	assert.Contains(t, out, "|")
}
