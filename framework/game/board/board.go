package board

import (
	"errors"
	"fmt"

	"github.com/UTDS16/battleship/common/log"
)

var ErrCellOccupied = errors.New("cell occupied")

// Placer is the placement progress a board advances on a confirmed placement.
type Placer interface {
	IsPlacingShips() bool
	CurrentShip() *Ship
	NextShip() *Ship
}

// Board holds our waters, the observed foreign waters and our placed fleet.
type Board struct {
	width  int
	height int
	ours   [][]Tile
	theirs [][]Tile
	ships  []*Ship

	cursor      *Point
	orientation Orientation
	crosshair   *Point

	logger *log.Logger
}

func NewBoard(width, height int, logger *log.Logger) *Board {
	if logger == nil {
		logger = log.Discard()
	}
	return &Board{
		width:       width,
		height:      height,
		ours:        newGrid(width, height, WaterTile()),
		theirs:      newGrid(width, height, VoidTile()),
		ships:       make([]*Ship, 0, FleetSize),
		orientation: Horizontal,
		logger:      logger,
	}
}

// newGrid allocates every row separately so no two grids share storage.
func newGrid(width, height int, fill Tile) [][]Tile {
	grid := make([][]Tile, height)
	for y := 0; y < height; y++ {
		grid[y] = make([]Tile, width)
		for x := 0; x < width; x++ {
			grid[y][x] = fill
		}
	}
	return grid
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

func (b *Board) inside(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Board) GetOwnTile(x, y int) Tile {
	if !b.inside(x, y) {
		return VoidTile()
	}
	return b.ours[y][x]
}

// SetOwnTile ignores coordinates off the board; clearance marking relies on that at the edges.
func (b *Board) SetOwnTile(x, y int, tile Tile) {
	if b.inside(x, y) {
		b.ours[y][x] = tile
	}
}

func (b *Board) GetTheirTile(x, y int) Tile {
	if !b.inside(x, y) {
		return VoidTile()
	}
	return b.theirs[y][x]
}

func (b *Board) SetTheirTile(x, y int, tile Tile) {
	if b.inside(x, y) {
		b.theirs[y][x] = tile
	}
}

// PlaceShip validates the whole footprint before touching the grid,
// so a failed placement leaves the board exactly as it was.
func (b *Board) PlaceShip(ship *Ship, x, y int, orientation Orientation) error {
	if !ship.IsValid() {
		return fmt.Errorf("ship index %d: %w", ship.Index(), ErrCellOccupied)
	}

	cells := footprint(x, y, ship.Size(), orientation)
	for _, c := range cells {
		if !b.GetOwnTile(c.X, c.Y).IsFree() {
			return fmt.Errorf("%s at (%d,%d): %w", ship.Name(), c.X, c.Y, ErrCellOccupied)
		}
	}

	b.markClearance(cells, orientation)
	body := ship.Tile()
	for _, c := range cells {
		b.SetOwnTile(c.X, c.Y, body)
	}

	ship.Place(x, y, orientation)
	b.ships = append(b.ships, ship)
	b.logger.Debug("placed %s at (%d,%d) %s", ship.Name(), x, y, orientation)
	return nil
}

// markClearance rings the footprint with clearance tiles:
//
//	:::::::
//	:AAAAA:
//	:::::::
func (b *Board) markClearance(cells []Point, orientation Orientation) {
	dx, dy := orientation.step()
	clearance := ClearanceTile()
	last := len(cells) - 1
	for i, c := range cells {
		if i == 0 {
			b.SetOwnTile(c.X-dx, c.Y-dy, clearance)
			b.SetOwnTile(c.X-dx-dy, c.Y-dy-dx, clearance)
			b.SetOwnTile(c.X-dx+dy, c.Y-dy+dx, clearance)
		}
		if i == last {
			b.SetOwnTile(c.X+dx, c.Y+dy, clearance)
			b.SetOwnTile(c.X+dx-dy, c.Y+dy-dx, clearance)
			b.SetOwnTile(c.X+dx+dy, c.Y+dy+dx, clearance)
		}
		b.SetOwnTile(c.X-dy, c.Y-dx, clearance)
		b.SetOwnTile(c.X+dy, c.Y+dx, clearance)
	}
}

func (b *Board) Ships() []*Ship {
	out := make([]*Ship, len(b.ships))
	for i, s := range b.ships {
		out[i] = s.clone()
	}
	return out
}

// ConfirmPlacementAt places the placer's current ship at cell using the cursor
// orientation and advances to the next fleet entry. On failure nothing changes.
func (b *Board) ConfirmPlacementAt(p Placer, cell Point) error {
	if !p.IsPlacingShips() {
		return nil
	}
	ship := p.CurrentShip()
	if ship == nil {
		return nil
	}
	if err := b.PlaceShip(ship, cell.X, cell.Y, b.orientation); err != nil {
		b.logger.Warn("placement rejected: %v", err)
		return err
	}
	p.NextShip()
	return nil
}

// Render returns copies of both grids, rows first.
func (b *Board) Render() (ours, theirs [][]Tile) {
	return copyGrid(b.ours), copyGrid(b.theirs)
}

func copyGrid(grid [][]Tile) [][]Tile {
	out := make([][]Tile, len(grid))
	for y, row := range grid {
		out[y] = make([]Tile, len(row))
		copy(out[y], row)
	}
	return out
}
