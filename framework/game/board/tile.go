package board

import "image/color"

// TileSize is the edge of one cell in pixels, used by pointer conversions and previews.
const TileSize = 32

type TileKind int

const (
	Void TileKind = iota
	Water
	OccupiedClearance
	ShipBody
	Bombed
)

var (
	ColorVoid   = color.RGBA{R: 0, G: 0, B: 0, A: 0}
	ColorWater  = color.RGBA{R: 0, G: 25, B: 51, A: 0}
	ColorShip   = color.RGBA{R: 96, G: 96, B: 96, A: 0}
	ColorBombed = color.RGBA{R: 102, G: 0, B: 0, A: 0}
)

var background = map[TileKind]color.RGBA{
	Void:              ColorVoid,
	Water:             ColorWater,
	OccupiedClearance: ColorWater,
	Bombed:            ColorBombed,
}

// Tile is an immutable cell value. Cells are replaced, never modified.
type Tile struct {
	kind  TileKind
	index int
}

func VoidTile() Tile { return Tile{kind: Void} }
func WaterTile() Tile { return Tile{kind: Water} }
func ClearanceTile() Tile { return Tile{kind: OccupiedClearance} }
func BombedTile() Tile { return Tile{kind: Bombed} }

func ShipTile(fleetIndex int) Tile {
	return Tile{kind: ShipBody, index: fleetIndex}
}

func (t Tile) Kind() TileKind { return t.kind }

// Index is the fleet index of a ship body tile, -1 for every other kind.
func (t Tile) Index() int {
	if t.kind != ShipBody {
		return -1
	}
	return t.index
}

func (t Tile) IsFree() bool {
	return t.kind == Water
}

func (t Tile) Color() color.RGBA {
	if c, ok := background[t.kind]; ok {
		return c
	}
	return ColorShip
}

func (t Tile) String() string {
	switch t.kind {
	case Void:
		return " "
	case Water:
		return "~"
	case OccupiedClearance:
		return ":"
	case Bombed:
		return "#"
	default:
		return string(rune('A' + t.index))
	}
}
