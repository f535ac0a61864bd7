package board

type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// step returns the unit step along the ship and the perpendicular one.
func (o Orientation) step() (dx, dy int) {
	if o == Vertical {
		return 0, 1
	}
	return 1, 0
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type FleetEntry struct {
	Size int
	Name string
}

var fleet = [...]FleetEntry{
	{Size: 5, Name: "Carrier"},
	{Size: 4, Name: "Battleship"},
	{Size: 3, Name: "Cruiser"},
	{Size: 3, Name: "Submarine"},
	{Size: 2, Name: "Destroyer"},
}

const FleetSize = len(fleet)

func Fleet() []FleetEntry {
	out := make([]FleetEntry, FleetSize)
	copy(out, fleet[:])
	return out
}

type Ship struct {
	index       int
	size        int
	name        string
	origin      Point
	orientation Orientation
	placed      bool
}

// NewShip builds the fleet entry at index. An index outside the catalog
// yields a zero-size ship that is never valid and never occupies a cell.
func NewShip(index int) *Ship {
	s := &Ship{index: index}
	if index >= 0 && index < FleetSize {
		s.size = fleet[index].Size
		s.name = fleet[index].Name
	}
	return s
}

func (s *Ship) Index() int { return s.index }
func (s *Ship) Size() int { return s.size }
func (s *Ship) Name() string { return s.name }
func (s *Ship) Orientation() Orientation { return s.orientation }
func (s *Ship) IsPlaced() bool { return s.placed }
func (s *Ship) Origin() (Point, bool) { return s.origin, s.placed }
func (s *Ship) IsValid() bool { return s.index >= 0 && s.index < FleetSize }

// Place records position and orientation. Legality is the board's job,
// so this may be called any number of times while previewing.
func (s *Ship) Place(x, y int, orientation Orientation) {
	s.origin = Point{X: x, Y: y}
	s.orientation = orientation
	s.placed = true
}

func (s *Ship) OccupiedCells() []Point {
	if !s.IsValid() || !s.placed {
		return nil
	}
	return footprint(s.origin.X, s.origin.Y, s.size, s.orientation)
}

func footprint(x, y, size int, orientation Orientation) []Point {
	dx, dy := orientation.step()
	cells := make([]Point, 0, size)
	for i := 0; i < size; i++ {
		cells = append(cells, Point{X: x + i*dx, Y: y + i*dy})
	}
	return cells
}

// Tile is the body tile stamped for this ship; invalid ships render as water.
func (s *Ship) Tile() Tile {
	if !s.IsValid() {
		return WaterTile()
	}
	return ShipTile(s.index)
}

// BoundingRect is the pixel rectangle covered by the ship, for preview overlays.
func (s *Ship) BoundingRect() (Rect, bool) {
	if !s.IsValid() || !s.placed {
		return Rect{}, false
	}
	r := Rect{X: s.origin.X * TileSize, Y: s.origin.Y * TileSize, W: TileSize, H: TileSize}
	if s.orientation == Vertical {
		r.H = s.size * TileSize
	} else {
		r.W = s.size * TileSize
	}
	return r, true
}

func (s *Ship) clone() *Ship {
	c := *s
	return &c
}
