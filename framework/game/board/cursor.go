package board

func (b *Board) RotateCursor() {
	if b.orientation == Horizontal {
		b.orientation = Vertical
	} else {
		b.orientation = Horizontal
	}
}

func (b *Board) CursorOrientation() Orientation {
	return b.orientation
}

// Cursor returns the origin cell the placement preview currently points at.
func (b *Board) Cursor() (Point, bool) {
	if b.cursor == nil {
		return Point{}, false
	}
	return *b.cursor, true
}

// PixelToCell converts a pointer position with floor division, so pixels
// left of or above the grid map to negative cells instead of cell 0.
func PixelToCell(pos Point) Point {
	return Point{X: floorDiv(pos.X, TileSize), Y: floorDiv(pos.Y, TileSize)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// UpdateCursor centres ship on the pointer along the cursor orientation and
// clamps it inside the board. The cursor is cleared when no such position exists.
func (b *Board) UpdateCursor(ship *Ship, pointer Point) {
	b.cursor = nil
	if ship == nil || !ship.IsValid() {
		return
	}

	cell := PixelToCell(pointer)
	size := ship.Size()

	switch b.orientation {
	case Horizontal:
		cell.X = clampStart(cell.X-size/2, size, b.width)
		if cell.X >= 0 && cell.X+size <= b.width && cell.Y >= 0 && cell.Y < b.height {
			b.cursor = &cell
		}
	case Vertical:
		cell.Y = clampStart(cell.Y-size/2, size, b.height)
		if cell.Y >= 0 && cell.Y+size <= b.height && cell.X >= 0 && cell.X < b.width {
			b.cursor = &cell
		}
	}
}

// clampStart pulls a run of size cells back inside [0, limit). A run longer
// than limit still ends up starting at 0 and is rejected by the caller.
func clampStart(start, size, limit int) int {
	if start+size > limit {
		start = limit - size
	}
	if start < 0 {
		start = 0
	}
	return start
}

// PreviewRect places ship at the cursor and returns its pixel rectangle.
func (b *Board) PreviewRect(ship *Ship) (Rect, bool) {
	if ship == nil || b.cursor == nil {
		return Rect{}, false
	}
	ship.Place(b.cursor.X, b.cursor.Y, b.orientation)
	return ship.BoundingRect()
}

// UpdateCrosshair aims at the foreign grid, which is drawn one column to the
// right of our own. The stored crosshair is in foreign-grid cells.
func (b *Board) UpdateCrosshair(pointer Point) {
	cell := PixelToCell(pointer)
	left, right := b.width+1, 2*b.width

	if cell.X < left {
		cell.X = left
	} else if cell.X > right {
		cell.X = right
	}
	if cell.Y < 0 {
		cell.Y = 0
	} else if cell.Y >= b.height {
		cell.Y = b.height - 1
	}
	b.crosshair = &Point{X: cell.X - left, Y: cell.Y}
}

func (b *Board) Crosshair() (Point, bool) {
	if b.crosshair == nil {
		return Point{}, false
	}
	return *b.crosshair, true
}
