package world

// Floor is one level of the maze.
type Floor struct {
	Width  int
	Height int
	Cells  [][]Cell
}

// NewFloor creates a floor with a wall border and an open interior.
func NewFloor(width, height int) *Floor {
	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
		for x := range cells[y] {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				cells[y][x] = CellWall
			} else {
				cells[y][x] = CellOpen
			}
		}
	}

	return &Floor{
		Width:  width,
		Height: height,
		Cells:  cells,
	}
}

// InBounds returns true if (x, y) lies on the floor.
func (f *Floor) InBounds(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}

// Cell returns the cell at (x, y). Out-of-bounds reads are walls.
func (f *Floor) Cell(x, y int) Cell {
	if !f.InBounds(x, y) {
		return CellWall
	}
	return f.Cells[y][x]
}

// Set writes a cell. Out-of-bounds writes are ignored and return false.
func (f *Floor) Set(x, y int, c Cell) bool {
	if !f.InBounds(x, y) {
		return false
	}
	f.Cells[y][x] = c
	return true
}

// Resize changes the floor dimensions. The overlapping rectangle keeps its
// cells; everything else gets the bordered layout of NewFloor.
func (f *Floor) Resize(width, height int) {
	next := NewFloor(width, height)
	for y := 0; y < min(height, f.Height); y++ {
		for x := 0; x < min(width, f.Width); x++ {
			next.Cells[y][x] = f.Cells[y][x]
		}
	}
	*f = *next
}

