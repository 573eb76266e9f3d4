// Package world provides the maze grid, doors, stairs and NPC placement.
package world

import "fmt"

// Cell represents a single grid cell on a floor.
type Cell uint8

const (
	// CellOpen is a walkable cell.
	CellOpen Cell = 0
	// CellWall is an impassable wall cell.
	CellWall Cell = 1
	// CellSlippery is walkable, but entering it starts a slide.
	CellSlippery Cell = 2
)

// IsPassable returns true if the cell can be walked on.
func (c Cell) IsPassable() bool {
	return c == CellOpen || c == CellSlippery
}

// Rune returns the cell's level-file character.
func (c Cell) Rune() rune {
	switch c {
	case CellOpen:
		return '.'
	case CellSlippery:
		return '~'
	default:
		return '#'
	}
}

// CellFromRune parses a level-file character.
func CellFromRune(r rune) (Cell, error) {
	switch r {
	case '.', ' ':
		return CellOpen, nil
	case '#':
		return CellWall, nil
	case '~':
		return CellSlippery, nil
	default:
		return CellWall, fmt.Errorf("unknown cell rune %q", r)
	}
}

// Direction is a cardinal facing. Values match the wire format.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Delta returns the grid offset of one step in this direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the direction rotated by a half turn.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Left returns the direction rotated a quarter turn counter-clockwise.
func (d Direction) Left() Direction {
	return (d + 3) % 4
}

// Right returns the direction rotated a quarter turn clockwise.
func (d Direction) Right() Direction {
	return (d + 1) % 4
}

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// ParseDirection parses a direction name as written in level files.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "north", "n", "N":
		return North, nil
	case "east", "e", "E":
		return East, nil
	case "south", "s", "S":
		return South, nil
	case "west", "w", "W":
		return West, nil
	default:
		return North, fmt.Errorf("unknown direction %q", s)
	}
}

// Tile addresses one cell of one floor. It is the key type for every
// per-tile lookup in the maze.
type Tile struct {
	X     int `json:"x" yaml:"x"`
	Y     int `json:"y" yaml:"y"`
	Floor int `json:"floor" yaml:"floor"`
}

// Step returns the neighbouring tile in direction d on the same floor.
func (t Tile) Step(d Direction) Tile {
	dx, dy := d.Delta()
	return Tile{X: t.X + dx, Y: t.Y + dy, Floor: t.Floor}
}

// DirectionTo returns the direction from t to an orthogonally adjacent tile
// on the same floor. ok is false for any other pair.
func (t Tile) DirectionTo(o Tile) (d Direction, ok bool) {
	if t.Floor != o.Floor {
		return North, false
	}
	switch dx, dy := o.X-t.X, o.Y-t.Y; {
	case dx == 0 && dy == -1:
		return North, true
	case dx == 1 && dy == 0:
		return East, true
	case dx == 0 && dy == 1:
		return South, true
	case dx == -1 && dy == 0:
		return West, true
	default:
		return North, false
	}
}

// Center returns the continuous coordinates of the tile's midpoint.
func (t Tile) Center() (float64, float64) {
	return float64(t.X) + 0.5, float64(t.Y) + 0.5
}

// String returns the tile in "x,y,floor" form.
func (t Tile) String() string {
	return fmt.Sprintf("%d,%d,%d", t.X, t.Y, t.Floor)
}
