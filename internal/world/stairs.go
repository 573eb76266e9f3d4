package world

import (
	"fmt"
	"sort"
)

// StairsKind tells whether stairs lead up or down.
type StairsKind int

const (
	StairsDown StairsKind = iota
	StairsUp
)

// String returns the wire name of the kind.
func (k StairsKind) String() string {
	if k == StairsUp {
		return "up"
	}
	return "down"
}

// ParseStairsKind parses "up" or "down".
func ParseStairsKind(s string) (StairsKind, error) {
	switch s {
	case "", "down":
		return StairsDown, nil
	case "up":
		return StairsUp, nil
	default:
		return StairsDown, fmt.Errorf("unknown stairs kind %q", s)
	}
}

// Stairs connect a tile on one floor to a tile on another.
type Stairs struct {
	X, Y   int
	Floor  int
	Kind   StairsKind
	Target Tile
}

// Tile returns the tile the stairs start from.
func (s *Stairs) Tile() Tile {
	return Tile{X: s.X, Y: s.Y, Floor: s.Floor}
}

// AddStairs places stairs on an open tile. The target must be a walkable
// tile on another floor.
func (m *Maze) AddStairs(x, y, floor int, kind StairsKind, target Tile) *Stairs {
	if !m.CanMoveTo(x, y, floor) || target.Floor == floor || !m.CanMoveTo(target.X, target.Y, target.Floor) {
		return nil
	}
	s := &Stairs{X: x, Y: y, Floor: floor, Kind: kind, Target: target}
	m.stairs[s.Tile()] = s
	return s
}

// RemoveStairs deletes the stairs on a tile.
func (m *Maze) RemoveStairs(x, y, floor int) bool {
	key := Tile{X: x, Y: y, Floor: floor}
	if _, ok := m.stairs[key]; !ok {
		return false
	}
	delete(m.stairs, key)
	return true
}

// Stairs returns the stairs on a tile, or nil.
func (m *Maze) Stairs(x, y, floor int) *Stairs {
	return m.stairs[Tile{X: x, Y: y, Floor: floor}]
}

// AllStairs returns every stairs record ordered by floor then position.
func (m *Maze) AllStairs() []*Stairs {
	all := make([]*Stairs, 0, len(m.stairs))
	for _, s := range m.stairs {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Floor != b.Floor {
			return a.Floor < b.Floor
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return all
}
