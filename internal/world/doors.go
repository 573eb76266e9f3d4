package world

import "sort"

// PassageOutcome describes what a door did to a movement request.
type PassageOutcome int

const (
	// PassageNoDoor means no door sits on the edge.
	PassageNoDoor PassageOutcome = iota
	// PassageClear means a door is there but already open enough to pass.
	PassageClear
	// PassageOpening means the door was told to open; the step is blocked
	// until the animation passes the movement gate.
	PassageOpening
	// PassageLocked means the door is locked and stays shut.
	PassageLocked
)

// String returns a human-readable outcome name.
func (o PassageOutcome) String() string {
	switch o {
	case PassageNoDoor:
		return "no_door"
	case PassageClear:
		return "clear"
	case PassageOpening:
		return "opening"
	case PassageLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Passage is the result of asking the door system for a step between tiles.
type Passage struct {
	Outcome PassageOutcome
	Door    *Door
}

// CanPass returns true if the step may proceed this frame.
func (p Passage) CanPass() bool {
	return p.Outcome == PassageNoDoor || p.Outcome == PassageClear
}

// DoorSystem owns every door in a maze, one record per edge.
type DoorSystem struct {
	doors map[Edge]*Door
}

// NewDoorSystem creates an empty door system.
func NewDoorSystem() *DoorSystem {
	return &DoorSystem{doors: make(map[Edge]*Door)}
}

// Add creates a door, replacing any door already on the same edge.
func (s *DoorSystem) Add(cfg DoorConfig) *Door {
	door := NewDoor(cfg)
	s.doors[door.Edge()] = door
	return door
}

// Put stores an existing door record, replacing any door on its edge.
func (s *DoorSystem) Put(door *Door) {
	s.doors[door.Edge()] = door
}

// Remove deletes the door on side dir of (x, y).
func (s *DoorSystem) Remove(x, y, floor int, dir Direction) bool {
	edge := EdgeOf(x, y, floor, dir)
	if _, ok := s.doors[edge]; !ok {
		return false
	}
	delete(s.doors, edge)
	return true
}

// Door returns the door on side dir of (x, y), or nil. The same door is
// returned when addressed from the tile on the other side.
func (s *DoorSystem) Door(x, y, floor int, dir Direction) *Door {
	return s.doors[EdgeOf(x, y, floor, dir)]
}

// Has returns true if a door sits on side dir of (x, y).
func (s *DoorSystem) Has(x, y, floor int, dir Direction) bool {
	return s.Door(x, y, floor, dir) != nil
}

// Between returns the door separating two adjacent tiles, or nil.
// Argument order does not matter.
func (s *DoorSystem) Between(a, b Tile) *Door {
	edge, ok := EdgeBetween(a, b)
	if !ok {
		return nil
	}
	return s.doors[edge]
}

// OnFloor returns the doors on a floor, ordered by position.
func (s *DoorSystem) OnFloor(floor int) []*Door {
	var doors []*Door
	for _, d := range s.doors {
		if d.Floor == floor {
			doors = append(doors, d)
		}
	}
	sortDoors(doors)
	return doors
}

// All returns every door, ordered by floor then position.
func (s *DoorSystem) All() []*Door {
	doors := make([]*Door, 0, len(s.doors))
	for _, d := range s.doors {
		doors = append(doors, d)
	}
	sortDoors(doors)
	return doors
}

// Len returns the number of doors.
func (s *DoorSystem) Len() int {
	return len(s.doors)
}

// Clear removes every door.
func (s *DoorSystem) Clear() {
	clear(s.doors)
}

// Update advances every door animation by dt seconds.
func (s *DoorSystem) Update(dt float64) {
	for _, d := range s.doors {
		d.Update(dt)
	}
}

// HandleMovement resolves a step from one tile to an adjacent one. An
// unlocked door that is in the way is told to open; the caller still has
// to honour CanPass for this frame.
func (s *DoorSystem) HandleMovement(from, to Tile) Passage {
	door := s.Between(from, to)
	if door == nil {
		return Passage{Outcome: PassageNoDoor}
	}
	if door.Locked {
		return Passage{Outcome: PassageLocked, Door: door}
	}

	door.Open()
	if door.BlocksMovement(from, to) {
		return Passage{Outcome: PassageOpening, Door: door}
	}
	return Passage{Outcome: PassageClear, Door: door}
}

// CloseAll starts closing every door on a floor.
func (s *DoorSystem) CloseAll(floor int) {
	for _, d := range s.doors {
		if d.Floor == floor {
			d.Close()
		}
	}
}

// CloseDoorsNotAt starts closing every door on the floor except those on
// the edges of tile (x, y).
func (s *DoorSystem) CloseDoorsNotAt(x, y, floor int) {
	here := Tile{X: x, Y: y, Floor: floor}
	for edge, d := range s.doors {
		if d.Floor == floor && !edge.Touches(here) {
			d.Close()
		}
	}
}

func sortDoors(doors []*Door) {
	sort.Slice(doors, func(i, j int) bool {
		a, b := doors[i], doors[j]
		if a.Floor != b.Floor {
			return a.Floor < b.Floor
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Direction < b.Direction
	})
}
