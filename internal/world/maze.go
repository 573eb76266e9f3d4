package world

const (
	// Default floor dimensions
	DefaultWidth  = 10
	DefaultHeight = 10

	// DefaultBiome is used when a level names no biome.
	DefaultBiome = "DUNGEON"
)

// Maze is a multi-floor grid with doors, stairs and NPCs.
type Maze struct {
	Biome string
	Start Tile
	Exit  Tile

	floors []*Floor
	npcs   map[Tile]*NPC
	stairs map[Tile]*Stairs
	doors  *DoorSystem
}

// NewMaze creates a maze of numFloors bordered floors of the given size.
func NewMaze(width, height, numFloors int, biome string) *Maze {
	if numFloors < 1 {
		numFloors = 1
	}
	if biome == "" {
		biome = DefaultBiome
	}

	floors := make([]*Floor, numFloors)
	for i := range floors {
		floors[i] = NewFloor(width, height)
	}

	return &Maze{
		Biome:  biome,
		Start:  Tile{X: 1, Y: 1, Floor: 0},
		Exit:   Tile{X: width - 2, Y: height - 2, Floor: 0},
		floors: floors,
		npcs:   make(map[Tile]*NPC),
		stairs: make(map[Tile]*Stairs),
		doors:  NewDoorSystem(),
	}
}

// NumFloors returns the number of floors.
func (m *Maze) NumFloors() int {
	return len(m.floors)
}

// Floor returns floor i, or nil if it does not exist.
func (m *Maze) Floor(i int) *Floor {
	if i < 0 || i >= len(m.floors) {
		return nil
	}
	return m.floors[i]
}

// AddFloor appends a bordered floor and returns its index.
func (m *Maze) AddFloor(width, height int) int {
	m.floors = append(m.floors, NewFloor(width, height))
	return len(m.floors) - 1
}

// SetFloorDimensions resizes one floor, keeping the overlapping cells.
func (m *Maze) SetFloorDimensions(floor, width, height int) bool {
	f := m.Floor(floor)
	if f == nil || width < 1 || height < 1 {
		return false
	}
	f.Resize(width, height)
	return true
}

// Doors returns the maze's door system.
func (m *Maze) Doors() *DoorSystem {
	return m.doors
}

// IsWall returns true for wall cells and for anything off the maze.
func (m *Maze) IsWall(x, y, floor int) bool {
	f := m.Floor(floor)
	if f == nil || !f.InBounds(x, y) {
		return true
	}
	return f.Cells[y][x] == CellWall
}

// CanMoveTo returns true if the cell exists and is walkable.
func (m *Maze) CanMoveTo(x, y, floor int) bool {
	f := m.Floor(floor)
	if f == nil || !f.InBounds(x, y) {
		return false
	}
	return f.Cells[y][x].IsPassable()
}

// IsSlippery returns true if the cell exists and is slippery.
func (m *Maze) IsSlippery(x, y, floor int) bool {
	f := m.Floor(floor)
	if f == nil || !f.InBounds(x, y) {
		return false
	}
	return f.Cells[y][x] == CellSlippery
}

// CellAt returns the cell at (x, y, floor). Anything off the maze is a wall.
func (m *Maze) CellAt(x, y, floor int) Cell {
	f := m.Floor(floor)
	if f == nil {
		return CellWall
	}
	return f.Cell(x, y)
}

// AddWall turns a cell into a wall.
func (m *Maze) AddWall(x, y, floor int) {
	m.setCell(x, y, floor, CellWall)
}

// RemoveWall turns a cell into open floor.
func (m *Maze) RemoveWall(x, y, floor int) {
	m.setCell(x, y, floor, CellOpen)
}

// AddSlipperyTile turns a cell into slippery floor.
func (m *Maze) AddSlipperyTile(x, y, floor int) {
	m.setCell(x, y, floor, CellSlippery)
}

// RemoveSlipperyTile turns a slippery cell back into open floor.
func (m *Maze) RemoveSlipperyTile(x, y, floor int) {
	if m.IsSlippery(x, y, floor) {
		m.setCell(x, y, floor, CellOpen)
	}
}

func (m *Maze) setCell(x, y, floor int, c Cell) {
	if f := m.Floor(floor); f != nil {
		f.Set(x, y, c)
	}
}

// AddDoor places a door. It returns nil if the floor does not exist.
func (m *Maze) AddDoor(cfg DoorConfig) *Door {
	if m.Floor(cfg.Floor) == nil {
		return nil
	}
	return m.doors.Add(cfg)
}

// RemoveDoor deletes the door on side dir of (x, y).
func (m *Maze) RemoveDoor(x, y, floor int, dir Direction) bool {
	return m.doors.Remove(x, y, floor, dir)
}

// DoorBetween returns the door separating two adjacent tiles, or nil.
func (m *Maze) DoorBetween(a, b Tile) *Door {
	return m.doors.Between(a, b)
}

// Passage resolves a step between adjacent tiles against the doors.
func (m *Maze) Passage(from, to Tile) Passage {
	return m.doors.HandleMovement(from, to)
}

// UpdateDoors advances door animations by dt seconds.
func (m *Maze) UpdateDoors(dt float64) {
	m.doors.Update(dt)
}

// CloseDoorsNotAt closes doors on the floor that do not border (x, y).
func (m *Maze) CloseDoorsNotAt(x, y, floor int) {
	m.doors.CloseDoorsNotAt(x, y, floor)
}

// DoorsOnFloor returns the doors on one floor.
func (m *Maze) DoorsOnFloor(floor int) []*Door {
	return m.doors.OnFloor(floor)
}
