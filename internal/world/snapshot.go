package world

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/mazecrawler/internal/telemetry"
)

// Snapshot is the serialisable form of a maze.
type Snapshot struct {
	Width         int             `json:"width"`
	Height        int             `json:"height"`
	Biome         string          `json:"biome"`
	Floors        []FloorSnapshot `json:"floors,omitempty"`
	Cells         [][]int         `json:"cells,omitempty"` // single-floor saves
	StartPosition *Tile           `json:"startPosition,omitempty"`
	ExitPosition  *Tile           `json:"exitPosition,omitempty"`
	NPCs          []NPCRecord     `json:"npcs,omitempty"`
	Stairs        []StairsRecord  `json:"stairs,omitempty"`
	Doors         []DoorRecord    `json:"doors,omitempty"`
}

// FloorSnapshot holds one floor's cells.
type FloorSnapshot struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Cells  [][]int `json:"cells"`
}

// NPCRecord is the flattened wire form of an NPC.
type NPCRecord struct {
	Key             string `json:"key"`
	X               int    `json:"x"`
	Y               int    `json:"y"`
	Floor           int    `json:"floor"`
	Type            string `json:"type"`
	Name            string `json:"name"`
	Image           string `json:"image"`
	FacingDirection int    `json:"facingDirection"`
}

// StairsRecord is the flattened wire form of a stairs entry.
type StairsRecord struct {
	Key    string `json:"key"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Floor  int    `json:"floor"`
	Kind   string `json:"kind"`
	Target Tile   `json:"target"`
}

// DoorRecord is the flattened wire form of a door.
type DoorRecord struct {
	Key                  string  `json:"key"`
	X                    int     `json:"x"`
	Y                    int     `json:"y"`
	Floor                int     `json:"floor"`
	Direction            int     `json:"direction"`
	State                string  `json:"state,omitempty"`
	OpenProgress         float64 `json:"openProgress"`
	AnimationSpeed       float64 `json:"animationSpeed,omitempty"`
	SpriteTexture        string  `json:"spriteTexture,omitempty"`
	OpeningSpriteTexture string  `json:"openingSpriteTexture,omitempty"`
	ClosingSpriteTexture string  `json:"closingSpriteTexture,omitempty"`
	Locked               bool    `json:"locked"`
	KeyRequired          string  `json:"keyRequired,omitempty"`
	ShowOnMinimap        *bool   `json:"showOnMinimap,omitempty"`
}

// ErrEmptySnapshot is returned when a snapshot has no floor data.
var ErrEmptySnapshot = errors.New("snapshot has no floors")

// NewDoorRecord flattens a door.
func NewDoorRecord(d *Door) DoorRecord {
	show := d.ShowOnMinimap
	return DoorRecord{
		Key:                  d.Key(),
		X:                    d.X,
		Y:                    d.Y,
		Floor:                d.Floor,
		Direction:            int(d.Direction),
		State:                d.State.String(),
		OpenProgress:         d.OpenProgress,
		AnimationSpeed:       d.AnimationSpeed,
		SpriteTexture:        d.SpriteTexture,
		OpeningSpriteTexture: d.OpeningSpriteTexture,
		ClosingSpriteTexture: d.ClosingSpriteTexture,
		Locked:               d.Locked,
		KeyRequired:          d.KeyRequired,
		ShowOnMinimap:        &show,
	}
}

// Door rebuilds a door. State and progress are restored verbatim; the
// other fields fall back to constructor defaults when absent.
func (r DoorRecord) Door() (*Door, error) {
	dir := Direction(r.Direction)
	if !dir.Valid() {
		return nil, fmt.Errorf("door %s: invalid direction %d", r.Key, r.Direction)
	}
	state, err := ParseDoorState(r.State)
	if err != nil {
		return nil, fmt.Errorf("door %s: %w", r.Key, err)
	}

	door := NewDoor(DoorConfig{
		X:                    r.X,
		Y:                    r.Y,
		Floor:                r.Floor,
		Direction:            dir,
		AnimationSpeed:       r.AnimationSpeed,
		SpriteTexture:        r.SpriteTexture,
		OpeningSpriteTexture: r.OpeningSpriteTexture,
		ClosingSpriteTexture: r.ClosingSpriteTexture,
		Locked:               r.Locked,
		KeyRequired:          r.KeyRequired,
		HideOnMinimap:        r.ShowOnMinimap != nil && !*r.ShowOnMinimap,
	})
	door.State = state
	door.OpenProgress = r.OpenProgress
	return door, nil
}

// Snapshot captures the maze's persistent state. NPC visibility is not
// part of it.
func (m *Maze) Snapshot() Snapshot {
	snap := Snapshot{
		Biome: m.Biome,
	}
	start, exit := m.Start, m.Exit
	snap.StartPosition = &start
	snap.ExitPosition = &exit

	for _, f := range m.floors {
		snap.Floors = append(snap.Floors, FloorSnapshot{
			Width:  f.Width,
			Height: f.Height,
			Cells:  cellsToInts(f.Cells),
		})
	}
	if len(m.floors) > 0 {
		snap.Width = m.floors[0].Width
		snap.Height = m.floors[0].Height
	}

	for _, n := range m.NPCs() {
		snap.NPCs = append(snap.NPCs, NPCRecord{
			Key:             n.Tile().String(),
			X:               n.X,
			Y:               n.Y,
			Floor:           n.Floor,
			Type:            n.Type,
			Name:            n.Name,
			Image:           n.Image,
			FacingDirection: int(n.Facing),
		})
	}
	for _, s := range m.AllStairs() {
		snap.Stairs = append(snap.Stairs, StairsRecord{
			Key:    s.Tile().String(),
			X:      s.X,
			Y:      s.Y,
			Floor:  s.Floor,
			Kind:   s.Kind.String(),
			Target: s.Target,
		})
	}
	for _, d := range m.doors.All() {
		snap.Doors = append(snap.Doors, NewDoorRecord(d))
	}

	return snap
}

// FromSnapshot rebuilds a maze from a snapshot.
func FromSnapshot(ctx context.Context, snap Snapshot) (*Maze, error) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "maze.restore")
	defer span.End()

	floors := snap.Floors
	if len(floors) == 0 && len(snap.Cells) > 0 {
		floors = []FloorSnapshot{{Width: snap.Width, Height: snap.Height, Cells: snap.Cells}}
	}
	if len(floors) == 0 {
		return nil, ErrEmptySnapshot
	}

	m := NewMaze(floors[0].Width, floors[0].Height, 0, snap.Biome)
	m.floors = m.floors[:0]
	for i, fs := range floors {
		f, err := floorFromSnapshot(fs)
		if err != nil {
			return nil, fmt.Errorf("floor %d: %w", i, err)
		}
		m.floors = append(m.floors, f)
	}

	if snap.StartPosition != nil {
		m.Start = *snap.StartPosition
	}
	if snap.ExitPosition != nil {
		m.Exit = *snap.ExitPosition
	}

	for _, r := range snap.NPCs {
		facing := Direction(r.FacingDirection)
		if !facing.Valid() {
			facing = North
		}
		if m.AddNPC(r.X, r.Y, r.Floor, r.Type, r.Name, r.Image, facing) == nil {
			return nil, fmt.Errorf("npc %s: floor %d does not exist", r.Key, r.Floor)
		}
	}
	for _, r := range snap.Stairs {
		kind, err := ParseStairsKind(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("stairs %s: %w", r.Key, err)
		}
		if m.AddStairs(r.X, r.Y, r.Floor, kind, r.Target) == nil {
			return nil, fmt.Errorf("stairs %s: invalid placement", r.Key)
		}
	}
	for _, r := range snap.Doors {
		door, err := r.Door()
		if err != nil {
			return nil, err
		}
		if m.Floor(door.Floor) == nil {
			return nil, fmt.Errorf("door %s: floor %d does not exist", r.Key, door.Floor)
		}
		m.doors.Put(door)
	}

	span.SetAttributes(
		attribute.String("maze.biome", m.Biome),
		attribute.Int("maze.floors", m.NumFloors()),
		attribute.Int("maze.doors", m.doors.Len()),
		attribute.Int("maze.npcs", len(m.npcs)),
	)
	return m, nil
}

func floorFromSnapshot(fs FloorSnapshot) (*Floor, error) {
	height := len(fs.Cells)
	if height == 0 {
		return nil, errors.New("no cell rows")
	}
	width := len(fs.Cells[0])
	if (fs.Width != 0 && fs.Width != width) || (fs.Height != 0 && fs.Height != height) {
		return nil, fmt.Errorf("declared size %dx%d does not match cells %dx%d", fs.Width, fs.Height, width, height)
	}

	f := &Floor{Width: width, Height: height, Cells: make([][]Cell, height)}
	for y, row := range fs.Cells {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(row), width)
		}
		f.Cells[y] = make([]Cell, width)
		for x, v := range row {
			if v < 0 || v > int(CellSlippery) {
				return nil, fmt.Errorf("cell (%d,%d) has invalid value %d", x, y, v)
			}
			f.Cells[y][x] = Cell(v)
		}
	}
	return f, nil
}

func cellsToInts(cells [][]Cell) [][]int {
	out := make([][]int, len(cells))
	for y, row := range cells {
		out[y] = make([]int, len(row))
		for x, c := range row {
			out[y][x] = int(c)
		}
	}
	return out
}
