package gamedata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	"github.com/samdwyer/mazecrawler/internal/telemetry"
	"github.com/samdwyer/mazecrawler/internal/world"
)

// DefaultLevel is the embedded level loaded when none is named.
const DefaultLevel = "entrance"

// PositionDef is a tile reference in a level file.
type PositionDef struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Floor  int    `yaml:"floor"`
	Facing string `yaml:"facing,omitempty"` // only read for the start position
}

// Tile returns the referenced tile.
func (p PositionDef) Tile() world.Tile {
	return world.Tile{X: p.X, Y: p.Y, Floor: p.Floor}
}

// FloorDef is one floor drawn as text rows: '#' wall, '.' open, '~' slippery.
type FloorDef struct {
	Rows []string `yaml:"rows"`
}

// DoorDef places a door on one side of a tile.
type DoorDef struct {
	X             int     `yaml:"x"`
	Y             int     `yaml:"y"`
	Floor         int     `yaml:"floor"`
	Direction     string  `yaml:"direction"`
	Locked        bool    `yaml:"locked"`
	Key           string  `yaml:"key,omitempty"`
	Speed         float64 `yaml:"speed,omitempty"`
	Sprite        string  `yaml:"sprite,omitempty"`
	OpeningSprite string  `yaml:"openingSprite,omitempty"`
	ClosingSprite string  `yaml:"closingSprite,omitempty"`
	Hidden        bool    `yaml:"hidden,omitempty"` // left off the minimap
}

// NPCDef places an NPC.
type NPCDef struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Floor  int    `yaml:"floor"`
	Type   string `yaml:"type"`
	Name   string `yaml:"name"`
	Image  string `yaml:"image"`
	Facing string `yaml:"facing"`
}

// StairsDef places stairs.
type StairsDef struct {
	X      int         `yaml:"x"`
	Y      int         `yaml:"y"`
	Floor  int         `yaml:"floor"`
	Kind   string      `yaml:"kind"`
	Target PositionDef `yaml:"target"`
}

// LevelDef is the YAML description of a maze.
type LevelDef struct {
	Name   string      `yaml:"name"`
	Biome  string      `yaml:"biome"`
	Floors []FloorDef  `yaml:"floors"`
	Start  PositionDef `yaml:"start"`
	Exit   PositionDef `yaml:"exit"`
	Doors  []DoorDef   `yaml:"doors"`
	NPCs   []NPCDef    `yaml:"npcs"`
	Stairs []StairsDef `yaml:"stairs"`
}

// Level is a built maze plus where the player begins.
type Level struct {
	Name   string
	Maze   *world.Maze
	Facing world.Direction
}

// ParseLevel decodes a YAML level.
func ParseLevel(data []byte) (*LevelDef, error) {
	var def LevelDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse level YAML: %w", err)
	}
	if len(def.Floors) == 0 {
		return nil, errors.New("level has no floors")
	}
	return &def, nil
}

// LoadLevel decodes an embedded level by name.
func LoadLevel(name string) (*LevelDef, error) {
	def, err := LoadYAML[LevelDef](path.Join("levels", name+".yaml"))
	if err != nil {
		return nil, err
	}
	if len(def.Floors) == 0 {
		return nil, fmt.Errorf("level %s has no floors", name)
	}
	return &def, nil
}

// LoadLevelFile decodes a level from disk.
func LoadLevelFile(filename string) (*LevelDef, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read level %s: %w", filename, err)
	}
	return ParseLevel(data)
}

// Build creates the maze described by the level.
func (l *LevelDef) Build(ctx context.Context) (*Level, error) {
	tracer := telemetry.Tracer("gamedata")
	_, span := tracer.Start(ctx, "level.build")
	defer span.End()

	first, err := parseRows(l.Floors[0].Rows)
	if err != nil {
		return nil, fmt.Errorf("floor 0: %w", err)
	}
	m := world.NewMaze(first.Width, first.Height, 1, l.Biome)
	*m.Floor(0) = *first
	for i := 1; i < len(l.Floors); i++ {
		f, err := parseRows(l.Floors[i].Rows)
		if err != nil {
			return nil, fmt.Errorf("floor %d: %w", i, err)
		}
		idx := m.AddFloor(f.Width, f.Height)
		*m.Floor(idx) = *f
	}

	start := l.Start.Tile()
	if !m.CanMoveTo(start.X, start.Y, start.Floor) {
		return nil, fmt.Errorf("start %s is not walkable", start)
	}
	facing := world.North
	if l.Start.Facing != "" {
		if facing, err = world.ParseDirection(l.Start.Facing); err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
	}
	m.Start = start
	m.Exit = l.Exit.Tile()

	for i, d := range l.Doors {
		dir, err := world.ParseDirection(d.Direction)
		if err != nil {
			return nil, fmt.Errorf("door %d: %w", i, err)
		}
		door := m.AddDoor(world.DoorConfig{
			X:                    d.X,
			Y:                    d.Y,
			Floor:                d.Floor,
			Direction:            dir,
			AnimationSpeed:       d.Speed,
			SpriteTexture:        d.Sprite,
			OpeningSpriteTexture: d.OpeningSprite,
			ClosingSpriteTexture: d.ClosingSprite,
			Locked:               d.Locked,
			KeyRequired:          d.Key,
			HideOnMinimap:        d.Hidden,
		})
		if door == nil {
			return nil, fmt.Errorf("door %d: floor %d does not exist", i, d.Floor)
		}
	}

	for i, n := range l.NPCs {
		facing := world.North
		if n.Facing != "" {
			if facing, err = world.ParseDirection(n.Facing); err != nil {
				return nil, fmt.Errorf("npc %d: %w", i, err)
			}
		}
		if m.AddNPC(n.X, n.Y, n.Floor, n.Type, n.Name, n.Image, facing) == nil {
			return nil, fmt.Errorf("npc %d: floor %d does not exist", i, n.Floor)
		}
	}

	for i, s := range l.Stairs {
		kind, err := world.ParseStairsKind(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("stairs %d: %w", i, err)
		}
		if m.AddStairs(s.X, s.Y, s.Floor, kind, s.Target.Tile()) == nil {
			return nil, fmt.Errorf("stairs %d: invalid placement %d,%d,%d -> %s", i, s.X, s.Y, s.Floor, s.Target.Tile())
		}
	}

	span.SetAttributes(
		attribute.String("level.name", l.Name),
		attribute.String("level.biome", m.Biome),
		attribute.Int("level.floors", m.NumFloors()),
		attribute.Int("level.doors", len(l.Doors)),
		attribute.Int("level.npcs", len(l.NPCs)),
		attribute.Int("level.stairs", len(l.Stairs)),
	)

	return &Level{Name: l.Name, Maze: m, Facing: facing}, nil
}

// parseRows converts text rows into a floor.
func parseRows(rows []string) (*world.Floor, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows")
	}
	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, errors.New("empty first row")
	}

	f := &world.Floor{Width: width, Height: len(rows), Cells: make([][]world.Cell, len(rows))}
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", y, len(runes), width)
		}
		f.Cells[y] = make([]world.Cell, width)
		for x, r := range runes {
			c, err := world.CellFromRune(r)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", y, x, err)
			}
			f.Cells[y][x] = c
		}
	}
	return f, nil
}

// MustBuildDefaultLevel builds the embedded default level, panicking on error.
func MustBuildDefaultLevel(ctx context.Context) *Level {
	def, err := LoadLevel(DefaultLevel)
	if err != nil {
		panic(err)
	}
	level, err := def.Build(ctx)
	if err != nil {
		panic(err)
	}
	return level
}
