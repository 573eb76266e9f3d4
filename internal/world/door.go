package world

import "fmt"

// Door animation thresholds. The movement gate and the pass-through check
// are tuned separately.
const (
	blockThreshold       = 0.9
	passThroughThreshold = 0.5

	// DefaultDoorSpeed is the animation speed in progress units per second.
	DefaultDoorSpeed = 3.0
)

// DoorState is the phase of a door's open/close animation.
type DoorState int

const (
	DoorClosed DoorState = iota
	DoorOpening
	DoorOpen
	DoorClosing
)

// String returns the wire name of the state.
func (s DoorState) String() string {
	switch s {
	case DoorClosed:
		return "closed"
	case DoorOpening:
		return "opening"
	case DoorOpen:
		return "open"
	case DoorClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// ParseDoorState parses a wire state name. An empty string is closed.
func ParseDoorState(s string) (DoorState, error) {
	switch s {
	case "", "closed":
		return DoorClosed, nil
	case "opening":
		return DoorOpening, nil
	case "open":
		return DoorOpen, nil
	case "closing":
		return DoorClosing, nil
	default:
		return DoorClosed, fmt.Errorf("unknown door state %q", s)
	}
}

// Axis is the orientation of a tile edge.
type Axis int

const (
	// AxisVertical edges separate (X, Y) from (X+1, Y).
	AxisVertical Axis = iota
	// AxisHorizontal edges separate (X, Y) from (X, Y+1).
	AxisHorizontal
)

// Edge is the undirected identity of the boundary between two adjacent
// tiles. Both tiles resolve to the same Edge.
type Edge struct {
	X, Y  int
	Floor int
	Axis  Axis
}

// EdgeOf returns the edge on side d of tile (x, y).
func EdgeOf(x, y, floor int, d Direction) Edge {
	switch d {
	case North:
		return Edge{X: x, Y: y - 1, Floor: floor, Axis: AxisHorizontal}
	case South:
		return Edge{X: x, Y: y, Floor: floor, Axis: AxisHorizontal}
	case West:
		return Edge{X: x - 1, Y: y, Floor: floor, Axis: AxisVertical}
	default:
		return Edge{X: x, Y: y, Floor: floor, Axis: AxisVertical}
	}
}

// EdgeBetween returns the edge shared by two orthogonally adjacent tiles.
func EdgeBetween(a, b Tile) (Edge, bool) {
	d, ok := a.DirectionTo(b)
	if !ok {
		return Edge{}, false
	}
	return EdgeOf(a.X, a.Y, a.Floor, d), true
}

// Tiles returns the two tiles separated by the edge.
func (e Edge) Tiles() (Tile, Tile) {
	a := Tile{X: e.X, Y: e.Y, Floor: e.Floor}
	if e.Axis == AxisVertical {
		return a, Tile{X: e.X + 1, Y: e.Y, Floor: e.Floor}
	}
	return a, Tile{X: e.X, Y: e.Y + 1, Floor: e.Floor}
}

// Touches returns true if t is one of the two tiles on either side of e.
func (e Edge) Touches(t Tile) bool {
	a, b := e.Tiles()
	return t == a || t == b
}

// DoorConfig holds the authored attributes of a door. Zero values select
// the defaults.
type DoorConfig struct {
	X, Y                 int
	Floor                int
	Direction            Direction
	AnimationSpeed       float64
	SpriteTexture        string
	OpeningSpriteTexture string
	ClosingSpriteTexture string
	Locked               bool
	KeyRequired          string
	HideOnMinimap        bool
}

// Door is an animated obstacle on the edge between two tiles.
type Door struct {
	X, Y      int
	Floor     int
	Direction Direction

	State          DoorState
	OpenProgress   float64
	AnimationSpeed float64

	SpriteTexture        string
	OpeningSpriteTexture string
	ClosingSpriteTexture string

	Locked        bool
	KeyRequired   string
	ShowOnMinimap bool
}

// NewDoor creates a closed door from its configuration.
func NewDoor(cfg DoorConfig) *Door {
	speed := cfg.AnimationSpeed
	if speed <= 0 {
		speed = DefaultDoorSpeed
	}

	return &Door{
		X:                    cfg.X,
		Y:                    cfg.Y,
		Floor:                cfg.Floor,
		Direction:            cfg.Direction,
		State:                DoorClosed,
		AnimationSpeed:       speed,
		SpriteTexture:        cfg.SpriteTexture,
		OpeningSpriteTexture: cfg.OpeningSpriteTexture,
		ClosingSpriteTexture: cfg.ClosingSpriteTexture,
		Locked:               cfg.Locked,
		KeyRequired:          cfg.KeyRequired,
		ShowOnMinimap:        !cfg.HideOnMinimap,
	}
}

// Key returns the door's wire key "x,y,floor,direction".
func (d *Door) Key() string {
	return fmt.Sprintf("%d,%d,%d,%d", d.X, d.Y, d.Floor, int(d.Direction))
}

// Edge returns the canonical edge the door sits on.
func (d *Door) Edge() Edge {
	return EdgeOf(d.X, d.Y, d.Floor, d.Direction)
}

// Tile returns the tile the door was authored on.
func (d *Door) Tile() Tile {
	return Tile{X: d.X, Y: d.Y, Floor: d.Floor}
}

// OtherSide returns the tile across the door from its authored tile.
func (d *Door) OtherSide() Tile {
	return d.Tile().Step(d.Direction)
}

// UsesPlaceholder returns true if the door has no sprite of its own.
func (d *Door) UsesPlaceholder() bool {
	return d.SpriteTexture == ""
}

// Open starts opening the door. Locked doors refuse regardless of state.
func (d *Door) Open() bool {
	if d.Locked {
		return false
	}
	if d.State == DoorOpen || d.State == DoorOpening {
		return true
	}
	d.State = DoorOpening
	return true
}

// Close starts closing the door.
func (d *Door) Close() bool {
	if d.State == DoorClosed || d.State == DoorClosing {
		return true
	}
	d.State = DoorClosing
	return true
}

// Update advances the animation by dt seconds.
func (d *Door) Update(dt float64) {
	switch d.State {
	case DoorOpening:
		d.OpenProgress += dt * d.AnimationSpeed
		if d.OpenProgress >= 1 {
			d.OpenProgress = 1
			d.State = DoorOpen
		}
	case DoorClosing:
		d.OpenProgress -= dt * d.AnimationSpeed
		if d.OpenProgress <= 0 {
			d.OpenProgress = 0
			d.State = DoorClosed
		}
	}
}

// BlocksMovement returns true if the door stands between from and to.
func (d *Door) BlocksMovement(from, to Tile) bool {
	if from.Floor != d.Floor || to.Floor != d.Floor {
		return false
	}
	if d.State == DoorOpen || d.OpenProgress > blockThreshold {
		return false
	}

	here, there := d.Tile(), d.OtherSide()
	return (from == here && to == there) || (from == there && to == here)
}

// CanPassThrough reports the looser pass-through check used by sight and
// interaction code.
func (d *Door) CanPassThrough() bool {
	return !d.Locked && (d.State == DoorOpen || d.State == DoorOpening || d.OpenProgress > passThroughThreshold)
}

// Unlock clears the lock flag.
func (d *Door) Unlock() {
	d.Locked = false
}
