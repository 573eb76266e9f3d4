// Package entity provides the player and its grid kinematics.
package entity

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/mazecrawler/internal/telemetry"
	"github.com/samdwyer/mazecrawler/internal/world"
)

// Kinematic defaults.
const (
	DefaultMoveSpeed    = 6.0 // tiles per second
	DefaultTurnSpeed    = 8.0 // quarter turns per second
	DefaultBumpDistance = 0.1 // tiles

	bumpRate      = 10.0
	moveEpsilon   = 0.01
	turnEpsilon   = 0.01
	minTurnSnap   = 0.15
	turnSnapScale = 3.0
)

// Stats are the player's status values shown by the HUD.
type Stats struct {
	Level     int
	HP, MaxHP int
	MP, MaxMP int
}

// Player is the single explorer of a maze. At rest it stands on a tile
// centre with an exact cardinal facing; moves and turns are interpolated
// over successive Update calls.
type Player struct {
	x, y  float64
	floor int

	facing  world.Direction
	heading float64 // quarter turns, only fractional while turning

	targetX, targetY float64
	targetHeading    float64
	travel           world.Direction

	moving   bool
	turning  bool
	bumping  bool
	slipping bool

	bumpProgress float64

	MoveSpeed    float64
	TurnSpeed    float64
	BumpDistance float64

	Stats Stats
}

// NewPlayer creates a player resting on tile (x, y) of a floor.
func NewPlayer(x, y, floor int, dir world.Direction) *Player {
	if !dir.Valid() {
		dir = world.North
	}
	p := &Player{
		floor:        floor,
		facing:       dir,
		heading:      float64(dir),
		MoveSpeed:    DefaultMoveSpeed,
		TurnSpeed:    DefaultTurnSpeed,
		BumpDistance: DefaultBumpDistance,
		Stats: Stats{
			Level: 1,
			HP:    100, MaxHP: 100,
			MP: 50, MaxMP: 50,
		},
	}
	p.x, p.y = world.Tile{X: x, Y: y}.Center()
	p.targetX, p.targetY = p.x, p.y
	return p
}

// Position returns the continuous position of the player.
func (p *Player) Position() (x, y float64) {
	return p.x, p.y
}

// Floor returns the floor the player is on.
func (p *Player) Floor() int {
	return p.floor
}

// Tile returns the tile containing the player.
func (p *Player) Tile() world.Tile {
	return world.Tile{X: int(math.Floor(p.x)), Y: int(math.Floor(p.y)), Floor: p.floor}
}

// Facing returns the cardinal direction the player faces, or will face
// once a turn in flight completes.
func (p *Player) Facing() world.Direction {
	if p.turning {
		return headingToDirection(p.targetHeading)
	}
	return p.facing
}

// Heading returns the view direction in quarter turns. It is fractional
// only while a turn is in flight.
func (p *Player) Heading() float64 {
	return p.heading
}

// ForwardTile returns the tile in front of the player.
func (p *Player) ForwardTile() world.Tile {
	return p.Tile().Step(p.facing)
}

// IsMoving returns true while a step or slide is in flight.
func (p *Player) IsMoving() bool { return p.moving }

// IsTurning returns true while a turn is in flight.
func (p *Player) IsTurning() bool { return p.turning }

// IsBumping returns true while a bump animation plays.
func (p *Player) IsBumping() bool { return p.bumping }

// IsSlipping returns true while an involuntary slide is in flight.
func (p *Player) IsSlipping() bool { return p.slipping }

// BumpProgress returns the bump animation progress in [0, 1).
func (p *Player) BumpProgress() float64 { return p.bumpProgress }

// CanAct returns true when no animation is in flight.
func (p *Player) CanAct() bool {
	return !p.moving && !p.turning && !p.bumping
}

// StartMoveForward begins a step in the facing direction.
func (p *Player) StartMoveForward(m *world.Maze) bool {
	return p.startMove(m, p.facing)
}

// StartMoveBackward begins a step away from the facing direction.
func (p *Player) StartMoveBackward(m *world.Maze) bool {
	return p.startMove(m, p.facing.Opposite())
}

// startMove validates a step against the doors and the grid. A door that
// is locked or only just told to open turns the attempt into a bump.
func (p *Player) startMove(m *world.Maze, dir world.Direction) bool {
	if p.moving || p.turning {
		return false
	}
	if !p.beginStep(m, dir) {
		p.StartBump()
		return false
	}
	return true
}

func (p *Player) beginStep(m *world.Maze, dir world.Direction) bool {
	from := p.Tile()
	to := from.Step(dir)

	if !m.Passage(from, to).CanPass() {
		return false
	}
	if !m.CanMoveTo(to.X, to.Y, to.Floor) {
		return false
	}

	p.targetX, p.targetY = to.Center()
	p.travel = dir
	p.moving = true
	return true
}

// startSlip continues a slide off a slippery tile. A blocked slide ends
// with a bump.
func (p *Player) startSlip(m *world.Maze, dir world.Direction) {
	if p.beginStep(m, dir) {
		p.slipping = true
		return
	}
	p.StartBump()
}

// StartTurnLeft begins a quarter turn counter-clockwise.
func (p *Player) StartTurnLeft() bool {
	return p.startTurn(p.facing.Left())
}

// StartTurnRight begins a quarter turn clockwise.
func (p *Player) StartTurnRight() bool {
	return p.startTurn(p.facing.Right())
}

// StartTurnAround begins a half turn. It swings clockwise.
func (p *Player) StartTurnAround() bool {
	return p.startTurn(p.facing.Opposite())
}

func (p *Player) startTurn(target world.Direction) bool {
	if p.moving || p.turning {
		return false
	}
	p.heading = float64(p.facing)
	p.targetHeading = float64(target)
	p.turning = true
	return true
}

// StartBump begins the bump animation.
func (p *Player) StartBump() bool {
	if p.moving || p.turning || p.bumping {
		return false
	}
	p.bumping = true
	p.bumpProgress = 0
	return true
}

// BumpOffset returns the forward nudge of the bump animation in tiles.
func (p *Player) BumpOffset() float64 {
	if !p.bumping {
		return 0
	}
	return math.Sin(p.bumpProgress*math.Pi) * p.BumpDistance
}

// TakeStairs moves the player along the stairs on its tile. It fails
// while an animation is in flight or when there are no stairs.
func (p *Player) TakeStairs(m *world.Maze) bool {
	if !p.CanAct() {
		return false
	}
	s := m.Stairs(p.Tile().X, p.Tile().Y, p.floor)
	if s == nil || !m.CanMoveTo(s.Target.X, s.Target.Y, s.Target.Floor) {
		return false
	}

	p.floor = s.Target.Floor
	p.x, p.y = s.Target.Center()
	p.targetX, p.targetY = p.x, p.y
	m.CloseDoorsNotAt(s.Target.X, s.Target.Y, s.Target.Floor)
	return true
}

// Update advances every animation by dt seconds, then advances the maze's
// doors and NPC visibility by the same delta. It returns whether a move,
// turn or bump is still in flight.
func (p *Player) Update(ctx context.Context, dt float64, m *world.Maze) bool {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}

	if p.moving {
		p.updateMove(dt, m)
	}
	if p.turning {
		p.updateTurn(dt)
	}
	if p.bumping {
		p.bumpProgress += dt * bumpRate
		if p.bumpProgress >= 1 {
			p.bumping = false
			p.bumpProgress = 0
		}
	}
	if !p.turning {
		p.settleHeading(ctx)
	}

	if m != nil {
		m.UpdateDoors(dt)
		m.UpdateNPCVisibility(p.x, p.y, p.floor, p.heading)
	}

	return p.moving || p.turning || p.bumping
}

func (p *Player) updateMove(dt float64, m *world.Maze) {
	step := dt * p.MoveSpeed
	dx := p.targetX - p.x
	dy := p.targetY - p.y
	dist := math.Hypot(dx, dy)

	if dist > step && dist >= moveEpsilon {
		p.x += dx * step / dist
		p.y += dy * step / dist
		return
	}

	p.x = math.Floor(p.targetX) + 0.5
	p.y = math.Floor(p.targetY) + 0.5
	p.moving = false
	p.slipping = false

	if m == nil {
		return
	}
	here := p.Tile()
	m.CloseDoorsNotAt(here.X, here.Y, here.Floor)
	if m.IsSlippery(here.X, here.Y, here.Floor) {
		p.startSlip(m, p.travel)
	}
}

func (p *Player) updateTurn(dt float64) {
	step := dt * p.TurnSpeed
	diff := wrapQuarterTurns(p.targetHeading - p.heading)
	snap := math.Max(minTurnSnap, step*turnSnapScale)

	if math.Abs(diff) <= snap {
		p.finishTurn()
		return
	}

	if diff > 0 {
		p.heading += step
	} else {
		p.heading -= step
	}
	p.heading = wrapHeading(p.heading)
	if math.IsNaN(p.heading) {
		p.turning = false
		return
	}

	if math.Abs(p.targetHeading-p.heading) < turnEpsilon {
		p.finishTurn()
	}
}

func (p *Player) finishTurn() {
	p.facing = headingToDirection(p.targetHeading)
	p.heading = float64(p.facing)
	p.turning = false
}

// settleHeading pins the heading to the exact facing. A heading that is
// no longer a finite number is reset to North.
func (p *Player) settleHeading(ctx context.Context) {
	if math.IsNaN(p.heading) || math.IsInf(p.heading, 0) {
		telemetry.RecordAnomaly(ctx, "entity", "player heading corrupted, reset to north",
			attribute.String("player.tile", p.Tile().String()),
			attribute.Int("player.facing", int(p.facing)),
		)
		p.facing = world.North
	}
	p.heading = float64(p.facing)
}

// wrapQuarterTurns maps a heading difference into (-2, 2].
func wrapQuarterTurns(d float64) float64 {
	for d > 2 {
		d -= 4
	}
	for d <= -2 {
		d += 4
	}
	return d
}

// wrapHeading maps a heading into [0, 4).
func wrapHeading(h float64) float64 {
	h = math.Mod(h, 4)
	if h < 0 {
		h += 4
	}
	return h
}

func headingToDirection(h float64) world.Direction {
	r := int(math.Round(wrapHeading(h))) % 4
	return world.Direction(r)
}

// PlayerState is the persistent part of a player.
type PlayerState struct {
	X         int `json:"x"`
	Y         int `json:"y"`
	Floor     int `json:"floor"`
	Direction int `json:"direction"`
}

// State captures the player's resting position and facing.
func (p *Player) State() PlayerState {
	t := p.Tile()
	if p.moving {
		t = world.Tile{X: int(math.Floor(p.targetX)), Y: int(math.Floor(p.targetY)), Floor: p.floor}
	}
	return PlayerState{X: t.X, Y: t.Y, Floor: t.Floor, Direction: int(p.Facing())}
}

// Restore places the player at rest at a saved state. Animations in
// flight are discarded.
func (p *Player) Restore(s PlayerState) {
	dir := world.Direction(s.Direction)
	if !dir.Valid() {
		dir = world.North
	}
	p.floor = s.Floor
	p.x, p.y = world.Tile{X: s.X, Y: s.Y}.Center()
	p.targetX, p.targetY = p.x, p.y
	p.facing = dir
	p.heading = float64(dir)
	p.moving, p.turning, p.bumping, p.slipping = false, false, false, false
	p.bumpProgress = 0
}
