package entity

import (
	"context"
	"math"
	"testing"

	"github.com/samdwyer/mazecrawler/internal/telemetry"
	"github.com/samdwyer/mazecrawler/internal/world"
)

const frame = 0.016

// settle runs Update until every animation finishes.
func settle(t *testing.T, p *Player, m *world.Maze) int {
	t.Helper()
	for i := 1; i <= 1000; i++ {
		if !p.Update(context.Background(), frame, m) {
			return i
		}
	}
	t.Fatal("player did not settle within 1000 frames")
	return 0
}

func TestMoveForwardConverges(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	p := NewPlayer(1, 1, 0, world.East)

	if !p.StartMoveForward(m) {
		t.Fatal("StartMoveForward() = false, want true")
	}
	if !p.IsMoving() || p.CanAct() {
		t.Error("player should be moving")
	}
	settle(t, p, m)

	x, y := p.Position()
	if x != 2.5 || y != 1.5 {
		t.Errorf("Position() = (%v, %v), want (2.5, 1.5)", x, y)
	}
	if p.Tile() != (world.Tile{X: 2, Y: 1}) {
		t.Errorf("Tile() = %v, want 2,1,0", p.Tile())
	}
}

func TestMoveBackward(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	p := NewPlayer(3, 3, 0, world.North)

	if !p.StartMoveBackward(m) {
		t.Fatal("StartMoveBackward() = false, want true")
	}
	settle(t, p, m)

	if p.Tile() != (world.Tile{X: 3, Y: 4}) {
		t.Errorf("Tile() = %v, want 3,4,0", p.Tile())
	}
	if p.Facing() != world.North {
		t.Errorf("Facing() = %v, want north", p.Facing())
	}
}

func TestMoveIntoWallBumps(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	p := NewPlayer(1, 1, 0, world.North)

	if p.StartMoveForward(m) {
		t.Fatal("StartMoveForward() into border = true, want false")
	}
	if !p.IsBumping() || p.IsMoving() {
		t.Error("blocked move should bump without moving")
	}

	p.Update(context.Background(), 0.05, m)
	if got := p.BumpProgress(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("BumpProgress() = %v, want 0.5", got)
	}
	if got, want := p.BumpOffset(), math.Sin(0.5*math.Pi)*DefaultBumpDistance; math.Abs(got-want) > 1e-9 {
		t.Errorf("BumpOffset() at half progress = %v, want %v", got, want)
	}

	settle(t, p, m)
	if p.BumpOffset() != 0 || p.IsBumping() {
		t.Error("bump should clear after completion")
	}
	if p.Tile() != (world.Tile{X: 1, Y: 1}) {
		t.Errorf("Tile() = %v, want 1,1,0", p.Tile())
	}
}

func TestActionsRejectedWhileBusy(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	p := NewPlayer(2, 2, 0, world.East)

	p.StartMoveForward(m)
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"move forward", func() bool { return p.StartMoveForward(m) }},
		{"move backward", func() bool { return p.StartMoveBackward(m) }},
		{"turn left", p.StartTurnLeft},
		{"turn right", p.StartTurnRight},
		{"turn around", p.StartTurnAround},
		{"bump", p.StartBump},
	}
	for _, tt := range tests {
		if tt.fn() {
			t.Errorf("%s while moving = true, want false", tt.name)
		}
	}
	if p.IsBumping() {
		t.Error("rejected move while moving should not bump")
	}
	if p.IsTurning() {
		t.Error("moving and turning must be exclusive")
	}
}

func TestTurnConvergence(t *testing.T) {
	tests := []struct {
		name  string
		start world.Direction
		turn  func(*Player) bool
		want  world.Direction
	}{
		{"right from north", world.North, (*Player).StartTurnRight, world.East},
		{"left from north", world.North, (*Player).StartTurnLeft, world.West},
		{"left from east", world.East, (*Player).StartTurnLeft, world.North},
		{"right from west", world.West, (*Player).StartTurnRight, world.North},
		{"around from south", world.South, (*Player).StartTurnAround, world.North},
		{"around from west", world.West, (*Player).StartTurnAround, world.East},
	}

	for _, tt := range tests {
		for _, dt := range []float64{0.001, frame, 0.05, 0.5} {
			p := NewPlayer(2, 2, 0, tt.start)
			if !tt.turn(p) {
				t.Fatalf("%s: turn rejected", tt.name)
			}
			if p.Facing() != tt.want {
				t.Errorf("%s: Facing() during turn = %v, want %v", tt.name, p.Facing(), tt.want)
			}

			frames := 0
			for p.IsTurning() {
				p.Update(context.Background(), dt, nil)
				frames++
				if frames > 10000 {
					t.Fatalf("%s dt=%v: turn did not converge", tt.name, dt)
				}
			}

			if p.Facing() != tt.want {
				t.Errorf("%s dt=%v: Facing() = %v, want %v", tt.name, dt, p.Facing(), tt.want)
			}
			if p.Heading() != float64(tt.want) {
				t.Errorf("%s dt=%v: Heading() = %v, want exactly %v", tt.name, dt, p.Heading(), float64(tt.want))
			}
		}
	}
}

func TestHeadingFractionalOnlyWhileTurning(t *testing.T) {
	p := NewPlayer(2, 2, 0, world.North)
	p.StartTurnRight()
	p.Update(context.Background(), frame, nil)

	h := p.Heading()
	if h <= 0 || h >= 1 {
		t.Errorf("Heading() mid-turn = %v, want in (0, 1)", h)
	}

	p2 := NewPlayer(2, 2, 0, world.North)
	p2.StartTurnLeft()
	p2.Update(context.Background(), frame, nil)
	if h := p2.Heading(); h <= 3 || h >= 4 {
		t.Errorf("Heading() mid left turn from north = %v, want in (3, 4)", h)
	}
}

func TestCorruptHeadingResetsToNorth(t *testing.T) {
	p := NewPlayer(2, 2, 0, world.East)
	p.TurnSpeed = math.NaN()
	before := telemetry.AnomalyCount()

	p.StartTurnRight()
	p.Update(context.Background(), frame, nil)

	if p.IsTurning() {
		t.Error("corrupted turn should stop")
	}
	if p.Facing() != world.North || p.Heading() != 0 {
		t.Errorf("Facing() = %v heading %v, want north/0", p.Facing(), p.Heading())
	}
	if telemetry.AnomalyCount() == before {
		t.Error("corrupted heading should be recorded as an anomaly")
	}
}

func TestDoorOpensThenAllowsStep(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	door := m.AddDoor(world.DoorConfig{X: 1, Y: 2, Direction: world.North})
	p := NewPlayer(1, 2, 0, world.North)

	if p.StartMoveForward(m) {
		t.Fatal("StartMoveForward() through closed door = true, want false")
	}
	if door.State != world.DoorOpening {
		t.Fatalf("door state = %v, want opening", door.State)
	}
	if !p.IsBumping() {
		t.Error("triggering a door should bump")
	}

	for i := 0; i < 100 && door.State != world.DoorOpen; i++ {
		p.Update(context.Background(), frame, m)
	}
	if door.State != world.DoorOpen {
		t.Fatalf("door state = %v, want open", door.State)
	}
	settle(t, p, m)

	if !p.StartMoveForward(m) {
		t.Fatal("StartMoveForward() through open door = false, want true")
	}
	settle(t, p, m)
	if p.Tile() != (world.Tile{X: 1, Y: 1}) {
		t.Errorf("Tile() = %v, want 1,1,0", p.Tile())
	}
}

func TestLockedDoorAlwaysBumps(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	door := m.AddDoor(world.DoorConfig{X: 1, Y: 2, Direction: world.North, Locked: true})
	p := NewPlayer(1, 2, 0, world.North)

	for attempt := 0; attempt < 5; attempt++ {
		if p.StartMoveForward(m) {
			t.Fatalf("attempt %d: StartMoveForward() through locked door = true", attempt)
		}
		settle(t, p, m)
		if door.State != world.DoorClosed || door.OpenProgress != 0 {
			t.Fatalf("attempt %d: locked door = %v/%v, want closed/0", attempt, door.State, door.OpenProgress)
		}
	}
}

func TestArrivalClosesDistantDoors(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	behind := m.AddDoor(world.DoorConfig{X: 1, Y: 1, Direction: world.East})
	far := m.AddDoor(world.DoorConfig{X: 5, Y: 5, Direction: world.South})
	for _, d := range []*world.Door{behind, far} {
		d.Open()
		d.Update(1)
	}

	p := NewPlayer(1, 1, 0, world.East)
	if !p.StartMoveForward(m) {
		t.Fatal("StartMoveForward() = false, want true")
	}
	settle(t, p, m)

	if behind.State != world.DoorOpen {
		t.Errorf("door bordering the arrival tile = %v, want open", behind.State)
	}
	if far.State == world.DoorOpen {
		t.Error("distant door should have started closing")
	}
}

func TestSlipperyTileSlides(t *testing.T) {
	tests := []struct {
		name     string
		start    world.Tile
		slippery []int
		want     world.Tile
		bump     bool
	}{
		{"single slide", world.Tile{X: 1, Y: 1}, []int{2}, world.Tile{X: 3, Y: 1}, false},
		{"chained slide", world.Tile{X: 1, Y: 1}, []int{2, 3, 4}, world.Tile{X: 5, Y: 1}, false},
		{"slide into wall", world.Tile{X: 7, Y: 1}, []int{8}, world.Tile{X: 8, Y: 1}, true},
	}

	for _, tt := range tests {
		m := world.NewMaze(10, 10, 1, "")
		for _, x := range tt.slippery {
			m.AddSlipperyTile(x, 1, 0)
		}
		p := NewPlayer(tt.start.X, tt.start.Y, 0, world.East)
		if !p.StartMoveForward(m) {
			t.Fatalf("%s: StartMoveForward() = false", tt.name)
		}

		slid, bumped := false, false
		for i := 0; i < 1000; i++ {
			busy := p.Update(context.Background(), frame, m)
			slid = slid || p.IsSlipping()
			bumped = bumped || p.IsBumping()
			if !busy {
				break
			}
		}

		if p.Tile() != tt.want {
			t.Errorf("%s: Tile() = %v, want %v", tt.name, p.Tile(), tt.want)
		}
		if !slid && tt.want.X-tt.start.X > 1 {
			t.Errorf("%s: slide never flagged", tt.name)
		}
		if bumped != tt.bump {
			t.Errorf("%s: bumped = %v, want %v", tt.name, bumped, tt.bump)
		}
	}
}

func TestTakeStairs(t *testing.T) {
	m := world.NewMaze(10, 10, 2, "")
	m.AddStairs(3, 3, 0, world.StairsDown, world.Tile{X: 6, Y: 6, Floor: 1})
	p := NewPlayer(3, 3, 0, world.South)

	if !p.TakeStairs(m) {
		t.Fatal("TakeStairs() = false, want true")
	}
	if p.Floor() != 1 || p.Tile() != (world.Tile{X: 6, Y: 6, Floor: 1}) {
		t.Errorf("after stairs Tile() = %v, want 6,6,1", p.Tile())
	}
	if p.TakeStairs(m) {
		t.Error("TakeStairs() without stairs = true, want false")
	}
}

func TestStateRestore(t *testing.T) {
	m := world.NewMaze(10, 10, 2, "")
	p := NewPlayer(4, 5, 1, world.West)
	p.StartMoveForward(m)

	s := p.State()
	want := PlayerState{X: 3, Y: 5, Floor: 1, Direction: int(world.West)}
	if s != want {
		t.Errorf("State() mid-move = %+v, want %+v", s, want)
	}

	q := NewPlayer(1, 1, 0, world.North)
	q.Restore(s)
	if q.Tile() != (world.Tile{X: 3, Y: 5, Floor: 1}) || q.Facing() != world.West || !q.CanAct() {
		t.Errorf("Restore() gave tile %v facing %v", q.Tile(), q.Facing())
	}

	q.Restore(PlayerState{X: 1, Y: 1, Direction: 9})
	if q.Facing() != world.North {
		t.Errorf("Restore() with bad direction faced %v, want north", q.Facing())
	}
}
