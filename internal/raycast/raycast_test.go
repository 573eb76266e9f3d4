package raycast

import (
	"math"
	"math/rand"
	"testing"

	"github.com/samdwyer/mazecrawler/internal/world"
)

const eps = 1e-9

func TestTraverseCrossesGridLines(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		ox := 1 + rng.Float64()*6
		oy := 1 + rng.Float64()*6
		angle := rng.Float64() * 2 * math.Pi
		dx, dy := Direction(angle)

		prevDist := 0.0
		prevX, prevY := int(math.Floor(ox)), int(math.Floor(oy))
		steps := 0
		Traverse(ox, oy, angle, 6, 50, func(s Step) bool {
			steps++
			if s.PrevX != prevX || s.PrevY != prevY {
				t.Fatalf("step %d starts at (%d,%d), want (%d,%d)", steps, s.PrevX, s.PrevY, prevX, prevY)
			}
			if manhattan(s.PrevX, s.PrevY, s.MapX, s.MapY) != 1 {
				t.Fatalf("step %d jumps from (%d,%d) to (%d,%d)", steps, s.PrevX, s.PrevY, s.MapX, s.MapY)
			}
			if s.Distance < prevDist-eps {
				t.Fatalf("step %d distance %v decreased from %v", steps, s.Distance, prevDist)
			}

			hx, hy := ox+dx*s.Distance, oy+dy*s.Distance
			line := hy
			if s.Side == SideX {
				line = hx
			}
			if math.Abs(line-math.Round(line)) > 1e-6 {
				t.Fatalf("step %d crossing (%v,%v) is not on a grid line", steps, hx, hy)
			}

			prevDist = s.Distance
			prevX, prevY = s.MapX, s.MapY
			return true
		})
		if steps == 0 {
			t.Fatalf("ray from (%v,%v) at %v crossed nothing", ox, oy, angle)
		}
	}
}

func manhattan(ax, ay, bx, by int) int {
	dx, dy := ax-bx, ay-by
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func TestTraverseAxisAligned(t *testing.T) {
	var got []Step
	Traverse(1.5, 1.5, 0, 10, 3, func(s Step) bool {
		got = append(got, s)
		return true
	})

	if len(got) != 3 {
		t.Fatalf("len(steps) = %d, want 3", len(got))
	}
	for i, s := range got {
		if s.Side != SideY || s.MapX != 1 || s.MapY != 1-(i+1) {
			t.Errorf("step %d = %+v, want northward SideY step", i, s)
		}
		if want := 0.5 + float64(i); math.Abs(s.Distance-want) > eps {
			t.Errorf("step %d Distance = %v, want %v", i, s.Distance, want)
		}
	}
}

func TestRayAngle(t *testing.T) {
	c := NewCaster(0, 0)

	if got := c.RayAngle(0, 100, 1); math.Abs(got-(1-c.FOV/2)) > eps {
		t.Errorf("RayAngle(0) = %v, want %v", got, 1-c.FOV/2)
	}
	if got := c.RayAngle(50, 100, 1); math.Abs(got-1) > eps {
		t.Errorf("RayAngle(centre) = %v, want 1", got)
	}
	if c.MaxSteps != 10 {
		t.Errorf("MaxSteps = %d, want 10", c.MaxSteps)
	}
}

func TestCastWall(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	m.AddWall(4, 1, 0)
	c := NewCaster(0, 0)
	cam := NewCamera(1.5, 1.5, 1, 0)

	h := c.Cast(m, cam, cam.Angle)
	if !h.Hit || h.Door != nil {
		t.Fatalf("Cast() = %+v, want wall hit", h)
	}
	if h.MapX != 4 || h.MapY != 1 || h.Side != SideX {
		t.Errorf("hit cell = (%d,%d) side %v, want (4,1) side X", h.MapX, h.MapY, h.Side)
	}
	if math.Abs(h.Distance-2.5) > eps {
		t.Errorf("Distance = %v, want 2.5", h.Distance)
	}
	if math.Abs(h.WallX-0.5) > 1e-6 {
		t.Errorf("WallX = %v, want 0.5", h.WallX)
	}
}

func TestCastMissBeyondViewDistance(t *testing.T) {
	m := world.NewMaze(20, 3, 1, "")
	c := NewCaster(0, 0)
	cam := NewCamera(1.5, 1.5, 1, 0)

	if h := c.Cast(m, cam, cam.Angle); h.Hit {
		t.Errorf("Cast() down a long corridor = %+v, want miss", h)
	}
}

func TestCastDoor(t *testing.T) {
	tests := []struct {
		name       string
		progress   float64
		wantDoor   bool
		wantBehind bool
		wantMapX   int
	}{
		{"closed", 0, true, false, 2},
		{"half open", 0.5, true, true, 2},
		{"fully open", 1, false, false, 4},
	}

	for _, tt := range tests {
		m := world.NewMaze(10, 10, 1, "")
		m.AddWall(4, 1, 0)
		d := m.AddDoor(world.DoorConfig{X: 2, Y: 1, Direction: world.East})
		d.OpenProgress = tt.progress

		c := NewCaster(0, 0)
		cam := NewCamera(1.5, 1.5, 1, 0)
		h := c.Cast(m, cam, cam.Angle)

		if !h.Hit {
			t.Fatalf("%s: Cast() missed", tt.name)
		}
		if (h.Door != nil) != tt.wantDoor {
			t.Errorf("%s: door hit = %v, want %v", tt.name, h.Door != nil, tt.wantDoor)
		}
		if h.MapX != tt.wantMapX {
			t.Errorf("%s: MapX = %d, want %d", tt.name, h.MapX, tt.wantMapX)
		}
		if (h.Behind != nil) != tt.wantBehind {
			t.Errorf("%s: Behind = %v, want present %v", tt.name, h.Behind, tt.wantBehind)
		}
		if tt.wantDoor && math.Abs(h.Distance-1.5) > eps {
			t.Errorf("%s: door Distance = %v, want 1.5", tt.name, h.Distance)
		}
		if h.Behind != nil && (h.Behind.MapX != 4 || math.Abs(h.Behind.Distance-2.5) > eps) {
			t.Errorf("%s: Behind = %+v, want wall at x=4 distance 2.5", tt.name, h.Behind)
		}
	}
}

func TestCastDoorFromEitherSide(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	m.AddDoor(world.DoorConfig{X: 2, Y: 1, Direction: world.East})
	c := NewCaster(0, 0)

	// Looking west from (5,1) the same door is met from its far side.
	cam := NewCamera(5.5, 1.5, 3, 0)
	h := c.Cast(m, cam, cam.Angle)
	if h.Door == nil {
		t.Fatalf("Cast() = %+v, want door hit", h)
	}
	if h.MapX != 3 || math.Abs(h.Distance-2.5) > eps {
		t.Errorf("hit = (%d, %v), want pinned to x=3 at distance 2.5", h.MapX, h.Distance)
	}
}

func TestPerpendicularDistanceIsFlat(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	for y := 1; y < 9; y++ {
		m.AddWall(4, y, 0)
	}
	c := NewCaster(0, 0)
	cam := NewCamera(1.5, 4.5, 1, 0)

	for col, h := range c.CastColumns(m, cam, 64) {
		if !h.Hit || h.Side != SideX {
			t.Fatalf("column %d = %+v, want X-side hit", col, h)
		}
		if math.Abs(h.Distance-2.5) > 1e-9 {
			t.Errorf("column %d Distance = %v, want 2.5", col, h.Distance)
		}
	}
}

func TestCastColumnsMatchesCast(t *testing.T) {
	m := world.NewMaze(10, 10, 1, "")
	m.AddWall(5, 3, 0)
	m.AddSlipperyTile(3, 3, 0)
	m.AddDoor(world.DoorConfig{X: 3, Y: 4, Direction: world.North})
	c := NewCaster(0, 0)
	cam := NewCamera(3.3, 5.7, 0.4, 0)

	const cols = 97
	hits := c.CastColumns(m, cam, cols)
	if len(hits) != cols {
		t.Fatalf("len(hits) = %d, want %d", len(hits), cols)
	}
	for col := 0; col < cols; col++ {
		want := c.Cast(m, cam, c.RayAngle(col, cols, cam.Angle))
		got := hits[col]
		if got.Hit != want.Hit || got.Distance != want.Distance || got.Door != want.Door || got.MapX != want.MapX || got.MapY != want.MapY {
			t.Errorf("column %d = %+v, want %+v", col, got, want)
		}
	}

	if c.CastColumns(m, cam, 0) != nil {
		t.Error("CastColumns(0) should return nil")
	}
}
