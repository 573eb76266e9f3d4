package raycast

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/mazecrawler/internal/world"
)

// Defaults for a Caster.
const (
	DefaultFOV          = math.Pi / 3
	DefaultViewDistance = 5.0
)

// Scene is the grid a ray is cast through.
type Scene interface {
	IsWall(x, y, floor int) bool
	DoorBetween(a, b world.Tile) *world.Door
}

// Camera is a viewpoint. Angle is in radians, 0 facing north.
type Camera struct {
	X, Y  float64
	Angle float64
	Floor int
}

// NewCamera builds a camera from a heading in quarter turns.
func NewCamera(x, y, heading float64, floor int) Camera {
	return Camera{X: x, Y: y, Angle: heading * math.Pi / 2, Floor: floor}
}

// Hit is the result of casting one ray.
type Hit struct {
	Hit         bool
	Distance    float64 // perpendicular to the camera plane
	RayDistance float64 // along the ray
	Side        Side
	WallX       float64 // texture u in [0, 1)
	Door        *world.Door
	MapX, MapY  int

	// Behind is the first hit past a partially open door.
	Behind *Hit
}

// Caster casts rays through a Scene.
type Caster struct {
	FOV          float64
	ViewDistance float64
	MaxSteps     int
}

// NewCaster creates a caster. Non-positive arguments select the defaults.
func NewCaster(fov, viewDistance float64) *Caster {
	if fov <= 0 {
		fov = DefaultFOV
	}
	if viewDistance <= 0 {
		viewDistance = DefaultViewDistance
	}
	return &Caster{
		FOV:          fov,
		ViewDistance: viewDistance,
		MaxSteps:     2 * int(math.Ceil(viewDistance)),
	}
}

// RayAngle returns the angle of the ray for one screen column. Columns
// are spread rectilinearly across the field of view.
func (c *Caster) RayAngle(column, columns int, base float64) float64 {
	cameraX := 2*float64(column)/float64(columns) - 1
	return base + math.Atan(cameraX*math.Tan(c.FOV/2))
}

// Cast casts a single ray at angle from the camera.
func (c *Caster) Cast(scene Scene, cam Camera, angle float64) Hit {
	dirX, dirY := Direction(angle)
	perp := math.Cos(angle - cam.Angle)

	var first, behind *Hit
	Traverse(cam.X, cam.Y, angle, c.ViewDistance, c.MaxSteps, func(s Step) bool {
		h, ok := c.test(scene, cam, s)
		if !ok {
			return true
		}
		h.RayDistance = s.Distance
		h.Distance = s.Distance * perp
		h.WallX = textureU(cam.X+dirX*s.Distance, cam.Y+dirY*s.Distance, s.Side)

		if first == nil {
			first = &h
			// A partly open door needs whatever lies behind it.
			return h.Door != nil && h.Door.OpenProgress > 0
		}
		behind = &h
		return false
	})

	if first == nil {
		return Hit{}
	}
	first.Behind = behind
	return *first
}

// test reports whether the crossing s stops the ray. A door on the
// crossed edge is pinned to the cell the ray left.
func (c *Caster) test(scene Scene, cam Camera, s Step) (Hit, bool) {
	from := world.Tile{X: s.PrevX, Y: s.PrevY, Floor: cam.Floor}
	to := world.Tile{X: s.MapX, Y: s.MapY, Floor: cam.Floor}

	if d := scene.DoorBetween(from, to); d != nil && d.OpenProgress < 1 {
		return Hit{Hit: true, Side: s.Side, Door: d, MapX: s.PrevX, MapY: s.PrevY}, true
	}
	if scene.IsWall(s.MapX, s.MapY, cam.Floor) {
		return Hit{Hit: true, Side: s.Side, MapX: s.MapX, MapY: s.MapY}, true
	}
	return Hit{}, false
}

func textureU(hx, hy float64, side Side) float64 {
	v := hx
	if side == SideX {
		v = hy
	}
	return v - math.Floor(v)
}

// CastColumns casts one ray per column. Columns are independent and are
// cast concurrently; the scene must not change until it returns.
func (c *Caster) CastColumns(scene Scene, cam Camera, columns int) []Hit {
	if columns <= 0 {
		return nil
	}
	hits := make([]Hit, columns)

	workers := runtime.GOMAXPROCS(0)
	chunk := (columns + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < columns; start += chunk {
		end := min(start+chunk, columns)
		g.Go(func() error {
			for col := start; col < end; col++ {
				hits[col] = c.Cast(scene, cam, c.RayAngle(col, columns, cam.Angle))
			}
			return nil
		})
	}
	_ = g.Wait()

	return hits
}
