// Package raycast implements the grid ray traversal shared by the
// renderer's wall and door hits.
package raycast

import "math"

// Side tells which family of grid lines a ray crossed.
type Side int

const (
	// SideX is a crossing of a vertical grid line (x = const).
	SideX Side = iota
	// SideY is a crossing of a horizontal grid line (y = const).
	SideY
)

// Step is one grid-line crossing of a traversal.
type Step struct {
	PrevX, PrevY int // cell the ray left
	MapX, MapY   int // cell the ray entered
	Side         Side
	Distance     float64 // along the ray to the crossed line
}

// Direction returns the unit vector of a view angle in radians. Angle 0
// looks north (negative y); angles grow clockwise.
func Direction(angle float64) (dx, dy float64) {
	return math.Sin(angle), -math.Cos(angle)
}

// Traverse walks a ray from (ox, oy) through the grid, calling visit for
// every cell boundary it crosses in order. The walk ends when visit
// returns false, the next crossing lies beyond maxDist, or maxSteps
// crossings have been visited.
func Traverse(ox, oy, angle, maxDist float64, maxSteps int, visit func(Step) bool) {
	dirX, dirY := Direction(angle)
	mapX, mapY := int(math.Floor(ox)), int(math.Floor(oy))

	stepX, sideDistX, deltaX := axisSetup(ox, mapX, dirX)
	stepY, sideDistY, deltaY := axisSetup(oy, mapY, dirY)

	for i := 0; i < maxSteps; i++ {
		s := Step{PrevX: mapX, PrevY: mapY}
		if sideDistX < sideDistY {
			s.Distance = sideDistX
			s.Side = SideX
			sideDistX += deltaX
			mapX += stepX
		} else {
			s.Distance = sideDistY
			s.Side = SideY
			sideDistY += deltaY
			mapY += stepY
		}
		if s.Distance > maxDist {
			return
		}
		s.MapX, s.MapY = mapX, mapY
		if !visit(s) {
			return
		}
	}
}

// axisSetup returns the cell step, the distance to the first grid line and
// the distance between grid lines along one axis.
func axisSetup(origin float64, cell int, dir float64) (step int, first, delta float64) {
	if dir == 0 {
		return 0, math.Inf(1), math.Inf(1)
	}
	delta = math.Abs(1 / dir)
	if dir < 0 {
		return -1, (origin - float64(cell)) * delta, delta
	}
	return 1, (float64(cell) + 1 - origin) * delta, delta
}
