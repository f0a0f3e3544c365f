package domain

import "math"

// NormalizedRange is the length of the progress space. Progress is always measured in
// these units no matter how many waypoints the path has.
const NormalizedRange = 10.0

// Point is a position in arena coordinates, origin at the arena center, y growing downward
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Turn marks a path segment drawn as a quadratic Bézier arc instead of a straight line
type Turn struct {
	Slot    int   `json:"slot"`
	Control Point `json:"control"`
}

// Path is the closed loop the participants walk around the chairs
type Path struct {
	Waypoints []Point `json:"waypoints"`
	Turns     []Turn  `json:"turns"`
}

// Arena geometry of the default racetrack
const (
	LeftColumnX  = -100.0
	RightColumnX = 100.0
	TurnBulge    = 300.0
)

// RowOffsets are the y coordinates of the five chair rows, top to bottom
var RowOffsets = [5]float64{-140, -70, 0, 70, 140}

// DefaultPath returns the ten-waypoint racetrack: across the top row, down the right
// column, across the bottom row and back up the left column.
func DefaultPath() *Path {
	return &Path{
		Waypoints: []Point{
			{LeftColumnX, RowOffsets[0]},
			{RightColumnX, RowOffsets[0]},
			{RightColumnX, RowOffsets[1]},
			{RightColumnX, RowOffsets[2]},
			{RightColumnX, RowOffsets[3]},
			{RightColumnX, RowOffsets[4]},
			{LeftColumnX, RowOffsets[4]},
			{LeftColumnX, RowOffsets[3]},
			{LeftColumnX, RowOffsets[2]},
			{LeftColumnX, RowOffsets[1]},
		},
		Turns: []Turn{
			{Slot: 0, Control: Point{0, -TurnBulge}}, // top crossing
			{Slot: 5, Control: Point{0, TurnBulge}},  // bottom crossing
		},
	}
}

// Len returns the number of waypoints
func (p *Path) Len() int {
	return len(p.Waypoints)
}

// Effective maps an order index and a progress value onto a continuous path coordinate in [0, Len).
func (p *Path) Effective(orderIndex int, progress float64) float64 {
	n := float64(p.Len())
	return floorMod((progress+float64(orderIndex))*p.scale(), n)
}

// Position returns where the participant with the given order index stands for a progress value.
// It is pure: the same inputs always give the same point.
func (p *Path) Position(orderIndex int, progress float64) Point {
	n := p.Len()
	if n == 0 {
		return Point{}
	}

	effective := p.Effective(orderIndex, progress)
	slot := int(math.Floor(effective))
	if slot >= n {
		slot = n - 1
	}
	next := (slot + 1) % n
	frac := effective - float64(slot)

	from := p.Waypoints[slot]
	to := p.Waypoints[next]

	if control, ok := p.turnAt(slot); ok {
		return quadraticBezier(from, control, to, frac)
	}

	return Point{
		X: lerp(from.X, to.X, frac),
		Y: lerp(from.Y, to.Y, frac),
	}
}

// SettledSlot returns the waypoint the path comes to rest on when stopping from progress:
// the next integer boundary in path space.
func (p *Path) SettledSlot(progress float64) int {
	n := p.Len()
	if n == 0 {
		return 0
	}
	target := math.Ceil(progress * p.scale())
	return int(floorMod(target, float64(n)))
}

// SettleTarget returns the progress value (not folded) at which motion stops when
// stopping from progress.
func (p *Path) SettleTarget(progress float64) float64 {
	if p.Len() == 0 {
		return progress
	}
	return math.Ceil(progress*p.scale()) / p.scale()
}

// scale converts normalized progress units into waypoint units
func (p *Path) scale() float64 {
	return float64(p.Len()) / NormalizedRange
}

func (p *Path) turnAt(slot int) (Point, bool) {
	for _, t := range p.Turns {
		if t.Slot == slot {
			return t.Control, true
		}
	}
	return Point{}, false
}

func lerp(start, stop, fraction float64) float64 {
	return (1-fraction)*start + fraction*stop
}

func quadraticBezier(p0, p1, p2 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

// floorMod is x mod m folded into [0, m)
func floorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}
