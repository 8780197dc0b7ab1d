package state

import "math"

// Area is an axis-aligned rectangle on the canvas.
type Area struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (a Area) Empty() bool {
	return a.Width <= 0 && a.Height <= 0
}

func (a Area) MaxX() float64 { return a.X + a.Width }
func (a Area) MaxY() float64 { return a.Y + a.Height }

// Union returns the smallest area covering a and b. An empty area is ignored.
func (a Area) Union(b Area) Area {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	minX := math.Min(a.X, b.X)
	minY := math.Min(a.Y, b.Y)
	maxX := math.Max(a.MaxX(), b.MaxX())
	maxY := math.Max(a.MaxY(), b.MaxY())
	return Area{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// StrokeBounds is the box around the stroke's points, padded by half the pen
// tip so the rendered ink fits inside.
func StrokeBounds(s Stroke) Area {
	if len(s.Points) == 0 {
		return Area{}
	}

	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	padX := s.Attributes.Size.Width / 2
	padY := s.Attributes.Size.Height / 2
	return Area{
		X:      minX - padX,
		Y:      minY - padY,
		Width:  maxX - minX + 2*padX,
		Height: maxY - minY + 2*padY,
	}
}

// Bounds covers every stroke in strokes.
func Bounds(strokes []Stroke) Area {
	var out Area
	for _, s := range strokes {
		out = out.Union(StrokeBounds(s))
	}
	return out
}
