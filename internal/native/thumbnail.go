package native

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"InkStore/internal/state"

	"golang.org/x/image/vector"
)

const (
	thumbMargin  = 4
	thumbMaxSide = 512
)

// thumbnail rasterizes strokes onto a white image sized to their bounds.
func thumbnail(strokes []state.Stroke) *image.RGBA {
	bounds := state.Bounds(strokes)
	if bounds.Empty() {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.Set(0, 0, color.White)
		return img
	}

	scale := 1.0
	if side := math.Max(bounds.Width, bounds.Height); side > thumbMaxSide {
		scale = thumbMaxSide / side
	}
	w := int(math.Ceil(math.Max(bounds.Width, 0)*scale)) + 2*thumbMargin
	h := int(math.Ceil(math.Max(bounds.Height, 0)*scale)) + 2*thumbMargin

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	project := func(p state.Point) (float32, float32) {
		x := (p.X-bounds.X)*scale + thumbMargin
		y := (p.Y-bounds.Y)*scale + thumbMargin
		return float32(x), float32(y)
	}

	r := vector.NewRasterizer(w, h)
	for _, s := range strokes {
		if len(s.Points) == 0 {
			continue
		}
		r.Reset(w, h)
		r.DrawOp = draw.Over

		if len(s.Points) == 1 {
			x, y := project(s.Points[0])
			half := float32(penWidth(s.Attributes, s.Points[0].Pressure, scale) / 2)
			addQuad(r, x-half, y-half, x+half, y-half, x+half, y+half, x-half, y+half)
		}
		for i := 1; i < len(s.Points); i++ {
			a, b := s.Points[i-1], s.Points[i]
			ax, ay := project(a)
			bx, by := project(b)
			half := penWidth(s.Attributes, (a.Pressure+b.Pressure)/2, scale) / 2
			addSegment(r, ax, ay, bx, by, float32(half))
		}
		r.Draw(img, img.Bounds(), image.NewUniform(s.Attributes.Color.RGBA()), image.Point{})
	}
	return img
}

func penWidth(a state.DrawingAttributes, pressure float32, scale float64) float64 {
	return math.Max(a.Width(pressure)*scale, 1)
}

func addSegment(r *vector.Rasterizer, ax, ay, bx, by, half float32) {
	dx, dy := bx-ax, by-ay
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		addQuad(r, ax-half, ay-half, ax+half, ay-half, ax+half, ay+half, ax-half, ay+half)
		return
	}
	// unit normal times half width
	nx, ny := -dy/length*half, dx/length*half
	// extend along the segment so consecutive segments overlap at the joint
	ex, ey := dx/length*half, dy/length*half
	addQuad(r,
		ax+nx-ex, ay+ny-ey,
		bx+nx+ex, by+ny+ey,
		bx-nx+ex, by-ny+ey,
		ax-nx-ex, ay-ny-ey,
	)
}

func addQuad(r *vector.Rasterizer, x0, y0, x1, y1, x2, y2, x3, y3 float32) {
	r.MoveTo(x0, y0)
	r.LineTo(x1, y1)
	r.LineTo(x2, y2)
	r.LineTo(x3, y3)
	r.ClosePath()
}
