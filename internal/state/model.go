package state

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// Point is a single captured ink sample.
type Point struct {
	X, Y     float64
	Pressure float32
}

// Color is an ARGB colour, one byte per channel.
type Color struct {
	A, R, G, B uint8
}

// RGBA converts to the standard library colour type.
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// ColorFrom converts any color.Color to non-premultiplied ARGB.
func ColorFrom(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{A: n.A, R: n.R, G: n.G, B: n.B}
}

// Size is the pen tip size.
type Size struct {
	Width, Height float64
}

// NominalPressure is the pressure a mouse reports; at this pressure a pen draws
// at its nominal tip size.
const NominalPressure = 0.5

// ErrInvalidStroke marks a stroke with a non-finite or negative value.
var ErrInvalidStroke = errors.New("invalid stroke")

// DrawingAttributes is how a stroke is rendered.
type DrawingAttributes struct {
	Color          Color
	Size           Size
	IgnorePressure bool
}

// DefaultAttributes is a 2x2 opaque black pen that honours pressure.
func DefaultAttributes() DrawingAttributes {
	return DrawingAttributes{
		Color: Color{A: 255},
		Size:  Size{Width: 2, Height: 2},
	}
}

// Width is the tip width for a sample at pressure. Pressure scales it linearly
// unless IgnorePressure is set.
func (a DrawingAttributes) Width(pressure float32) float64 {
	w := math.Max(a.Size.Width, a.Size.Height)
	if !a.IgnorePressure {
		w *= float64(pressure) / NominalPressure
	}
	return w
}

// Stroke is one continuous pen or mouse drag. Points are kept in capture order.
type Stroke struct {
	ID         string
	Points     []Point
	Attributes DrawingAttributes
}

// Clone returns a copy that shares no memory with s.
func (s Stroke) Clone() Stroke {
	c := s
	c.Points = make([]Point, len(s.Points))
	copy(c.Points, s.Points)
	return c
}

// Validate rejects NaN or infinite values and negative sizes or pressures.
func (s Stroke) Validate() error {
	size := s.Attributes.Size
	if !finite(size.Width) || !finite(size.Height) || size.Width < 0 || size.Height < 0 {
		return fmt.Errorf("%w: pen size %gx%g", ErrInvalidStroke, size.Width, size.Height)
	}
	for i, p := range s.Points {
		if !finite(p.X) || !finite(p.Y) || !finite(float64(p.Pressure)) || p.Pressure < 0 {
			return fmt.Errorf("%w: point %d (%g, %g, %g)", ErrInvalidStroke, i, p.X, p.Y, p.Pressure)
		}
	}
	return nil
}

// ValidateStrokes returns the first invalid stroke's error.
func ValidateStrokes(strokes []Stroke) error {
	for i, s := range strokes {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// OpType names a container mutation.
type OpType string

const (
	OpInsertStroke OpType = "insert_stroke"
	OpClear        OpType = "clear"
	OpLoad         OpType = "load"
)

// Op records one container mutation.
type Op struct {
	Type    OpType
	Stroke  *Stroke // set for OpInsertStroke
	Count   int     // strokes in the container after the op
	Lamport uint64
	Site    string
}
