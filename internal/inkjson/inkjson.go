// Package inkjson flattens captured strokes into the JSON document written
// next to every loaded ink file.
package inkjson

import (
	"encoding/json"
	"fmt"
	"io"

	"InkStore/internal/state"
)

type Point struct {
	X        float64 `json:"X"`
	Y        float64 `json:"Y"`
	Pressure float32 `json:"pressure"`
}

type Color struct {
	A uint8 `json:"A"`
	R uint8 `json:"R"`
	G uint8 `json:"G"`
	B uint8 `json:"B"`
}

type Size struct {
	Width  float64 `json:"Width"`
	Height float64 `json:"Height"`
}

type Stroke struct {
	Points         []Point `json:"points"`
	Color          Color   `json:"color"`
	Size           Size    `json:"size"`
	IgnorePressure bool    `json:"ignorePressure"`
}

// Collection is the document root. It is built fresh for every save.
type Collection struct {
	StrokeData []Stroke `json:"strokedata"`
}

// Snapshot converts strokes into a serializable collection.
func Snapshot(strokes []state.Stroke) Collection {
	out := Collection{StrokeData: make([]Stroke, 0, len(strokes))}
	for _, s := range strokes {
		points := make([]Point, 0, len(s.Points))
		for _, p := range s.Points {
			points = append(points, Point{X: p.X, Y: p.Y, Pressure: p.Pressure})
		}
		a := s.Attributes
		out.StrokeData = append(out.StrokeData, Stroke{
			Points:         points,
			Color:          Color{A: a.Color.A, R: a.Color.R, G: a.Color.G, B: a.Color.B},
			Size:           Size{Width: a.Size.Width, Height: a.Size.Height},
			IgnorePressure: a.IgnorePressure,
		})
	}
	return out
}

// Strokes converts the collection back into model strokes without IDs.
func (c Collection) Strokes() []state.Stroke {
	out := make([]state.Stroke, 0, len(c.StrokeData))
	for _, s := range c.StrokeData {
		points := make([]state.Point, 0, len(s.Points))
		for _, p := range s.Points {
			points = append(points, state.Point{X: p.X, Y: p.Y, Pressure: p.Pressure})
		}
		out = append(out, state.Stroke{
			Points: points,
			Attributes: state.DrawingAttributes{
				Color:          state.Color{A: s.Color.A, R: s.Color.R, G: s.Color.G, B: s.Color.B},
				Size:           state.Size{Width: s.Size.Width, Height: s.Size.Height},
				IgnorePressure: s.IgnorePressure,
			},
		})
	}
	return out
}

// Marshal returns the compact JSON text of c.
func Marshal(c Collection) ([]byte, error) {
	if c.StrokeData == nil {
		c.StrokeData = []Stroke{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal strokes: %w", err)
	}
	return data, nil
}

// Encode writes the JSON snapshot of strokes to w.
func Encode(w io.Writer, strokes []state.Stroke) error {
	data, err := Marshal(Snapshot(strokes))
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write strokes: %w", err)
	}
	return nil
}

// Decode reads a JSON document produced by Encode.
func Decode(r io.Reader) ([]state.Stroke, error) {
	var c Collection
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode strokes: %w", err)
	}
	return c.Strokes(), nil
}
