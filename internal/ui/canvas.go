package ui

import (
	"image/color"
	"sync"

	"InkStore/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

// InkCanvas captures mouse and pen drags as strokes. It does not implement
// mobile.Touchable, so touch input never produces ink.
type InkCanvas struct {
	widget.BaseWidget
	strokes *state.StrokeContainer
	log     zerolog.Logger

	mu      sync.RWMutex
	current *state.Stroke
	attrs   state.DrawingAttributes
}

var _ fyne.Widget = (*InkCanvas)(nil)
var _ fyne.Draggable = (*InkCanvas)(nil)
var _ desktop.Mouseable = (*InkCanvas)(nil)

func NewInkCanvas(strokes *state.StrokeContainer, log zerolog.Logger) *InkCanvas {
	c := &InkCanvas{
		strokes: strokes,
		attrs:   state.DefaultAttributes(),
		log:     log.With().Str("component", "canvas").Logger(),
	}
	c.ExtendBaseWidget(c)
	strokes.Subscribe(func(state.Op) {
		fyne.Do(c.Refresh)
	})
	return c
}

// Clear discards every stroke on the canvas.
func (c *InkCanvas) Clear() {
	c.strokes.Clear()
}

// Strokes returns the committed strokes in capture order.
func (c *InkCanvas) Strokes() []state.Stroke {
	return c.strokes.Strokes()
}

func (c *InkCanvas) SetColor(col color.Color) {
	c.mu.Lock()
	c.attrs.Color = state.ColorFrom(col)
	c.mu.Unlock()
}

func (c *InkCanvas) SetPenSize(size float64) {
	c.mu.Lock()
	c.attrs.Size = state.Size{Width: size, Height: size}
	c.mu.Unlock()
}

func (c *InkCanvas) Attributes() state.DrawingAttributes {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.attrs
}

func sample(pos fyne.Position) state.Point {
	return state.Point{X: float64(pos.X), Y: float64(pos.Y), Pressure: state.NominalPressure}
}

func (c *InkCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	// a press without a release for the previous stroke still keeps it
	c.commit()
	c.mu.Lock()
	c.current = &state.Stroke{
		Points:     []state.Point{sample(e.Position)},
		Attributes: c.attrs,
	}
	c.mu.Unlock()
	c.Refresh()
}

func (c *InkCanvas) Dragged(e *fyne.DragEvent) {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return
	}
	c.current.Points = append(c.current.Points, sample(e.Position))
	c.mu.Unlock()
	c.Refresh()
}

func (c *InkCanvas) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.commit()
}

// DragEnd commits the stroke in case the release happens outside the widget
// and MouseUp never arrives.
func (c *InkCanvas) DragEnd() {
	c.commit()
}

// commit moves the in-progress stroke into the container. Only the first of
// DragEnd and MouseUp finds a stroke to add.
func (c *InkCanvas) commit() {
	c.mu.Lock()
	done := c.current
	c.current = nil
	c.mu.Unlock()

	if done == nil {
		return
	}
	stored := c.strokes.Add(*done)
	c.log.Debug().Str("stroke", stored.ID).Int("points", len(stored.Points)).Msg("stroke captured")
}

func (c *InkCanvas) MouseIn(*desktop.MouseEvent)    {}
func (c *InkCanvas) MouseOut()                      {}
func (c *InkCanvas) MouseMoved(*desktop.MouseEvent) {}

func (c *InkCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &inkCanvasRenderer{ink: c, background: canvas.NewRectangle(color.White)}
	r.rebuild()
	return r
}

type inkCanvasRenderer struct {
	ink        *InkCanvas
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *inkCanvasRenderer) rebuild() {
	strokes := r.ink.strokes.Strokes()
	r.ink.mu.RLock()
	if r.ink.current != nil {
		strokes = append(strokes, r.ink.current.Clone())
	}
	r.ink.mu.RUnlock()

	objects := []fyne.CanvasObject{r.background}
	for _, s := range strokes {
		objects = append(objects, strokeObjects(s)...)
	}
	r.objects = objects
}

func strokeObjects(s state.Stroke) []fyne.CanvasObject {
	col := s.Attributes.Color.RGBA()
	width := float32(s.Attributes.Size.Width)

	if len(s.Points) == 1 {
		p := s.Points[0]
		dot := canvas.NewCircle(col)
		dot.Resize(fyne.NewSize(width, width))
		dot.Move(fyne.NewPos(float32(p.X)-width/2, float32(p.Y)-width/2))
		return []fyne.CanvasObject{dot}
	}

	out := make([]fyne.CanvasObject, 0, len(s.Points))
	for i := 1; i < len(s.Points); i++ {
		segment := canvas.NewLine(col)
		segment.StrokeWidth = width
		segment.Position1 = fyne.NewPos(float32(s.Points[i-1].X), float32(s.Points[i-1].Y))
		segment.Position2 = fyne.NewPos(float32(s.Points[i].X), float32(s.Points[i].Y))
		out = append(out, segment)
	}
	return out
}

func (r *inkCanvasRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *inkCanvasRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.ink)
}

func (r *inkCanvasRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *inkCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *inkCanvasRenderer) Destroy() {}
