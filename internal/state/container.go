package state

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StrokeContainer owns the live stroke list of a capture surface.
// It is safe for concurrent use.
type StrokeContainer struct {
	strokes     []Stroke
	subscribers []func(Op)
	log         zerolog.Logger
	mu          sync.RWMutex
}

func NewStrokeContainer(log zerolog.Logger) *StrokeContainer {
	return &StrokeContainer{
		strokes: make([]Stroke, 0),
		log:     log.With().Str("component", "container").Logger(),
	}
}

// Subscribe registers fn to be called after every mutation.
// fn runs on the mutating goroutine, outside the container lock.
func (c *StrokeContainer) Subscribe(fn func(Op)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Add appends a stroke and returns the stored copy. An empty ID is replaced
// with a fresh uuid.
func (c *StrokeContainer) Add(s Stroke) Stroke {
	stored := s.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	c.mu.Lock()
	c.strokes = append(c.strokes, stored)
	count := len(c.strokes)
	c.mu.Unlock()

	c.log.Debug().Str("stroke", stored.ID).Int("points", len(stored.Points)).Msg("stroke added")
	out := stored.Clone()
	c.emit(Op{Type: OpInsertStroke, Stroke: &out, Count: count})
	return stored.Clone()
}

// Clear discards every stroke.
func (c *StrokeContainer) Clear() {
	c.mu.Lock()
	dropped := len(c.strokes)
	c.strokes = make([]Stroke, 0)
	c.mu.Unlock()

	c.log.Debug().Int("dropped", dropped).Msg("container cleared")
	c.emit(Op{Type: OpClear})
}

// Replace swaps the whole stroke list, as a native load does.
func (c *StrokeContainer) Replace(strokes []Stroke) {
	next := make([]Stroke, 0, len(strokes))
	for _, s := range strokes {
		s = s.Clone()
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		next = append(next, s)
	}

	c.mu.Lock()
	c.strokes = next
	c.mu.Unlock()

	c.log.Debug().Int("strokes", len(next)).Msg("container replaced")
	c.emit(Op{Type: OpLoad, Count: len(next)})
}

// Strokes returns the strokes in order. The result is a deep copy.
func (c *StrokeContainer) Strokes() []Stroke {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Stroke, 0, len(c.strokes))
	for _, s := range c.strokes {
		out = append(out, s.Clone())
	}
	return out
}

// Len is the number of strokes held.
func (c *StrokeContainer) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.strokes)
}

func (c *StrokeContainer) emit(op Op) {
	op = stamp(op)
	c.mu.RLock()
	subs := make([]func(Op), len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.RUnlock()
	for _, fn := range subs {
		fn(op)
	}
}
