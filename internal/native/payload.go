package native

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"InkStore/internal/state"
)

const (
	payloadVersion = 1

	flagIgnorePressure = 1 << 0

	strokeHeaderSize = 4 + 8 + 8 + 1
	pointSize        = 8 + 8 + 4
)

func encodePayload(strokes []state.Stroke) []byte {
	out := []byte{payloadVersion}
	out = binary.AppendUvarint(out, uint64(len(strokes)))
	for _, s := range strokes {
		a := s.Attributes
		out = append(out, a.Color.A, a.Color.R, a.Color.G, a.Color.B)
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(a.Size.Width))
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(a.Size.Height))
		var flags byte
		if a.IgnorePressure {
			flags |= flagIgnorePressure
		}
		out = append(out, flags)

		out = binary.AppendUvarint(out, uint64(len(s.Points)))
		for _, p := range s.Points {
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(p.X))
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(p.Y))
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(p.Pressure))
		}
	}
	return out
}

func decodePayload(data []byte) ([]state.Stroke, error) {
	r := bytes.NewReader(data)
	version, err := r.ReadByte()
	if err != nil {
		return nil, malformed(err)
	}
	if version != payloadVersion {
		return nil, fmt.Errorf("%w: unsupported ink version %d", ErrNotInkContainer, version)
	}

	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, malformed(err)
	}
	if count > uint64(r.Len())/strokeHeaderSize {
		return nil, fmt.Errorf("%w: stroke count %d exceeds payload", ErrNotInkContainer, count)
	}

	strokes := make([]state.Stroke, 0, count)
	for i := uint64(0); i < count; i++ {
		s, err := decodeStroke(r)
		if err != nil {
			return nil, err
		}
		strokes = append(strokes, s)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing payload bytes", ErrNotInkContainer, r.Len())
	}
	return strokes, nil
}

func decodeStroke(r *bytes.Reader) (state.Stroke, error) {
	var head struct {
		A, R, G, B    uint8
		Width, Height float64
		Flags         uint8
	}
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return state.Stroke{}, malformed(err)
	}

	n, err := binary.ReadUvarint(r)
	if err != nil {
		return state.Stroke{}, malformed(err)
	}
	if n > uint64(r.Len())/pointSize {
		return state.Stroke{}, fmt.Errorf("%w: point count %d exceeds payload", ErrNotInkContainer, n)
	}

	points := make([]state.Point, n)
	if err := binary.Read(r, binary.LittleEndian, points); err != nil {
		return state.Stroke{}, malformed(err)
	}

	s := state.Stroke{
		Points: points,
		Attributes: state.DrawingAttributes{
			Color:          state.Color{A: head.A, R: head.R, G: head.G, B: head.B},
			Size:           state.Size{Width: head.Width, Height: head.Height},
			IgnorePressure: head.Flags&flagIgnorePressure != 0,
		},
	}
	if err := s.Validate(); err != nil {
		return state.Stroke{}, fmt.Errorf("%w: %v", ErrNotInkContainer, err)
	}
	return s, nil
}
