// Package native reads and writes the native ink container: a GIF image of the
// strokes that carries the stroke data itself in an application extension.
package native

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image/gif"
	"io"

	"InkStore/internal/state"
)

const (
	appIdentifier = "INKSTORE1.0"

	extensionIntroducer = 0x21
	imageSeparator      = 0x2C
	trailer             = 0x3B
	applicationLabel    = 0xFF
)

var (
	ErrNotInkContainer = errors.New("not a native ink container")
	ErrNoInk           = fmt.Errorf("no ink data in image: %w", ErrNotInkContainer)
)

// Encode writes strokes as a native ink container.
func Encode(w io.Writer, strokes []state.Stroke) error {
	if err := state.ValidateStrokes(strokes); err != nil {
		return fmt.Errorf("encode ink: %w", err)
	}

	var img bytes.Buffer
	if err := gif.Encode(&img, thumbnail(strokes), nil); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	data := img.Bytes()
	if len(data) == 0 || data[len(data)-1] != trailer {
		return errors.New("encode thumbnail: missing gif trailer")
	}

	ext := applicationExtension(encodePayload(strokes))
	for _, chunk := range [][]byte{data[:len(data)-1], ext, {trailer}} {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("write ink container: %w", err)
		}
	}
	return nil
}

// Decode reads the strokes stored in a native ink container.
func Decode(r io.Reader) ([]state.Stroke, error) {
	br := bufio.NewReader(r)

	header := make([]byte, 13)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, malformed(err)
	}
	if sig := string(header[:6]); sig != "GIF87a" && sig != "GIF89a" {
		return nil, fmt.Errorf("%w: bad signature %q", ErrNotInkContainer, sig)
	}
	if err := skipColorTable(br, header[10]); err != nil {
		return nil, err
	}

	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil, malformed(err)
		}

		switch b {
		case extensionIntroducer:
			payload, found, err := readExtension(br)
			if err != nil {
				return nil, err
			}
			if found {
				return decodePayload(payload)
			}
		case imageSeparator:
			if err := skipImage(br); err != nil {
				return nil, err
			}
		case trailer:
			return nil, ErrNoInk
		default:
			return nil, fmt.Errorf("%w: unexpected block 0x%02x", ErrNotInkContainer, b)
		}
	}
}

func malformed(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated", ErrNotInkContainer)
	}
	return fmt.Errorf("%w: %v", ErrNotInkContainer, err)
}

func applicationExtension(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+len(payload)/255+16)
	out = append(out, extensionIntroducer, applicationLabel, byte(len(appIdentifier)))
	out = append(out, appIdentifier...)
	for len(payload) > 0 {
		n := min(len(payload), 255)
		out = append(out, byte(n))
		out = append(out, payload[:n]...)
		payload = payload[n:]
	}
	return append(out, 0)
}

func readExtension(br *bufio.Reader) ([]byte, bool, error) {
	label, err := br.ReadByte()
	if err != nil {
		return nil, false, malformed(err)
	}
	if label != applicationLabel {
		_, err := readSubBlocks(br, false)
		return nil, false, err
	}

	size, err := br.ReadByte()
	if err != nil {
		return nil, false, malformed(err)
	}
	id := make([]byte, size)
	if _, err := io.ReadFull(br, id); err != nil {
		return nil, false, malformed(err)
	}
	keep := string(id) == appIdentifier
	data, err := readSubBlocks(br, keep)
	return data, keep, err
}

func readSubBlocks(br *bufio.Reader, keep bool) ([]byte, error) {
	var out []byte
	buf := make([]byte, 255)
	for {
		n, err := br.ReadByte()
		if err != nil {
			return nil, malformed(err)
		}
		if n == 0 {
			return out, nil
		}
		if _, err := io.ReadFull(br, buf[:n]); err != nil {
			return nil, malformed(err)
		}
		if keep {
			out = append(out, buf[:n]...)
		}
	}
}

func skipColorTable(br *bufio.Reader, packed byte) error {
	if packed&0x80 == 0 {
		return nil
	}
	n := 3 * (1 << ((packed & 0x07) + 1))
	if _, err := br.Discard(n); err != nil {
		return malformed(err)
	}
	return nil
}

func skipImage(br *bufio.Reader) error {
	desc := make([]byte, 9)
	if _, err := io.ReadFull(br, desc); err != nil {
		return malformed(err)
	}
	if err := skipColorTable(br, desc[8]); err != nil {
		return err
	}
	// LZW minimum code size
	if _, err := br.ReadByte(); err != nil {
		return malformed(err)
	}
	_, err := readSubBlocks(br, false)
	return err
}
