package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"InkStore/internal/config"
	"InkStore/internal/native"
	"InkStore/internal/state"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFile struct {
	name   string
	data   []byte
	opened int
	closed int
}

func (f *memFile) Name() string { return f.name }

func (f *memFile) Open() (io.ReadCloser, error) {
	f.opened++
	return &trackedReader{Reader: bytes.NewReader(f.data), f: f}, nil
}

type trackedReader struct {
	io.Reader
	f *memFile
}

func (r *trackedReader) Close() error {
	r.f.closed++
	return nil
}

type countingLauncher struct {
	dirs []string
}

func (l *countingLauncher) OpenFolder(dir string) error {
	l.dirs = append(l.dirs, dir)
	return nil
}

type pickerFunc func(ctx context.Context) ([]File, error)

func (f pickerFunc) Pick(ctx context.Context) ([]File, error) { return f(ctx) }

func inkStrokes(k int) []state.Stroke {
	out := make([]state.Stroke, k)
	for i := range out {
		out[i] = state.Stroke{
			Points: []state.Point{
				{X: float64(i), Y: 1, Pressure: 0.5},
				{X: float64(i) + 1, Y: 2, Pressure: 0.5},
			},
			Attributes: state.DefaultAttributes(),
		}
	}
	return out
}

func inkFile(t *testing.T, name string, k int) *memFile {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, native.Encode(&buf, inkStrokes(k)))
	return &memFile{name: name, data: buf.Bytes()}
}

type harness struct {
	bridge   *Bridge
	surface  *state.StrokeContainer
	launcher *countingLauncher
	loads    int
	states   []State
	dir      string
}

func newHarness(t *testing.T, picker Picker) *harness {
	h := &harness{
		surface:  state.NewStrokeContainer(zerolog.Nop()),
		launcher: &countingLauncher{},
		dir:      filepath.Join(t.TempDir(), "local"),
	}
	load := func(r io.Reader) ([]state.Stroke, error) {
		h.loads++
		return native.Decode(r)
	}
	h.bridge = New(config.Default(h.dir), picker, h.surface, load, h.launcher, zerolog.Nop())
	h.bridge.OnStateChange = func(s State) { h.states = append(h.states, s) }
	return h
}

func readStrokeData(t *testing.T, path string) []any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string][]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc["strokedata"]
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"sketch.v1.gif", "sketch.json"},
		{"sketch.gif", "sketch.json"},
		{"notes", "notes.json"},
		{".hidden.gif", ".json"},
		{"/some/where/page.gif", "page.json"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputName(tt.in))
		})
	}
}

func TestPromptAndLoad_Cancel(t *testing.T) {
	h := newHarness(t, StaticPicker(nil))
	h.surface.Add(inkStrokes(1)[0])

	results, err := h.bridge.PromptAndLoad(context.Background())
	require.NoError(t, err)

	assert.Nil(t, results)
	assert.Zero(t, h.loads)
	assert.Empty(t, h.launcher.dirs)
	assert.NoDirExists(t, h.dir)
	assert.Equal(t, 1, h.surface.Len())
	assert.Equal(t, []State{Picking, Cancelled, Idle}, h.states)
}

func TestPromptAndLoad_SingleFile(t *testing.T) {
	f := inkFile(t, "sketch.v1.gif", 3)
	h := newHarness(t, StaticPicker{f})

	results, err := h.bridge.PromptAndLoad(context.Background())
	require.NoError(t, err)

	want := filepath.Join(h.dir, "sketch.json")
	require.Len(t, results, 1)
	assert.Equal(t, Result{Source: "sketch.v1.gif", Output: want, Strokes: 3}, results[0])
	assert.Len(t, readStrokeData(t, want), 3)
	assert.Equal(t, 1, f.opened)
	assert.Equal(t, 1, f.closed)
	assert.Equal(t, []string{h.dir}, h.launcher.dirs)
	assert.Equal(t, []State{Picking, Loading, Saving, Idle}, h.states)
	assert.Equal(t, Idle, h.bridge.State())
}

func TestPromptAndLoad_FilesAreIndependent(t *testing.T) {
	a := inkFile(t, "first.gif", 2)
	b := inkFile(t, "second.gif", 5)
	h := newHarness(t, StaticPicker{a, b})

	results, err := h.bridge.PromptAndLoad(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Len(t, readStrokeData(t, filepath.Join(h.dir, "first.json")), 2)
	assert.Len(t, readStrokeData(t, filepath.Join(h.dir, "second.json")), 5)
	assert.Equal(t, 5, h.surface.Len())
	assert.Len(t, h.launcher.dirs, 1)
	assert.Equal(t, []State{Picking, Loading, Saving, Loading, Saving, Idle}, h.states)
}

func TestPromptAndLoad_OverwritesExisting(t *testing.T) {
	h := newHarness(t, StaticPicker{inkFile(t, "page.gif", 1)})
	require.NoError(t, os.MkdirAll(h.dir, 0o755))
	out := filepath.Join(h.dir, "page.json")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0o644))

	_, err := h.bridge.PromptAndLoad(context.Background())
	require.NoError(t, err)
	assert.Len(t, readStrokeData(t, out), 1)
}

func TestPromptAndLoad_InvalidInkAborts(t *testing.T) {
	bad := &memFile{name: "broken.gif", data: []byte("not ink")}
	good := inkFile(t, "good.gif", 1)
	h := newHarness(t, StaticPicker{bad, good})

	results, err := h.bridge.PromptAndLoad(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, native.ErrNotInkContainer)
	assert.Empty(t, results)
	assert.Equal(t, 1, bad.closed)
	assert.Zero(t, good.opened)
	assert.Empty(t, h.launcher.dirs)
	assert.NoFileExists(t, filepath.Join(h.dir, "broken.json"))
	assert.Equal(t, Idle, h.bridge.State())
}

func TestPromptAndLoad_PickerError(t *testing.T) {
	boom := errors.New("dialog failed")
	h := newHarness(t, pickerFunc(func(context.Context) ([]File, error) { return nil, boom }))

	_, err := h.bridge.PromptAndLoad(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Idle, h.bridge.State())
}

func TestPromptAndLoad_Busy(t *testing.T) {
	var h *harness
	var inner error
	h = newHarness(t, pickerFunc(func(ctx context.Context) ([]File, error) {
		_, inner = h.bridge.PromptAndLoad(ctx)
		return nil, nil
	}))

	_, err := h.bridge.PromptAndLoad(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrBusy)
}

func TestPromptAndLoadFrom_OtherPicker(t *testing.T) {
	h := newHarness(t, StaticPicker(nil))

	results, err := h.bridge.PromptAndLoadFrom(context.Background(), StaticPicker{
		inkFile(t, "a.gif", 1),
		inkFile(t, "b.gif", 2),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "b.gif", results[1].Source)
	assert.FileExists(t, filepath.Join(h.dir, "a.json"))
	assert.FileExists(t, filepath.Join(h.dir, "b.json"))

	results, err = h.bridge.PromptAndLoad(context.Background())
	require.NoError(t, err)
	assert.Nil(t, results, "default picker is still used")
}

func TestPromptAndLoad_NoFolderWhenDisabled(t *testing.T) {
	h := newHarness(t, StaticPicker{inkFile(t, "a.gif", 1)})
	h.bridge.cfg.OpenFolder = false

	_, err := h.bridge.PromptAndLoad(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h.launcher.dirs)
}

func TestSave_RunsSidecars(t *testing.T) {
	h := newHarness(t, StaticPicker(nil))
	h.surface.Add(inkStrokes(1)[0])

	var seen []string
	h.bridge.Sidecars = append(h.bridge.Sidecars, func(jsonPath string, strokes []state.Stroke) error {
		seen = append(seen, jsonPath)
		assert.Len(t, strokes, 1)
		return nil
	})

	res, err := h.bridge.Save("board.gif")
	require.NoError(t, err)
	assert.Equal(t, []string{res.Output}, seen)

	h.bridge.Sidecars = []Sidecar{func(string, []state.Stroke) error { return errors.New("disk full") }}
	_, err = h.bridge.Save("board.gif")
	assert.EqualError(t, err, "disk full")
}

func TestLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ink.v2.gif")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	f := LocalFile(path)
	assert.Equal(t, "ink.v2.gif", f.Name())
	rc, err := f.Open()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
	assert.NoError(t, rc.Close())
}

func TestStaticPicker_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := StaticPicker{LocalFile("a.gif")}.Pick(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
