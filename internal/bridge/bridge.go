// Package bridge moves ink between picked files, the capture surface and the
// JSON snapshots written to the output directory.
package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"InkStore/internal/config"
	"InkStore/internal/inkjson"
	"InkStore/internal/state"

	"github.com/rs/zerolog"
)

// ErrBusy is returned when a load is requested while another is running.
var ErrBusy = errors.New("a load is already in progress")

type State int

const (
	Idle State = iota
	Picking
	Loading
	Saving
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Picking:
		return "picking"
	case Loading:
		return "loading"
	case Saving:
		return "saving"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// File is one picked input.
type File interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// Picker asks the user for ink files. An empty result means cancel.
type Picker interface {
	Pick(ctx context.Context) ([]File, error)
}

// Surface is the capture surface the bridge loads into and snapshots from.
type Surface interface {
	Replace(strokes []state.Stroke)
	Strokes() []state.Stroke
}

// Loader decodes a native ink stream.
type Loader func(r io.Reader) ([]state.Stroke, error)

// Launcher shows a directory in the platform file browser.
type Launcher interface {
	OpenFolder(dir string) error
}

// Sidecar writes an extra artifact for a saved snapshot.
type Sidecar func(jsonPath string, strokes []state.Stroke) error

// Result describes one processed file.
type Result struct {
	Source  string
	Output  string
	Strokes int
}

type Bridge struct {
	picker   Picker
	surface  Surface
	load     Loader
	launcher Launcher
	cfg      config.Config
	log      zerolog.Logger

	Sidecars      []Sidecar
	OnStateChange func(State)

	mu    sync.Mutex
	state State
}

func New(cfg config.Config, picker Picker, surface Surface, load Loader, launcher Launcher, log zerolog.Logger) *Bridge {
	return &Bridge{
		picker:   picker,
		surface:  surface,
		load:     load,
		launcher: launcher,
		cfg:      cfg,
		log:      log.With().Str("component", "bridge").Logger(),
	}
}

func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bridge) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
	b.notify(s)
}

func (b *Bridge) notify(s State) {
	b.log.Debug().Stringer("state", s).Msg("state changed")
	if b.OnStateChange != nil {
		b.OnStateChange(s)
	}
}

// PromptAndLoad runs one Load action: pick files, then load and save each in
// turn, then open the output folder. It returns nil results when the picker is
// cancelled. The first failure aborts the remaining files.
func (b *Bridge) PromptAndLoad(ctx context.Context) ([]Result, error) {
	return b.PromptAndLoadFrom(ctx, b.picker)
}

// PromptAndLoadFrom is PromptAndLoad with a picker other than the default one.
func (b *Bridge) PromptAndLoadFrom(ctx context.Context, picker Picker) ([]Result, error) {
	b.mu.Lock()
	if b.state != Idle {
		b.mu.Unlock()
		return nil, ErrBusy
	}
	b.state = Picking
	b.mu.Unlock()
	b.notify(Picking)
	defer b.setState(Idle)

	files, err := picker.Pick(ctx)
	if err != nil {
		return nil, fmt.Errorf("pick files: %w", err)
	}
	if len(files) == 0 {
		b.log.Info().Msg("load cancelled")
		b.setState(Cancelled)
		return nil, nil
	}

	results := make([]Result, 0, len(files))
	for _, f := range files {
		res, err := b.process(f)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	if b.cfg.OpenFolder && b.launcher != nil {
		if err := b.launcher.OpenFolder(b.cfg.OutputDir); err != nil {
			return results, fmt.Errorf("open %s: %w", b.cfg.OutputDir, err)
		}
	}
	return results, nil
}

func (b *Bridge) process(f File) (Result, error) {
	b.setState(Loading)
	if err := b.loadFile(f); err != nil {
		return Result{}, err
	}

	b.setState(Saving)
	return b.Save(f.Name())
}

func (b *Bridge) loadFile(f File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name(), err)
	}
	strokes, err := b.load(rc)
	closeErr := rc.Close()
	if err != nil {
		return fmt.Errorf("load %s: %w", f.Name(), err)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", f.Name(), closeErr)
	}

	b.surface.Replace(strokes)
	b.log.Info().Str("file", f.Name()).Int("strokes", len(strokes)).Msg("ink loaded")
	return nil
}

// Save writes the current surface strokes as the JSON snapshot for source,
// overwriting any previous snapshot of the same name.
func (b *Bridge) Save(source string) (Result, error) {
	strokes := b.surface.Strokes()
	out := filepath.Join(b.cfg.OutputDir, OutputName(source))

	var buf bytes.Buffer
	if err := inkjson.Encode(&buf, strokes); err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", out, err)
	}

	for _, sc := range b.Sidecars {
		if err := sc(out, strokes); err != nil {
			return Result{}, err
		}
	}

	b.log.Info().Str("output", out).Int("strokes", len(strokes)).Msg("snapshot saved")
	return Result{Source: source, Output: out, Strokes: len(strokes)}, nil
}

// OutputName keeps the part of name before its first dot and appends .json.
func OutputName(name string) string {
	base, _, _ := strings.Cut(filepath.Base(name), ".")
	return base + ".json"
}
