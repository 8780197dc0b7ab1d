package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"InkStore/internal/bridge"
	"InkStore/internal/config"
	"InkStore/internal/export"
	"InkStore/internal/inkjson"
	"InkStore/internal/logging"
	"InkStore/internal/native"
	"InkStore/internal/state"
	"InkStore/internal/ui"

	"github.com/rs/zerolog"
)

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	var err error
	switch cmd {
	case "convert":
		err = runConvert(args[1:])
	case "pack":
		err = runPack(args[1:])
	default:
		err = runGUI(args)
	}

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "inkstore: %v\n", err)
		os.Exit(1)
	}
}

func runGUI(args []string) error {
	fs := flag.NewFlagSet("inkstore", flag.ContinueOnError)
	out := fs.String("out", "", "Directory for JSON snapshots (default: app storage)")
	level := fs.String("log", "", "Log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logging.Console(logging.ParseLevel(*level))
	return ui.RunApp(*out, *level, log)
}

// runConvert is the headless Load action over files given on the command line.
func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: inkstore convert [flags] <file.gif>...\n")
		fs.PrintDefaults()
	}
	out := fs.String("out", ".", "Directory for JSON snapshots")
	pdf := fs.Bool("pdf", false, "Also write a PDF preview next to each snapshot")
	level := fs.String("log", "info", "Log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("convert: no input files")
	}

	log := logging.Console(logging.ParseLevel(*level))
	cfg := config.Default(*out)
	cfg.OpenFolder = false
	if err := cfg.Validate(); err != nil {
		return err
	}

	files := make(bridge.StaticPicker, 0, fs.NArg())
	for _, path := range fs.Args() {
		files = append(files, bridge.LocalFile(path))
	}

	b := bridge.New(cfg, files, state.NewStrokeContainer(log), native.Decode, nil, log)
	if *pdf {
		b.Sidecars = append(b.Sidecars, export.PDFSidecar)
	}

	results, err := b.PromptAndLoad(context.Background())
	for _, r := range results {
		fmt.Printf("%s -> %s (%d strokes)\n", r.Source, r.Output, r.Strokes)
	}
	return err
}

// runPack turns a JSON snapshot back into a native ink container.
func runPack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: inkstore pack -o <out.gif> <in.json>\n")
		fs.PrintDefaults()
	}
	out := fs.String("o", "", "Output ink container")
	level := fs.String("log", "info", "Log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("pack: expected one input file")
	}
	in := fs.Arg(0)
	if *out == "" {
		*out = trimExt(in) + ".gif"
	}
	log := logging.Component(logging.Console(logging.ParseLevel(*level)), "pack")

	return pack(in, *out, log)
}

func pack(in, out string, log zerolog.Logger) error {
	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()

	strokes, err := inkjson.Decode(src)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if err := state.ValidateStrokes(strokes); err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	dst, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := native.Encode(dst, strokes); err != nil {
		dst.Close()
		return fmt.Errorf("%s: %w", out, err)
	}
	if err := dst.Close(); err != nil {
		return err
	}

	log.Info().Str("input", in).Str("output", out).Int("strokes", len(strokes)).Msg("packed")
	return nil
}

func trimExt(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}
