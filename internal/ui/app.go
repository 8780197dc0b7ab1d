package ui

import (
	"context"
	"errors"
	"fmt"

	"InkStore/internal/bridge"
	"InkStore/internal/config"
	"InkStore/internal/export"
	"InkStore/internal/logging"
	"InkStore/internal/native"
	"InkStore/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

const AppID = "io.inkstore.app"

// RunApp opens the main window and blocks until it is closed. Non-empty
// outputDir and logLevel override stored preferences.
func RunApp(outputDir, logLevel string, log zerolog.Logger) error {
	a := app.NewWithID(AppID)

	base := config.Default(a.Storage().RootURI().Path())
	cfg := config.FromPreferences(a.Preferences(), base).Override(outputDir, logLevel)
	if err := cfg.Validate(); err != nil {
		return err
	}
	log = log.Level(logging.ParseLevel(cfg.LogLevel))
	log.Info().Str("output_dir", cfg.OutputDir).Msg("starting")

	w := a.NewWindow("Ink Store")
	w.Resize(fyne.NewSize(1024, 768))

	strokes := state.NewStrokeContainer(log)
	ink := NewInkCanvas(strokes, log)
	status := widget.NewLabel("Ready")

	files := newFilePicker(w, cfg.Filter, log)
	folders := newFolderPicker(w, cfg.Filter, log)
	b := bridge.New(cfg, files, strokes, native.Decode, folderLauncher{app: a}, log)
	b.OnStateChange = func(s bridge.State) {
		fyne.Do(func() { status.SetText(statusText(s)) })
	}

	loadFrom := func(picker bridge.Picker) func() {
		return func() {
			go func() {
				results, err := b.PromptAndLoadFrom(context.Background(), picker)
				fyne.Do(func() {
					if err != nil {
						if errors.Is(err, bridge.ErrBusy) {
							return
						}
						log.Error().Err(err).Msg("load failed")
						dialog.ShowError(err, w)
						return
					}
					if len(results) > 0 {
						status.SetText(fmt.Sprintf("Saved %d snapshot(s) to %s", len(results), cfg.OutputDir))
					}
				})
			}()
		}
	}

	w.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Load Folder…", loadFrom(folders)),
			fyne.NewMenuItem("Export PDF…", func() { exportPDF(w, ink, log) }),
		),
	))
	w.SetContent(container.NewBorder(NewToolbar(ink, loadFrom(files), ink.Clear), status, nil, nil, ink))
	w.ShowAndRun()
	return nil
}

func statusText(s bridge.State) string {
	switch s {
	case bridge.Picking:
		return "Choose an ink file…"
	case bridge.Loading:
		return "Loading ink…"
	case bridge.Saving:
		return "Saving JSON…"
	case bridge.Cancelled:
		return "Load cancelled"
	}
	return "Ready"
}

func exportPDF(w fyne.Window, ink *InkCanvas, log zerolog.Logger) {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if wc == nil {
			return
		}
		defer func() {
			if err := wc.Close(); err != nil {
				log.Warn().Err(err).Msg("close pdf")
			}
		}()

		if err := export.WritePDF(wc, ink.Strokes()); err != nil {
			log.Error().Err(err).Str("uri", wc.URI().String()).Msg("pdf export failed")
			dialog.ShowError(err, w)
			return
		}
		log.Info().Str("uri", wc.URI().String()).Msg("pdf exported")
	}, w)
	d.SetFileName("ink.pdf")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	d.Show()
}
