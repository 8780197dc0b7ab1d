package ui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"InkStore/internal/bridge"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/rs/zerolog"
)

type uriFile struct {
	uri fyne.URI
}

func (f uriFile) Name() string { return f.uri.Name() }

func (f uriFile) Open() (io.ReadCloser, error) {
	return storage.Reader(f.uri)
}

// dialogPicker asks the user for a file or a folder. Pick blocks the calling
// goroutine, never the UI thread, until the choice is made. A chosen folder
// yields every file in it matching filter, in name order.
type dialogPicker struct {
	filter []string
	log    zerolog.Logger
	choose func(ctx context.Context) (fyne.URI, error)
}

func (p *dialogPicker) Pick(ctx context.Context) ([]bridge.File, error) {
	uri, err := p.choose(ctx)
	if err != nil || uri == nil {
		return nil, err
	}
	return p.expand(uri)
}

func (p *dialogPicker) expand(uri fyne.URI) ([]bridge.File, error) {
	dir, err := storage.CanList(uri)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", uri, err)
	}
	if !dir {
		return []bridge.File{uriFile{uri: uri}}, nil
	}

	children, err := storage.List(uri)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", uri, err)
	}
	var files []bridge.File
	for _, child := range children {
		if p.matches(child) {
			files = append(files, uriFile{uri: child})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	p.log.Debug().Str("folder", uri.String()).Int("files", len(files)).Msg("folder picked")
	return files, nil
}

func (p *dialogPicker) matches(uri fyne.URI) bool {
	for _, ext := range p.filter {
		if strings.EqualFold(uri.Extension(), ext) {
			dir, err := storage.CanList(uri)
			return err == nil && !dir
		}
	}
	return false
}

type choice struct {
	uri fyne.URI
	err error
}

func await(ctx context.Context, ch <-chan choice) (fyne.URI, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case c := <-ch:
		return c.uri, c.err
	}
}

// newFilePicker picks a single ink file with the Fyne open dialog.
func newFilePicker(win fyne.Window, filter []string, log zerolog.Logger) *dialogPicker {
	return &dialogPicker{filter: filter, log: log, choose: func(ctx context.Context) (fyne.URI, error) {
		ch := make(chan choice, 1)
		fyne.Do(func() {
			d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
				if err != nil || rc == nil {
					ch <- choice{err: err}
					return
				}
				uri := rc.URI()
				if err := rc.Close(); err != nil {
					log.Warn().Err(err).Str("uri", uri.String()).Msg("close picked file")
				}
				ch <- choice{uri: uri}
			}, win)
			d.SetFilter(storage.NewExtensionFileFilter(filter))
			if docs := documentsLocation(); docs != nil {
				d.SetLocation(docs)
			}
			d.Show()
		})
		return await(ctx, ch)
	}}
}

// newFolderPicker picks a folder and loads every ink file inside it.
func newFolderPicker(win fyne.Window, filter []string, log zerolog.Logger) *dialogPicker {
	return &dialogPicker{filter: filter, log: log, choose: func(ctx context.Context) (fyne.URI, error) {
		ch := make(chan choice, 1)
		fyne.Do(func() {
			d := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
				if err != nil || dir == nil {
					ch <- choice{err: err}
					return
				}
				ch <- choice{uri: dir}
			}, win)
			if docs := documentsLocation(); docs != nil {
				d.SetLocation(docs)
			}
			d.Show()
		})
		return await(ctx, ch)
	}}
}

func documentsLocation() fyne.ListableURI {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	dir, err := storage.ListerForURI(storage.NewFileURI(filepath.Join(home, "Documents")))
	if err != nil {
		return nil
	}
	return dir
}

// folderLauncher opens directories through the desktop's URL handler.
type folderLauncher struct {
	app fyne.App
}

func (l folderLauncher) OpenFolder(dir string) error {
	u, err := url.Parse(storage.NewFileURI(dir).String())
	if err != nil {
		return fmt.Errorf("folder url: %w", err)
	}
	return l.app.OpenURL(u)
}
