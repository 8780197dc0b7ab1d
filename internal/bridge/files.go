package bridge

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

type localFile string

// LocalFile is a File backed by a path on disk.
func LocalFile(path string) File {
	return localFile(path)
}

func (f localFile) Name() string                 { return filepath.Base(string(f)) }
func (f localFile) Open() (io.ReadCloser, error) { return os.Open(string(f)) }

// StaticPicker always returns the same files, as when paths come from the
// command line.
type StaticPicker []File

func (p StaticPicker) Pick(ctx context.Context) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p, nil
}
