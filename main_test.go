package main

import (
	"os"
	"path/filepath"
	"testing"

	"InkStore/internal/native"
	"InkStore/internal/state"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshot = `{"strokedata":[
	{"points":[{"X":1,"Y":2,"pressure":0.5},{"X":3,"Y":4,"pressure":0.5}],
	 "color":{"A":255,"R":0,"G":0,"B":0},"size":{"Width":2,"Height":2},"ignorePressure":false},
	{"points":[{"X":9,"Y":9,"pressure":1}],
	 "color":{"A":255,"R":255,"G":0,"B":0},"size":{"Width":4,"Height":4},"ignorePressure":true}]}`

func TestPackThenConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "board.json")
	require.NoError(t, os.WriteFile(in, []byte(snapshot), 0o644))

	ink := filepath.Join(dir, "board.v2.gif")
	require.NoError(t, pack(in, ink, zerolog.Nop()))

	f, err := os.Open(ink)
	require.NoError(t, err)
	strokes, err := native.Decode(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	require.Len(t, strokes, 2)
	assert.True(t, strokes[1].Attributes.IgnorePressure)

	out := filepath.Join(dir, "out")
	require.NoError(t, runConvert([]string{"-out", out, "-pdf", "-log", "error", ink}))

	data, err := os.ReadFile(filepath.Join(out, "board.json"))
	require.NoError(t, err)
	assert.JSONEq(t, snapshot, string(data))
	assert.FileExists(t, filepath.Join(out, "board.pdf"))
}

func TestConvert_NoFiles(t *testing.T) {
	assert.Error(t, runConvert([]string{"-log", "error"}))
}

func TestPack_BadJSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(in, []byte("{"), 0o644))
	assert.Error(t, pack(in, filepath.Join(dir, "bad.gif"), zerolog.Nop()))
}

func TestPack_InvalidStroke(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "wide.json")
	bad := `{"strokedata":[{"points":[{"X":0,"Y":0,"pressure":0.5},{"X":1000,"Y":5,"pressure":0.5}],
		"color":{"A":255,"R":0,"G":0,"B":0},"size":{"Width":-3000,"Height":2},"ignorePressure":false}]}`
	require.NoError(t, os.WriteFile(in, []byte(bad), 0o644))

	out := filepath.Join(dir, "wide.gif")
	err := pack(in, out, zerolog.Nop())
	assert.ErrorIs(t, err, state.ErrInvalidStroke)
	assert.NoFileExists(t, out)
}

func TestTrimExt(t *testing.T) {
	assert.Equal(t, "dir/page.v1", trimExt("dir/page.v1.json"))
	assert.Equal(t, "page", trimExt("page"))
}
