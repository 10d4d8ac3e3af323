package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"split-analyzer/pkg/geometry"
)

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "report.json")
	require.NoError(t, ensureDir(filepath.Dir(path)))

	points := []geometry.Point2D{{X: 0.25, Y: 0.5}, {X: 0.75, Y: 0.5}}
	rep := New("01J", geometry.SizeInt{Width: 1200, Height: 800}, points, "Which half is brighter?")
	rep.Answer = "The left half."
	rep.ModelReady = true
	rep.SetImage(path, filepath.Join(dir, "photo.png"))
	rep.SetParts(path, filepath.Join(dir, "out", "part1.png"), "")
	require.NoError(t, rep.Save(path))

	points[0].X = 0.9

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Version, got.Version)
	assert.Equal(t, "01J", got.RequestID)
	assert.Equal(t, geometry.SizeInt{Width: 1200, Height: 800}, got.ImageSize)
	assert.Equal(t, 0.25, got.Points[0].X)
	assert.Equal(t, "The left half.", got.Answer)
	assert.True(t, got.ModelReady)

	assert.Equal(t, filepath.Join("..", "photo.png"), got.ImagePath)
	assert.Equal(t, "part1.png", got.Part1Path)
	assert.Empty(t, got.Part2Path)

	assert.Equal(t, filepath.Join(dir, "photo.png"), filepath.Clean(got.GetImagePath(path)))
	p1, p2 := got.GetPartPaths(path)
	assert.Equal(t, filepath.Join(dir, "out", "part1.png"), p1)
	assert.Empty(t, p2)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, writeFile(path, "{not json"))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestAbsolutePathKept(t *testing.T) {
	rep := &File{ImagePath: "/data/photo.png"}
	assert.Equal(t, "/data/photo.png", rep.GetImagePath("/tmp/report.json"))
	assert.Empty(t, (&File{}).GetImagePath("/tmp/report.json"))
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

func writeFile(path, s string) error {
	return os.WriteFile(path, []byte(s), 0o644)
}
