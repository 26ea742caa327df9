package toolpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbabichev/mp4batch/internal/errors"
)

func fakeBinary(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
	return path
}

func noLookPath(string) (string, error) {
	return "", os.ErrNotExist
}

func TestFindOverrideWins(t *testing.T) {
	dir := t.TempDir()
	override := fakeBinary(t, dir, "ffmpeg-custom")

	// The override is honored even when a well-known dir also has the tool.
	known := t.TempDir()
	fakeBinary(t, known, "ffmpeg")

	got, err := find("ffmpeg", override, []string{known}, noLookPath)
	require.NoError(t, err)
	assert.Equal(t, override, got)
}

func TestFindBadOverrideFails(t *testing.T) {
	known := t.TempDir()
	fakeBinary(t, known, "ffmpeg")

	_, err := find("ffmpeg", "/nonexistent/ffmpeg", []string{known}, noLookPath)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindPath),
		"an explicit override never falls through to other candidates")
}

func TestFindWellKnownOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	want := fakeBinary(t, first, "ffprobe")
	fakeBinary(t, second, "ffprobe")

	got, err := find("ffprobe", "", []string{first, second}, noLookPath)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindFallsBackToPath(t *testing.T) {
	got, err := find("ffmpeg", "", []string{t.TempDir()}, func(name string) (string, error) {
		assert.Equal(t, "ffmpeg", name)
		return "/from/path/ffmpeg", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "/from/path/ffmpeg", got)
}

func TestFindNotFound(t *testing.T) {
	_, err := find("ffmpeg", "", []string{t.TempDir()}, noLookPath)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindPath))
}

func TestFindSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "ffmpeg"), 0755))

	_, err := find("ffmpeg", "", []string{dir}, noLookPath)
	assert.Error(t, err, "a directory named like the tool is not a binary")
}
