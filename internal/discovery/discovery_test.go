package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbabichev/mp4batch/internal/errors"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func names(paths []string) []string {
	var out []string
	for _, p := range paths {
		out = append(out, filepath.Base(p))
	}
	return out
}

func TestFindVideoFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.mkv"))
	touch(t, filepath.Join(dir, "A.mp4"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "cover.jpg"))

	files, err := FindVideoFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"A.mp4", "b.mkv"}, names(files), "sorted case-insensitively, non-video skipped")
}

func TestFindVideoFilesRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "season1", "e01.mkv"))
	touch(t, filepath.Join(dir, "season1", "extras", "e02.avi"))
	touch(t, filepath.Join(dir, "movie.mov"))

	files, err := FindVideoFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestFindVideoFilesSkipsIgnoreWords(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "movie.mkv"))
	touch(t, filepath.Join(dir, "movie-sample.mkv"))
	touch(t, filepath.Join(dir, "SAMPLE.clip.mp4"))

	files, err := FindVideoFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"movie.mkv"}, names(files))
}

func TestFindVideoFilesSkipsHiddenAndPackages(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "movie.mkv"))
	touch(t, filepath.Join(dir, ".hidden.mkv"))
	touch(t, filepath.Join(dir, ".cache", "stale.mkv"))
	touch(t, filepath.Join(dir, "Library.photoslibrary", "inner.mp4"))
	touch(t, filepath.Join(dir, "Player.app", "Contents", "demo.mov"))

	files, err := FindVideoFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"movie.mkv"}, names(files))
}

func TestFindVideoFilesKeepsDottedMediaFolders(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Show.S01", "e01.mkv"))
	touch(t, filepath.Join(dir, "Movie.2023.1080p", "movie.mkv"))

	files, err := FindVideoFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"movie.mkv", "e01.mkv"}, names(files), "ordered by full path")
}

func TestFindVideoFilesEmpty(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "readme.md"))

	_, err := FindVideoFiles(dir)
	require.Error(t, err)
	assert.True(t, errors.IsNoFilesFound(err))
}

func TestFindVideoFilesMissingDir(t *testing.T) {
	_, err := FindVideoFiles(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindPath))
}
