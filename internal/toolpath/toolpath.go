// Package toolpath locates the external ffmpeg/ffprobe binaries using an
// ordered strategy list: an explicit override, then well-known install
// locations, then a PATH lookup. The first candidate that exists wins.
package toolpath

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gbabichev/mp4batch/internal/errors"
)

// wellKnownDirs are checked in priority order before falling back to PATH.
var wellKnownDirs = []string{
	"/opt/homebrew/bin",
	"/usr/local/bin",
	"/usr/bin",
}

// Find resolves the given tool name (e.g. "ffmpeg"). override, when
// non-empty, must point at an existing file or Find fails rather than
// silently substituting a different binary.
func Find(name, override string) (string, error) {
	return find(name, override, wellKnownDirs, exec.LookPath)
}

// find is the testable core: candidate directories and the PATH lookup are
// injected.
func find(name, override string, dirs []string, lookPath func(string) (string, error)) (string, error) {
	if override != "" {
		if isExecutableFile(override) {
			return override, nil
		}
		return "", errors.NewPathError(name + " not found at " + override)
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if isExecutableFile(candidate) {
			return candidate, nil
		}
	}

	if path, err := lookPath(name); err == nil {
		return path, nil
	}

	return "", errors.NewPathError(name + " not found; install it or pass an explicit path")
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
