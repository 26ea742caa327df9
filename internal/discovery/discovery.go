// Package discovery provides file discovery for the conversion queue.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gbabichev/mp4batch/internal/errors"
	"github.com/gbabichev/mp4batch/internal/util"
)

// ignoreWords filters out release padding like sample clips.
var ignoreWords = []string{"sample"}

// bundleExtensions are directory suffixes that mark macOS-style packages.
// Those look like folders on disk but are opaque single documents, so the
// walk never descends into them. Dotted media folder names such as
// "Show.S01" are not bundles and are traversed normally.
var bundleExtensions = map[string]bool{
	".app":           true,
	".bundle":        true,
	".fcpbundle":     true,
	".framework":     true,
	".imovielibrary": true,
	".photoslibrary": true,
	".theater":       true,
	".tvlibrary":     true,
}

// FindVideoFiles recursively finds video files under inputDir, sorted
// case-insensitively by path. Hidden files and directories are skipped, as
// are macOS package directories (.app, .photoslibrary and friends) and
// filenames containing an ignore word.
func FindVideoFiles(inputDir string) ([]string, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, errors.NewPathError("directory does not exist: " + inputDir)
	}
	if !info.IsDir() {
		return nil, errors.NewPathError(inputDir + " is not a directory")
	}

	var files []string
	err = filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path == inputDir {
				return nil
			}
			if strings.HasPrefix(name, ".") || isBundleDir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if containsIgnoreWord(name) {
			return nil
		}
		if util.IsVideoFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewIOError("cannot read directory "+inputDir, err)
	}

	if len(files) == 0 {
		return nil, errors.NewNoFilesFoundError(inputDir)
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i]) < strings.ToLower(files[j])
	})

	return files, nil
}

func isBundleDir(name string) bool {
	return bundleExtensions[strings.ToLower(filepath.Ext(name))]
}

func containsIgnoreWord(name string) bool {
	lower := strings.ToLower(name)
	for _, word := range ignoreWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
