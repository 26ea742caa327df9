package processing

import (
	"path/filepath"
	"strings"

	"github.com/gbabichev/mp4batch/internal/util"
)

// CheckConflicts flags situations where running a conversion would end up
// overwriting data the user probably did not intend to lose. Conflicts are
// advisory only; the pipeline still processes flagged files.
func CheckConflicts(sourcePath, outputDir string, subfolderPerFile bool) (bool, string) {
	var reasons []string

	sourceDir := filepath.Clean(filepath.Dir(sourcePath))
	if !subfolderPerFile && sourceDir == filepath.Clean(outputDir) {
		reasons = append(reasons, "output folder is the same as the input folder")
	}

	dest := OutputPath(outputDir, sourcePath, subfolderPerFile)
	if util.FileExists(dest) {
		reasons = append(reasons, "output file already exists: "+util.GetFilename(dest))
	}

	if len(reasons) == 0 {
		return false, ""
	}
	return true, strings.Join(reasons, "; ")
}
