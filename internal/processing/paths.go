package processing

import (
	"path/filepath"

	"github.com/gbabichev/mp4batch/internal/util"
)

// OutputPath computes the final destination for a converted file:
// <outputDir>/<stem>.mp4, or <outputDir>/<stem>/<stem>.mp4 with per-file
// subfolders enabled.
func OutputPath(outputDir, sourcePath string, subfolderPerFile bool) string {
	stem := util.GetFileStem(sourcePath)
	if subfolderPerFile {
		return filepath.Join(outputDir, stem, stem+".mp4")
	}
	return filepath.Join(outputDir, stem+".mp4")
}
