// Package reporter provides progress reporting interfaces and implementations.
package reporter

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalFiles int
	FileList   []string
	OutputDir  string
	Mode       string
}

// FileStartInfo describes the file about to be processed.
type FileStartInfo struct {
	Index        int
	TotalFiles   int
	FileName     string
	SourceSizeMB int64
	Conflict     string
}

// ProgressSnapshot is a point-in-time view of the in-flight conversion.
// Fields are only meaningful for the single currently-processing file.
type ProgressSnapshot struct {
	Index          int
	TotalFiles     int
	FileName       string
	ElapsedSeconds float64
	OriginalSizeMB int64
	OutputSizeMB   int64
}

// FileOutcome contains a completed file's results.
type FileOutcome struct {
	FileName       string
	OutputPath     string
	Seconds        float64
	OriginalSizeMB int64
	OutputSizeMB   int64
}

// FileFailure describes a failed file.
type FileFailure struct {
	FileName string
	Reason   string
	Seconds  float64
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	TotalFiles   int
	Succeeded    int
	Failed       int
	TotalSeconds float64
	Cancelled    bool
}
