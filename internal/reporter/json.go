package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON events, one object per line, for machine
// consumers (wrapper scripts, UIs).
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONReporter creates a JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{writer: os.Stdout}
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]interface{}{
		"type":        "batch_started",
		"total_files": info.TotalFiles,
		"file_list":   info.FileList,
		"output_dir":  info.OutputDir,
		"mode":        info.Mode,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) FileStarted(info FileStartInfo) {
	event := map[string]interface{}{
		"type":           "file_started",
		"index":          info.Index,
		"total_files":    info.TotalFiles,
		"file":           info.FileName,
		"source_size_mb": info.SourceSizeMB,
		"timestamp":      r.timestamp(),
	}
	if info.Conflict != "" {
		event["conflict"] = info.Conflict
	}
	r.write(event)
}

func (r *JSONReporter) FileProgress(snapshot ProgressSnapshot) {
	r.write(map[string]interface{}{
		"type":             "file_progress",
		"index":            snapshot.Index,
		"total_files":      snapshot.TotalFiles,
		"file":             snapshot.FileName,
		"elapsed_seconds":  snapshot.ElapsedSeconds,
		"original_size_mb": snapshot.OriginalSizeMB,
		"output_size_mb":   snapshot.OutputSizeMB,
		"timestamp":        r.timestamp(),
	})
}

func (r *JSONReporter) FileCompleted(outcome FileOutcome) {
	r.write(map[string]interface{}{
		"type":             "file_completed",
		"file":             outcome.FileName,
		"output_path":      outcome.OutputPath,
		"seconds":          outcome.Seconds,
		"original_size_mb": outcome.OriginalSizeMB,
		"output_size_mb":   outcome.OutputSizeMB,
		"timestamp":        r.timestamp(),
	})
}

func (r *JSONReporter) FileFailed(failure FileFailure) {
	r.write(map[string]interface{}{
		"type":      "file_failed",
		"file":      failure.FileName,
		"reason":    failure.Reason,
		"seconds":   failure.Seconds,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	r.write(map[string]interface{}{
		"type":          "batch_complete",
		"total_files":   summary.TotalFiles,
		"succeeded":     summary.Succeeded,
		"failed":        summary.Failed,
		"total_seconds": summary.TotalSeconds,
		"cancelled":     summary.Cancelled,
		"timestamp":     r.timestamp(),
	})
}
