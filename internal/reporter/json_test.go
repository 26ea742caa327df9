package reporter

import (
	"bufio"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEvents(t *testing.T, raw string) []map[string]interface{} {
	t.Helper()
	var events []map[string]interface{}
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		var event map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &event))
		events = append(events, event)
	}
	return events
}

func TestJSONReporterEventStream(t *testing.T) {
	var buf strings.Builder
	r := NewJSONReporterWithWriter(&buf)

	r.BatchStarted(BatchStartInfo{TotalFiles: 2, OutputDir: "/out", Mode: "remux"})
	r.FileStarted(FileStartInfo{Index: 1, TotalFiles: 2, FileName: "a.mkv", SourceSizeMB: 700})
	r.FileProgress(ProgressSnapshot{Index: 1, TotalFiles: 2, FileName: "a.mkv", ElapsedSeconds: 1.5, OutputSizeMB: 12})
	r.FileCompleted(FileOutcome{FileName: "a.mkv", OutputPath: "/out/a.mp4", Seconds: 3, OriginalSizeMB: 700, OutputSizeMB: 650})
	r.FileFailed(FileFailure{FileName: "b.mkv", Reason: "probe failed"})
	r.Warning("could not delete original")
	r.BatchComplete(BatchSummary{TotalFiles: 2, Succeeded: 1, Failed: 1, TotalSeconds: 4})

	events := decodeEvents(t, buf.String())
	require.Len(t, events, 7)

	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e["type"].(string)
		assert.Contains(t, e, "timestamp")
	}
	assert.Equal(t, []string{
		"batch_started", "file_started", "file_progress",
		"file_completed", "file_failed", "warning", "batch_complete",
	}, types)

	assert.Equal(t, "remux", events[0]["mode"])
	assert.Equal(t, float64(700), events[1]["source_size_mb"])
	assert.NotContains(t, events[1], "conflict", "empty conflict omitted")
	assert.Equal(t, "probe failed", events[4]["reason"])
	assert.Equal(t, false, events[6]["cancelled"])
}

func TestJSONReporterConflictField(t *testing.T) {
	var buf strings.Builder
	r := NewJSONReporterWithWriter(&buf)

	r.FileStarted(FileStartInfo{Index: 1, TotalFiles: 1, FileName: "a.mkv", Conflict: "output file already exists"})

	events := decodeEvents(t, buf.String())
	require.Len(t, events, 1)
	assert.Equal(t, "output file already exists", events[0]["conflict"])
}

func TestCompositeFansOut(t *testing.T) {
	var first, second strings.Builder
	c := NewCompositeReporter(
		NewJSONReporterWithWriter(&first),
		NewJSONReporterWithWriter(&second),
	)

	c.Warning("hello")
	c.BatchComplete(BatchSummary{TotalFiles: 1, Succeeded: 1})

	assert.Equal(t, first.String(), second.String())
	assert.Len(t, decodeEvents(t, first.String()), 2)
}

func TestNullReporterIsSilent(t *testing.T) {
	// Compile-time interface checks plus a smoke call.
	var r Reporter = NullReporter{}
	r.BatchStarted(BatchStartInfo{})
	r.FileProgress(ProgressSnapshot{})
	r.BatchComplete(BatchSummary{})
}
