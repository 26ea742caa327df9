package reporter

import (
	"fmt"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/gbabichev/mp4batch/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu       sync.Mutex
	progress *progressbar.ProgressBar
	cyan     *color.Color
	green    *color.Color
	yellow   *color.Color
	red      *color.Color
	bold     *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:   color.New(color.FgCyan, color.Bold),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow, color.Bold),
		red:    color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH")
	r.printLabel(8, "Files:", fmt.Sprintf("%d", info.TotalFiles))
	r.printLabel(8, "Output:", info.OutputDir)
	r.printLabel(8, "Mode:", info.Mode)
}

func (r *TerminalReporter) FileStarted(info FileStartInfo) {
	fmt.Println()
	_, _ = r.cyan.Printf("FILE %d/%d\n", info.Index, info.TotalFiles)
	r.printLabel(8, "Name:", info.FileName)
	r.printLabel(8, "Size:", fmt.Sprintf("%d MB", info.SourceSizeMB))
	if info.Conflict != "" {
		fmt.Printf("  %s %s\n", r.yellow.Sprint("!"), info.Conflict)
	}

	r.mu.Lock()
	r.progress = progressbar.NewOptions64(-1,
		progressbar.OptionSetDescription(info.FileName),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
	r.mu.Unlock()
}

func (r *TerminalReporter) FileProgress(snapshot ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress == nil {
		return
	}
	r.progress.Describe(fmt.Sprintf("%s | %s | %d MB -> %d MB",
		snapshot.FileName,
		util.FormatDuration(snapshot.ElapsedSeconds),
		snapshot.OriginalSizeMB,
		snapshot.OutputSizeMB,
	))
	_ = r.progress.Add64(1)
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		_ = r.progress.Clear()
		r.progress = nil
	}
}

func (r *TerminalReporter) FileCompleted(outcome FileOutcome) {
	r.finishProgress()
	_, _ = r.green.Printf("  done: %s in %s (%d MB -> %d MB)\n",
		outcome.FileName,
		util.FormatDuration(outcome.Seconds),
		outcome.OriginalSizeMB,
		outcome.OutputSizeMB,
	)
}

func (r *TerminalReporter) FileFailed(failure FileFailure) {
	r.finishProgress()
	_, _ = r.red.Printf("  failed: %s (%s)\n", failure.FileName, failure.Reason)
}

func (r *TerminalReporter) Warning(message string) {
	_, _ = r.yellow.Printf("  warning: %s\n", message)
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.finishProgress()
	fmt.Println()
	_, _ = r.cyan.Println("SUMMARY")
	r.printLabel(11, "Succeeded:", fmt.Sprintf("%d/%d", summary.Succeeded, summary.TotalFiles))
	if summary.Failed > 0 {
		r.printLabel(11, "Failed:", r.red.Sprintf("%d", summary.Failed))
	}
	r.printLabel(11, "Runtime:", util.FormatRuntime(summary.TotalSeconds))
	if summary.Cancelled {
		_, _ = r.yellow.Println("  batch cancelled")
	}
}
