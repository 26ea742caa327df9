package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/gbabichev/mp4batch/internal/errors"
)

// Result contains the outcome of one ffmpeg run.
type Result struct {
	Success      bool
	ErrorSummary string
	Stderr       string
}

// failureKeywords are scanned for in diagnostic output, most specific match
// wins (scanned from the last line backwards).
var failureKeywords = []string{"error", "invalid", "not found", "unknown", "failed", "incompatible"}

// Runner executes one ffmpeg conversion as a cancellable child process.
// A Runner is single-use: create one per conversion.
type Runner struct {
	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewRunner creates a runner with no process attached yet.
func NewRunner() *Runner {
	return &Runner{}
}

// Run launches bin with args, captures stderr, and blocks until exit.
// All spawn and wait failures are folded into the Result; Run never panics
// past its boundary. Context cancellation and Terminate both surface as a
// failed result.
func (r *Runner) Run(ctx context.Context, bin string, args []string) Result {
	cmd := exec.CommandContext(ctx, bin, args...)

	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{Success: false, ErrorSummary: errors.NewCommandStartError(bin, err).Error()}
	}

	r.mu.Lock()
	r.cmd = cmd
	r.mu.Unlock()

	err := cmd.Wait()

	r.mu.Lock()
	r.cmd = nil
	r.mu.Unlock()

	diagnostics := stderr.String()
	if err != nil {
		summary := extractFailureReason(diagnostics)
		if summary == "" {
			if _, ok := err.(*exec.ExitError); ok {
				summary = errors.WrapExecError(bin, err, diagnostics).Error()
			} else {
				summary = errors.NewCommandWaitError(bin, err).Error()
			}
		}
		return Result{Success: false, ErrorSummary: summary, Stderr: diagnostics}
	}

	return Result{Success: true, Stderr: diagnostics}
}

// Terminate signals the in-flight child process to stop. A subsequent Wait
// inside Run returns promptly with a failed result. Safe to call at any
// time, including before Run or after exit.
func (r *Runner) Terminate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd == nil || r.cmd.Process == nil {
		return
	}
	terminateProcess(r.cmd.Process)
}

// extractFailureReason scans diagnostic output from the end for the line
// most likely to explain the failure. Lines containing a failure keyword
// win; otherwise the last non-empty line is returned.
func extractFailureReason(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")

	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, keyword := range failureKeywords {
			if strings.Contains(lower, keyword) {
				return line
			}
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
