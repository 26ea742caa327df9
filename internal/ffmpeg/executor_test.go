package ffmpeg

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFailureReason(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{
			name:   "keyword line wins",
			stderr: "frame=100\nError opening input file movie.mkv\nframe=101",
			want:   "Error opening input file movie.mkv",
		},
		{
			name:   "last keyword line preferred",
			stderr: "Unknown decoder\nsome progress\nInvalid data found when processing input",
			want:   "Invalid data found when processing input",
		},
		{
			name:   "falls back to last line",
			stderr: "line one\nline two",
			want:   "line two",
		},
		{
			name:   "ignores trailing blanks",
			stderr: "conversion aborted\n\n\n",
			want:   "conversion aborted",
		},
		{
			name:   "empty output",
			stderr: "",
			want:   "",
		},
		{
			name:   "incompatible keyword",
			stderr: "stream 2 is incompatible with the mp4 container",
			want:   "stream 2 is incompatible with the mp4 container",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractFailureReason(tt.stderr))
		})
	}
}

func TestRunnerSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	result := NewRunner().Run(context.Background(), "sh", []string{"-c", "exit 0"})
	assert.True(t, result.Success)
	assert.Empty(t, result.ErrorSummary)
}

func TestRunnerFailureCapturesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	result := NewRunner().Run(context.Background(), "sh",
		[]string{"-c", "echo 'Error: no streams' >&2; exit 1"})

	require.False(t, result.Success)
	assert.Equal(t, "Error: no streams", result.ErrorSummary)
	assert.Contains(t, result.Stderr, "Error: no streams")
}

func TestRunnerMissingBinary(t *testing.T) {
	result := NewRunner().Run(context.Background(), "/nonexistent/ffmpeg", nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorSummary, "failed to execute /nonexistent/ffmpeg")
}

func TestRunnerFailureWithoutDiagnostics(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	// Nothing on stderr to scan, so the exit status itself is the summary.
	result := NewRunner().Run(context.Background(), "sh", []string{"-c", "exit 3"})
	require.False(t, result.Success)
	assert.Contains(t, result.ErrorSummary, "failed with exit code 3")
}

func TestRunnerTerminate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sleep")
	}

	runner := NewRunner()
	done := make(chan Result, 1)
	go func() {
		done <- runner.Run(context.Background(), "sleep", []string{"30"})
	}()

	// Give the child a moment to start, then terminate it.
	time.Sleep(200 * time.Millisecond)
	runner.Terminate()

	select {
	case result := <-done:
		assert.False(t, result.Success)
	case <-time.After(5 * time.Second):
		t.Fatal("terminated process did not exit promptly")
	}
}

func TestRunnerContextCancellation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sleep")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result, 1)
	go func() {
		done <- NewRunner().Run(ctx, "sleep", []string{"30"})
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case result := <-done:
		assert.False(t, result.Success)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled process did not exit promptly")
	}
}

func TestTerminateWithoutProcess(t *testing.T) {
	// Must not panic before Run or after exit.
	runner := NewRunner()
	runner.Terminate()

	_ = runner.Run(context.Background(), "/nonexistent/ffmpeg", nil)
	runner.Terminate()
}
