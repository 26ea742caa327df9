// Package mp4batch provides a Go library for batch video conversion to MP4.
//
// mp4batch is an opinionated FFmpeg frontend that converts or remuxes
// mixed-format video collections into MP4 containers with sensible
// defaults: H.265 or H.264 encoding, AAC audio, English-first stream
// selection, and safe temp-then-move output placement.
//
// Basic usage:
//
//	conv, err := mp4batch.New(
//	    mp4batch.WithMode(mp4batch.ModeEncodeH265),
//	    mp4batch.WithCRF(20),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := conv.AddDirectory("movies/"); err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Run(ctx, "converted/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Converted %d of %d files\n", result.Succeeded, result.TotalFiles)
package mp4batch

import (
	"context"
	"sync"

	"github.com/gbabichev/mp4batch/internal/config"
	"github.com/gbabichev/mp4batch/internal/discovery"
	"github.com/gbabichev/mp4batch/internal/errors"
	"github.com/gbabichev/mp4batch/internal/ffprobe"
	"github.com/gbabichev/mp4batch/internal/notify"
	"github.com/gbabichev/mp4batch/internal/processing"
	"github.com/gbabichev/mp4batch/internal/queue"
	"github.com/gbabichev/mp4batch/internal/reporter"
	"github.com/gbabichev/mp4batch/internal/toolpath"
)

// Re-export processing mode and resolution types
type Mode = config.Mode

const (
	ModeEncodeH265 = config.ModeEncodeH265
	ModeEncodeH264 = config.ModeEncodeH264
	ModeRemux      = config.ModeRemux
)

// ParseMode converts a mode string to a Mode value. Valid values are
// "encode-h265", "encode-h264", and "remux" (plus the "encode" and "h265"
// aliases).
func ParseMode(s string) (Mode, error) {
	return config.ParseMode(s)
}

type Resolution = config.Resolution

const (
	ResolutionOriginal = config.ResolutionOriginal
	Resolution1080p    = config.Resolution1080p
	Resolution720p     = config.Resolution720p
)

// Reporter receives batch and per-file progress events.
type Reporter = reporter.Reporter

// Entry is one queued file and its current status.
type Entry = queue.Entry

// RunState is a snapshot of the in-flight batch.
type RunState = processing.RunState

// FileResult is the terminal outcome of one queued file.
type FileResult struct {
	FileName       string
	Status         string
	OutputPath     string
	Seconds        float64
	OriginalSizeMB int64
	OutputSizeMB   int64
	FailureReason  string
}

// BatchResult summarizes one completed batch.
type BatchResult struct {
	Results    []FileResult
	TotalFiles int
	Succeeded  int
	Failed     int
	Cancelled  bool
}

// Converter is the main entry point for batch conversion. It owns the file
// queue; files can be added or removed between runs, and adding during a
// run extends the running batch.
type Converter struct {
	policy      config.Policy
	ffmpegPath  string
	ffprobePath string
	rep         reporter.Reporter
	notifier    notify.Notifier

	queue *queue.Queue

	// Test seams; nil means resolve the real tools.
	prober        processing.StreamProber
	newTranscoder func() processing.Transcoder

	mu      sync.Mutex
	running bool
	orch    *processing.Orchestrator
}

// Option configures the converter.
type Option func(*Converter)

// New creates a Converter with the given options.
func New(opts ...Option) (*Converter, error) {
	c := &Converter{
		policy: config.DefaultPolicy(),
		queue:  queue.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.policy.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// WithMode sets the processing mode.
func WithMode(m Mode) Option {
	return func(c *Converter) { c.policy.Mode = m }
}

// WithCRF sets the constant rate factor for encode modes.
func WithCRF(crf int) Option {
	return func(c *Converter) { c.policy.CRF = crf }
}

// WithResolution caps the output resolution. Sources at or below the cap
// are never upscaled.
func WithResolution(r Resolution) Option {
	return func(c *Converter) { c.policy.Resolution = r }
}

// WithSpeedPreset sets the encoder speed preset ("ultrafast" through
// "placebo").
func WithSpeedPreset(preset string) Option {
	return func(c *Converter) { c.policy.Preset = preset }
}

// WithSubfolderPerFile places each output in its own subfolder of the
// output directory.
func WithSubfolderPerFile() Option {
	return func(c *Converter) { c.policy.SubfolderPerFile = true }
}

// WithDeleteOriginal removes each source file after its conversion
// succeeds.
func WithDeleteOriginal() Option {
	return func(c *Converter) { c.policy.DeleteOriginal = true }
}

// WithAllAudio keeps audio in every language instead of English-first
// filtering.
func WithAllAudio() Option {
	return func(c *Converter) { c.policy.EnglishAudioOnly = false }
}

// WithAllSubtitles keeps text subtitles in every language instead of
// English-first filtering.
func WithAllSubtitles() Option {
	return func(c *Converter) { c.policy.EnglishSubtitlesOnly = false }
}

// WithFFmpegPath pins the ffmpeg binary instead of searching for it.
func WithFFmpegPath(path string) Option {
	return func(c *Converter) { c.ffmpegPath = path }
}

// WithFFprobePath pins the ffprobe binary instead of searching for it.
func WithFFprobePath(path string) Option {
	return func(c *Converter) { c.ffprobePath = path }
}

// WithReporter sets the progress reporter for runs.
func WithReporter(rep Reporter) Option {
	return func(c *Converter) { c.rep = rep }
}

// WithNotifier sets the batch notifier for runs.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Converter) { c.notifier = n }
}

// FindVideos finds video files under dir, recursively.
func FindVideos(dir string) ([]string, error) {
	return discovery.FindVideoFiles(dir)
}

// Add queues the given files as one wave and returns the created entries.
func (c *Converter) Add(paths ...string) []Entry {
	return c.queue.Add(paths...)
}

// AddDirectory discovers video files under dir and queues them.
func (c *Converter) AddDirectory(dir string) ([]Entry, error) {
	files, err := discovery.FindVideoFiles(dir)
	if err != nil {
		return nil, err
	}
	return c.queue.Add(files...), nil
}

// Remove drops a queued file. Reports whether the entry existed.
func (c *Converter) Remove(id string) bool {
	return c.queue.Remove(id)
}

// Clear empties the queue.
func (c *Converter) Clear() {
	c.queue.Clear()
}

// Entries returns a snapshot of the queue.
func (c *Converter) Entries() []Entry {
	return c.queue.Entries()
}

// ResetAll returns every entry to pending so a batch can be rerun.
func (c *Converter) ResetAll() {
	c.queue.ResetAll()
}

// State returns the current run state, zero when no batch is running.
func (c *Converter) State() RunState {
	c.mu.Lock()
	orch := c.orch
	c.mu.Unlock()
	if orch == nil {
		return RunState{}
	}
	return orch.State()
}

// Cancel stops the running batch, if any. The in-flight conversion is
// terminated; remaining files stay pending.
func (c *Converter) Cancel() {
	c.mu.Lock()
	orch := c.orch
	c.mu.Unlock()
	if orch != nil {
		orch.Cancel()
	}
}

// Run processes every pending queue entry into outputDir and blocks until
// the batch finishes or is cancelled. Only one batch runs at a time.
func (c *Converter) Run(ctx context.Context, outputDir string) (*BatchResult, error) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil, errors.NewConfigError("a batch is already running")
	}
	c.running = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.orch = nil
		c.mu.Unlock()
	}()

	prober := c.prober
	if prober == nil {
		bin, err := toolpath.Find("ffprobe", c.ffprobePath)
		if err != nil {
			return nil, err
		}
		prober = ffprobe.New(bin)
	}
	ffmpegBin := c.ffmpegPath
	if c.newTranscoder == nil {
		bin, err := toolpath.Find("ffmpeg", c.ffmpegPath)
		if err != nil {
			return nil, err
		}
		ffmpegBin = bin
	}

	c.refreshConflicts(outputDir)

	orch, err := processing.New(processing.Options{
		Policy:        c.policy,
		OutputDir:     outputDir,
		Queue:         c.queue,
		Prober:        prober,
		FFmpegBin:     ffmpegBin,
		Reporter:      c.rep,
		Notifier:      c.notifier,
		NewTranscoder: c.newTranscoder,
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.orch = orch
	c.mu.Unlock()

	if err := orch.Run(ctx); err != nil {
		return nil, err
	}
	return c.summarize(outputDir), nil
}

// refreshConflicts re-evaluates advisory conflicts for every pending entry
// against the chosen output directory.
func (c *Converter) refreshConflicts(outputDir string) {
	for _, e := range c.queue.Entries() {
		if e.Status != queue.StatusPending {
			continue
		}
		conflict, reason := processing.CheckConflicts(e.SourcePath, outputDir, c.policy.SubfolderPerFile)
		c.queue.SetConflict(e.ID, conflict, reason)
	}
}

func (c *Converter) summarize(outputDir string) *BatchResult {
	entries := c.queue.Entries()
	result := &BatchResult{TotalFiles: len(entries)}
	for _, e := range entries {
		fr := FileResult{
			FileName:       e.DisplayName,
			Status:         string(e.Status),
			Seconds:        e.ProcessingSeconds,
			OriginalSizeMB: e.SizeMB,
			OutputSizeMB:   e.OutputSizeMB,
			FailureReason:  e.FailureReason,
		}
		switch e.Status {
		case queue.StatusCompleted:
			fr.OutputPath = processing.OutputPath(outputDir, e.SourcePath, c.policy.SubfolderPerFile)
			result.Succeeded++
		case queue.StatusFailed:
			result.Failed++
			if e.FailureReason == "cancelled" {
				result.Cancelled = true
			}
		}
		result.Results = append(result.Results, fr)
	}
	return result
}
