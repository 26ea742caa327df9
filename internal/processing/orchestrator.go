// Package processing drives the batch pipeline: it walks the queue, probes
// each file, builds the conversion command, runs it, and moves the result
// into place. One batch runs at a time; progress flows out through the
// reporter and notifier rather than shared state.
package processing

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gbabichev/mp4batch/internal/config"
	"github.com/gbabichev/mp4batch/internal/errors"
	"github.com/gbabichev/mp4batch/internal/ffmpeg"
	"github.com/gbabichev/mp4batch/internal/ffprobe"
	"github.com/gbabichev/mp4batch/internal/logging"
	"github.com/gbabichev/mp4batch/internal/notify"
	"github.com/gbabichev/mp4batch/internal/queue"
	"github.com/gbabichev/mp4batch/internal/reporter"
	"github.com/gbabichev/mp4batch/internal/selector"
	"github.com/gbabichev/mp4batch/internal/util"
)

// StreamProber yields the streams of one kind from a media file.
// *ffprobe.Prober is the production implementation.
type StreamProber interface {
	Streams(ctx context.Context, inputPath string, kind ffprobe.StreamKind) ([]ffprobe.Stream, error)
}

// Transcoder runs one conversion command to completion. *ffmpeg.Runner is
// the production implementation; a Transcoder is single-use.
type Transcoder interface {
	Run(ctx context.Context, bin string, args []string) ffmpeg.Result
	Terminate()
}

// RunState is a snapshot of the in-flight batch for status displays.
type RunState struct {
	IsProcessing   bool
	CurrentIndex   int
	TotalFiles     int
	CurrentFile    string
	ElapsedSeconds float64
	OriginalSizeMB int64
	OutputSizeMB   int64
	HadErrors      bool
}

// Options configures an Orchestrator. Queue and Prober are required.
type Options struct {
	Policy    config.Policy
	OutputDir string
	Queue     *queue.Queue
	Prober    StreamProber
	FFmpegBin string

	Reporter reporter.Reporter
	Notifier notify.Notifier
	Logger   *logging.Logger

	// NewTranscoder overrides the per-file runner construction, for tests.
	NewTranscoder func() Transcoder
	// TempDir overrides where intermediate outputs are written. Empty means
	// the system default.
	TempDir string
}

// Orchestrator processes the queue one file at a time. The policy is
// snapshotted at construction so edits during a run only affect the next
// batch.
type Orchestrator struct {
	policy    config.Policy
	outputDir string
	queue     *queue.Queue
	prober    StreamProber
	ffmpegBin string
	rep       reporter.Reporter
	notifier  notify.Notifier
	log       *logging.Logger

	newTranscoder func() Transcoder
	tempDir       string

	cancelled atomic.Bool

	mu      sync.Mutex
	current Transcoder

	stateMu sync.Mutex
	state   RunState
}

// New creates an orchestrator over the given queue. The policy is validated
// and copied; reporter, notifier, and logger default to no-ops.
func New(opts Options) (*Orchestrator, error) {
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}
	o := &Orchestrator{
		policy:        opts.Policy,
		outputDir:     opts.OutputDir,
		queue:         opts.Queue,
		prober:        opts.Prober,
		ffmpegBin:     opts.FFmpegBin,
		rep:           opts.Reporter,
		notifier:      opts.Notifier,
		log:           opts.Logger,
		newTranscoder: opts.NewTranscoder,
		tempDir:       opts.TempDir,
	}
	if o.ffmpegBin == "" {
		o.ffmpegBin = "ffmpeg"
	}
	if o.rep == nil {
		o.rep = reporter.NullReporter{}
	}
	if o.notifier == nil {
		o.notifier = notify.NullNotifier{}
	}
	if o.log == nil {
		o.log = logging.Global().WithPrefix("processing")
	}
	if o.newTranscoder == nil {
		o.newTranscoder = func() Transcoder { return ffmpeg.NewRunner() }
	}
	return o, nil
}

// State returns a copy of the current run state.
func (o *Orchestrator) State() RunState {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()
	return o.state
}

// Cancel stops the batch. The in-flight conversion is terminated and its
// file marked failed; remaining files stay pending for a later run.
func (o *Orchestrator) Cancel() {
	o.cancelled.Store(true)
	o.mu.Lock()
	if o.current != nil {
		o.current.Terminate()
	}
	o.mu.Unlock()
}

// Run processes pending queue entries until the queue drains or the batch
// is cancelled. Files added while the batch runs are picked up in the same
// pass. One file failing never stops the batch.
func (o *Orchestrator) Run(ctx context.Context) error {
	if !util.DirectoryExists(o.outputDir) {
		return errors.NewPathError("output directory does not exist: " + o.outputDir)
	}
	o.cancelled.Store(false)

	start := time.Now()
	o.setState(func(s *RunState) {
		*s = RunState{IsProcessing: true, TotalFiles: o.queue.Len()}
	})

	var names []string
	for _, e := range o.queue.Entries() {
		names = append(names, e.DisplayName)
	}
	o.rep.BatchStarted(reporter.BatchStartInfo{
		TotalFiles: o.queue.Len(),
		FileList:   names,
		OutputDir:  o.outputDir,
		Mode:       string(o.policy.Mode),
	})

	index := 0
	for !o.stopping(ctx) {
		entry, ok := o.queue.NextPending()
		if !ok {
			break
		}
		index++
		o.processFile(ctx, entry, index)
		o.notifier.RemainingChanged(o.queue.PendingCount())
	}

	completed, failed := o.queue.Counts()
	o.setState(func(s *RunState) {
		s.IsProcessing = false
		s.CurrentFile = ""
	})
	o.rep.BatchComplete(reporter.BatchSummary{
		TotalFiles:   o.queue.Len(),
		Succeeded:    completed,
		Failed:       failed,
		TotalSeconds: time.Since(start).Seconds(),
		Cancelled:    o.cancelled.Load(),
	})
	o.notifier.BatchFinished(completed, failed)
	o.log.Info("batch finished",
		"succeeded", completed,
		"failed", failed,
		"cancelled", o.cancelled.Load())
	return nil
}

func (o *Orchestrator) stopping(ctx context.Context) bool {
	return o.cancelled.Load() || ctx.Err() != nil
}

func (o *Orchestrator) processFile(ctx context.Context, entry queue.Entry, index int) {
	// The user may have removed the entry between batch start and now.
	if _, ok := o.queue.Get(entry.ID); !ok {
		return
	}
	if err := o.queue.MarkProcessing(entry.ID); err != nil {
		return
	}

	start := time.Now()
	total := o.queue.Len()
	o.setState(func(s *RunState) {
		s.CurrentIndex = index
		s.TotalFiles = total
		s.CurrentFile = entry.DisplayName
		s.ElapsedSeconds = 0
		s.OriginalSizeMB = entry.SizeMB
		s.OutputSizeMB = 0
	})
	o.rep.FileStarted(reporter.FileStartInfo{
		Index:        index,
		TotalFiles:   total,
		FileName:     entry.DisplayName,
		SourceSizeMB: entry.SizeMB,
		Conflict:     entry.ConflictReason,
	})

	fail := func(err error) {
		seconds := time.Since(start).Seconds()
		reason := errors.Reason(err)
		o.log.Error("file failed", "file", entry.DisplayName, "reason", reason, "error", err)
		_ = o.queue.Fail(entry.ID, seconds, reason)
		o.setState(func(s *RunState) { s.HadErrors = true })
		o.rep.FileFailed(reporter.FileFailure{
			FileName: entry.DisplayName,
			Reason:   reason,
			Seconds:  seconds,
		})
	}

	video, audio, subtitles, err := o.probe(ctx, entry.SourcePath)
	if err != nil {
		fail(err)
		return
	}

	audioTracks := selector.SelectAudio(audio, o.policy.EnglishAudioOnly)
	subtitleTracks := selector.SelectSubtitles(subtitles, o.policy.EnglishSubtitlesOnly)
	if err := selector.CheckCompatibility(o.policy.Mode, video.CodecName, audioTracks); err != nil {
		fail(err)
		return
	}
	if len(audioTracks) == 0 {
		o.log.Warn("no audio streams selected, output will be video only",
			"file", entry.DisplayName)
	}

	tmp, err := os.CreateTemp(o.tempDir, "mp4batch-*.mp4")
	if err != nil {
		fail(errors.NewIOError("could not create temporary output", err))
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()

	args := ffmpeg.BuildArgs(ffmpeg.BuildRequest{
		InputPath:  entry.SourcePath,
		OutputPath: tmpPath,
		Policy:     o.policy,
		VideoCodec: video.CodecName,
		Width:      video.Width,
		Height:     video.Height,
		Audio:      audioTracks,
		Subtitles:  subtitleTracks,
	})

	runner := o.newTranscoder()
	o.setCurrent(runner)
	stop := make(chan struct{})
	var poll sync.WaitGroup
	poll.Add(1)
	go func() {
		defer poll.Done()
		o.pollProgress(stop, entry, index, total, start, tmpPath)
	}()

	o.log.Debug("running conversion", "file", entry.DisplayName, "args", args)
	result := runner.Run(ctx, o.ffmpegBin, args)

	close(stop)
	poll.Wait()
	o.setCurrent(nil)

	if !result.Success {
		_ = os.Remove(tmpPath)
		if o.stopping(ctx) {
			fail(errors.NewCancelledError())
		} else {
			fail(errors.NewTranscodeError(result.ErrorSummary))
		}
		return
	}

	outputSizeMB := util.GetFileSizeMB(tmpPath)
	finalPath := OutputPath(o.outputDir, entry.SourcePath, o.policy.SubfolderPerFile)
	if err := util.EnsureDirectory(filepath.Dir(finalPath)); err != nil {
		_ = os.Remove(tmpPath)
		fail(errors.NewPlacementError("could not create destination folder", err))
		return
	}
	if err := util.MoveFile(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		fail(errors.NewPlacementError("could not move output into place", err))
		return
	}

	if o.policy.DeleteOriginal {
		o.deleteOriginal(entry)
	}

	seconds := time.Since(start).Seconds()
	_ = o.queue.Complete(entry.ID, seconds, outputSizeMB)
	o.rep.FileCompleted(reporter.FileOutcome{
		FileName:       entry.DisplayName,
		OutputPath:     finalPath,
		Seconds:        seconds,
		OriginalSizeMB: entry.SizeMB,
		OutputSizeMB:   outputSizeMB,
	})
	o.log.Info("file completed",
		"file", entry.DisplayName,
		"output", finalPath,
		"seconds", seconds)
}

// probe gathers video, audio, and subtitle streams in three passes, the
// same grouping the selection stage consumes.
func (o *Orchestrator) probe(ctx context.Context, path string) (ffprobe.Stream, []ffprobe.Stream, []ffprobe.Stream, error) {
	videoStreams, err := o.prober.Streams(ctx, path, ffprobe.KindVideo)
	if err != nil {
		return ffprobe.Stream{}, nil, nil, err
	}
	video, ok := ffprobe.FirstVideo(videoStreams)
	if !ok {
		return ffprobe.Stream{}, nil, nil, errors.NewProbeError("no video stream found", nil)
	}
	audio, err := o.prober.Streams(ctx, path, ffprobe.KindAudio)
	if err != nil {
		return ffprobe.Stream{}, nil, nil, err
	}
	subtitles, err := o.prober.Streams(ctx, path, ffprobe.KindSubtitle)
	if err != nil {
		return ffprobe.Stream{}, nil, nil, err
	}
	return video, audio, subtitles, nil
}

// pollProgress samples the growing temp file until stop closes. Samples
// feed both the run state and the reporter.
func (o *Orchestrator) pollProgress(stop <-chan struct{}, entry queue.Entry, index, total int, start time.Time, tmpPath string) {
	ticker := time.NewTicker(config.ProgressPollIntervalMS * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			outputSizeMB := util.GetFileSizeMB(tmpPath)
			elapsed := time.Since(start).Seconds()
			o.setState(func(s *RunState) {
				s.ElapsedSeconds = elapsed
				s.OutputSizeMB = outputSizeMB
			})
			o.rep.FileProgress(reporter.ProgressSnapshot{
				Index:          index,
				TotalFiles:     total,
				FileName:       entry.DisplayName,
				ElapsedSeconds: elapsed,
				OriginalSizeMB: entry.SizeMB,
				OutputSizeMB:   outputSizeMB,
			})
		}
	}
}

// deleteOriginal removes the source after a successful conversion. The
// conversion already succeeded, so a deletion failure only warns.
func (o *Orchestrator) deleteOriginal(entry queue.Entry) {
	if err := os.Remove(entry.SourcePath); err != nil {
		msg := "could not delete original: " + entry.DisplayName
		o.log.Warn(msg, "error", err)
		o.rep.Warning(msg)
	}
}

func (o *Orchestrator) setCurrent(t Transcoder) {
	o.mu.Lock()
	o.current = t
	o.mu.Unlock()
}

func (o *Orchestrator) setState(fn func(*RunState)) {
	o.stateMu.Lock()
	fn(&o.state)
	o.stateMu.Unlock()
}
