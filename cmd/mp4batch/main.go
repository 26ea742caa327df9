// Package main provides the CLI entry point for mp4batch.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gbabichev/mp4batch"
	"github.com/gbabichev/mp4batch/internal/config"
	"github.com/gbabichev/mp4batch/internal/logging"
	"github.com/gbabichev/mp4batch/internal/reporter"
	"github.com/gbabichev/mp4batch/internal/util"
)

const appVersion = "1.0.0"

var (
	inputPath  string
	outputDir  string
	mode       string
	crf        int
	resolution string
	speed      string
	subfolders bool
	deleteOrig bool
	allAudio   bool
	allSubs    bool
	ffmpegBin  string
	ffprobeBin string
	jsonOutput bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "mp4batch",
		Short:   "Batch convert videos to MP4",
		Long:    "mp4batch converts or remuxes video collections into MP4 containers using FFmpeg, with H.265/H.264 encoding, AAC audio, and English-first stream selection.",
		Version: appVersion,
		RunE:    runConvert,
	}

	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input video file or directory (required)")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (required)")

	rootCmd.Flags().StringVarP(&mode, "mode", "m", string(config.ModeEncodeH265), "Processing mode: encode-h265, encode-h264, or remux")
	rootCmd.Flags().IntVar(&crf, "crf", config.DefaultCRF, fmt.Sprintf("Constant rate factor for encode modes (0-%d)", config.MaxCRF))
	rootCmd.Flags().StringVarP(&resolution, "resolution", "r", string(config.ResolutionOriginal), "Output resolution cap: original, 1080p, or 720p")
	rootCmd.Flags().StringVar(&speed, "speed", config.DefaultPolicy().Preset, "Encoder speed preset (ultrafast through placebo)")

	rootCmd.Flags().BoolVar(&subfolders, "subfolders", false, "Place each output in its own subfolder")
	rootCmd.Flags().BoolVar(&deleteOrig, "delete-original", false, "Delete each source file after successful conversion")
	rootCmd.Flags().BoolVar(&allAudio, "all-audio", false, "Keep audio in every language, not just English")
	rootCmd.Flags().BoolVar(&allSubs, "all-subtitles", false, "Keep text subtitles in every language, not just English")

	rootCmd.Flags().StringVar(&ffmpegBin, "ffmpeg", "", "Path to the ffmpeg binary")
	rootCmd.Flags().StringVar(&ffprobeBin, "ffprobe", "", "Path to the ffprobe binary")

	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit newline-delimited JSON events instead of terminal output")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	_ = rootCmd.MarkFlagRequired("input")
	_ = rootCmd.MarkFlagRequired("output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runConvert(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, os.Stderr)

	parsedMode, err := mp4batch.ParseMode(mode)
	if err != nil {
		return err
	}
	parsedResolution, err := config.ParseResolution(resolution)
	if err != nil {
		return err
	}

	input, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	output, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if err := util.EnsureDirectory(output); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	var rep mp4batch.Reporter = reporter.NewTerminalReporter()
	if jsonOutput {
		rep = reporter.NewJSONReporter()
	}

	opts := []mp4batch.Option{
		mp4batch.WithMode(parsedMode),
		mp4batch.WithCRF(crf),
		mp4batch.WithResolution(parsedResolution),
		mp4batch.WithSpeedPreset(speed),
		mp4batch.WithReporter(rep),
	}
	if subfolders {
		opts = append(opts, mp4batch.WithSubfolderPerFile())
	}
	if deleteOrig {
		opts = append(opts, mp4batch.WithDeleteOriginal())
	}
	if allAudio {
		opts = append(opts, mp4batch.WithAllAudio())
	}
	if allSubs {
		opts = append(opts, mp4batch.WithAllSubtitles())
	}
	if ffmpegBin != "" {
		opts = append(opts, mp4batch.WithFFmpegPath(ffmpegBin))
	}
	if ffprobeBin != "" {
		opts = append(opts, mp4batch.WithFFprobePath(ffprobeBin))
	}

	conv, err := mp4batch.New(opts...)
	if err != nil {
		return err
	}

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("input path does not exist: %s", input)
	}
	if info.IsDir() {
		if _, err := conv.AddDirectory(input); err != nil {
			return err
		}
	} else {
		if !util.IsVideoFile(input) {
			return fmt.Errorf("not a recognized video file: %s", input)
		}
		conv.Add(input)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First signal cancels the batch gracefully, a second one aborts.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logging.Info("cancelling batch, waiting for current file to stop")
		conv.Cancel()
		<-sigCh
		cancel()
	}()

	result, err := conv.Run(ctx, output)
	if err != nil {
		return err
	}
	if result.Failed > 0 && result.Succeeded == 0 {
		return fmt.Errorf("all %d files failed", result.Failed)
	}
	return nil
}
