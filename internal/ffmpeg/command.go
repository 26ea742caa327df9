// Package ffmpeg provides FFmpeg command building and execution.
package ffmpeg

import (
	"fmt"

	"github.com/gbabichev/mp4batch/internal/config"
	"github.com/gbabichev/mp4batch/internal/selector"
)

// BuildRequest carries everything needed to render an ffmpeg argument
// vector for one file. OutputPath is always a private temporary file; final
// placement is the orchestrator's job.
type BuildRequest struct {
	InputPath  string
	OutputPath string
	Policy     config.Policy

	// VideoCodec is the probed source video codec (for remux tagging).
	VideoCodec string
	// Width and Height are the probed source dimensions.
	Width  int
	Height int

	Audio     []selector.Track
	Subtitles []selector.Track
}

// BuildArgs renders the full argument vector for the transcode tool,
// excluding the binary name. Deterministic and side-effect free.
func BuildArgs(req BuildRequest) []string {
	args := []string{"-i", req.InputPath, "-y"}

	if req.Policy.Mode.IsEncode() {
		args = append(args, encodeVideoArgs(req.Policy)...)
	} else {
		args = append(args, "-c:v", "copy")
	}

	args = append(args, audioCodecArgs(req)...)

	// Always map the first video stream and strip container metadata.
	args = append(args, "-map", "0:v:0", "-map_metadata", "-1")

	if req.Policy.Mode.IsEncode() {
		if filter := ScaleFilter(req.Width, req.Height, req.Policy.Resolution.TargetPixels()); filter != "" {
			args = append(args, "-vf", filter)
		}
	}

	// HEVC output needs the hvc1 tag for Apple players. Stream copy does
	// not carry the tag over, so remuxed hevc sources need it too.
	if req.Policy.Mode == config.ModeEncodeH265 ||
		(req.Policy.Mode == config.ModeRemux && req.VideoCodec == "hevc") {
		args = append(args, "-tag:v", "hvc1")
	}

	args = append(args, "-movflags", "+faststart", "-loglevel", "error")

	args = append(args, streamMapArgs(req)...)

	return append(args, req.OutputPath)
}

// encodeVideoArgs returns the video encoder flags for the encode modes.
func encodeVideoArgs(policy config.Policy) []string {
	var args []string
	if policy.Mode == config.ModeEncodeH265 {
		args = append(args, "-c:v", "libx265", "-x265-params", "log-level=0")
	} else {
		args = append(args, "-c:v", "libx264")
	}
	return append(args,
		"-preset", policy.Preset,
		"-crf", fmt.Sprintf("%d", policy.CRF),
	)
}

// audioCodecArgs returns the audio codec flags, or an explicit -an when no
// audio streams were selected (video-only output).
func audioCodecArgs(req BuildRequest) []string {
	if len(req.Audio) == 0 {
		return []string{"-an"}
	}
	if req.Policy.Mode.IsEncode() {
		return []string{"-c:a", "aac", "-b:a", config.DefaultAudioBitrate, "-channel_layout", "5.1"}
	}
	return []string{"-c:a", "copy"}
}

// streamMapArgs maps every selected audio and subtitle stream individually,
// tagging each with its language at its own output index.
func streamMapArgs(req BuildRequest) []string {
	var args []string

	for i, track := range req.Audio {
		args = append(args, "-map", fmt.Sprintf("0:%d", track.Stream.Index))
		if track.OutputLanguage != "" {
			args = append(args, fmt.Sprintf("-metadata:s:a:%d", i), "language="+track.OutputLanguage)
		}
	}

	if len(req.Subtitles) > 0 {
		args = append(args, "-c:s", "mov_text")
		for i, track := range req.Subtitles {
			args = append(args, "-map", fmt.Sprintf("0:%d", track.Stream.Index))
			if track.OutputLanguage != "" {
				args = append(args, fmt.Sprintf("-metadata:s:s:%d", i), "language="+track.OutputLanguage)
			}
		}
	}

	return args
}
