// Package config provides the processing policy and defaults for mp4batch.
package config

import (
	"fmt"
	"strings"
)

// Default constants
const (
	// DefaultCRF is the constant rate factor used by the encode modes.
	DefaultCRF = 23

	// MaxCRF is the maximum valid CRF value.
	MaxCRF = 50

	// DefaultPreset is the encoder speed preset.
	DefaultPreset = "fast"

	// DefaultAudioBitrate is the AAC bitrate applied in encode modes.
	DefaultAudioBitrate = "192k"

	// ProgressPollIntervalMS is how often the orchestrator samples the temp
	// output file size while a conversion is running, in milliseconds.
	ProgressPollIntervalMS = 500
)

// Mode selects how video and audio streams reach the MP4 container.
type Mode string

const (
	// ModeEncodeH264 re-encodes video with libx264.
	ModeEncodeH264 Mode = "encode-h264"
	// ModeEncodeH265 re-encodes video with libx265.
	ModeEncodeH265 Mode = "encode-h265"
	// ModeRemux copies the existing streams into a new container.
	ModeRemux Mode = "remux"
)

// ParseMode parses a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "encode-h264", "h264":
		return ModeEncodeH264, nil
	case "encode-h265", "h265", "encode":
		return ModeEncodeH265, nil
	case "remux":
		return ModeRemux, nil
	default:
		return "", fmt.Errorf("%w: '%s', valid options: encode-h264, encode-h265, remux", ErrInvalidMode, s)
	}
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// IsEncode reports whether the mode re-encodes the video stream.
func (m Mode) IsEncode() bool {
	return m == ModeEncodeH264 || m == ModeEncodeH265
}

// Resolution is the downscale target for encode modes.
type Resolution string

const (
	// ResolutionOriginal keeps the source dimensions.
	ResolutionOriginal Resolution = "original"
	// Resolution1080p caps the frame at 1080 pixels on the scaled axis.
	Resolution1080p Resolution = "1080p"
	// Resolution720p caps the frame at 720 pixels on the scaled axis.
	Resolution720p Resolution = "720p"
)

// ParseResolution parses a string into a Resolution.
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(s) {
	case "original", "":
		return ResolutionOriginal, nil
	case "1080p", "1080":
		return Resolution1080p, nil
	case "720p", "720":
		return Resolution720p, nil
	default:
		return "", fmt.Errorf("%w: '%s', valid options: original, 1080p, 720p", ErrInvalidResolution, s)
	}
}

// TargetPixels returns the pixel cap for the scaled axis, or 0 when the
// source dimensions are kept.
func (r Resolution) TargetPixels() int {
	switch r {
	case Resolution1080p:
		return 1080
	case Resolution720p:
		return 720
	default:
		return 0
	}
}

// speedPresets is the set of x264/x265 speed presets, fastest to slowest.
var speedPresets = map[string]bool{
	"ultrafast": true,
	"superfast": true,
	"veryfast":  true,
	"faster":    true,
	"fast":      true,
	"medium":    true,
	"slow":      true,
	"slower":    true,
	"veryslow":  true,
	"placebo":   true,
}

// Policy is the immutable configuration snapshot for one batch run.
// It is captured by value when the batch starts; files queued later in the
// same run process under the same rules.
type Policy struct {
	Mode       Mode
	CRF        int
	Resolution Resolution
	Preset     string

	// SubfolderPerFile places each output in <outputDir>/<stem>/<stem>.mp4.
	SubfolderPerFile bool
	// DeleteOriginal removes the source file after a successful conversion.
	DeleteOriginal bool
	// EnglishAudioOnly keeps only English or untagged audio streams,
	// falling back to all streams when none match.
	EnglishAudioOnly bool
	// EnglishSubtitlesOnly applies the same language filter to subtitles.
	EnglishSubtitlesOnly bool
}

// DefaultPolicy returns a policy with the standard encode settings.
// English-first stream selection is on by default; keeping every language
// is the opt-out.
func DefaultPolicy() Policy {
	return Policy{
		Mode:                 ModeEncodeH265,
		CRF:                  DefaultCRF,
		Resolution:           ResolutionOriginal,
		Preset:               DefaultPreset,
		EnglishAudioOnly:     true,
		EnglishSubtitlesOnly: true,
	}
}

// Validate checks the policy for invalid values.
func (p Policy) Validate() error {
	switch p.Mode {
	case ModeEncodeH264, ModeEncodeH265, ModeRemux:
	default:
		return fmt.Errorf("%w: '%s'", ErrInvalidMode, p.Mode)
	}

	if p.CRF < 0 || p.CRF > MaxCRF {
		return fmt.Errorf("%w: %d, must be 0-%d", ErrInvalidCRF, p.CRF, MaxCRF)
	}

	switch p.Resolution {
	case ResolutionOriginal, Resolution1080p, Resolution720p:
	default:
		return fmt.Errorf("%w: '%s'", ErrInvalidResolution, p.Resolution)
	}

	if !speedPresets[p.Preset] {
		return fmt.Errorf("%w: '%s', valid options: ultrafast through placebo", ErrInvalidSpeedPreset, p.Preset)
	}

	return nil
}
