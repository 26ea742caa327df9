// Package ffprobe wraps the ffprobe tool for media stream inspection.
package ffprobe

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/gbabichev/mp4batch/internal/errors"
)

// StreamKind identifies the media type of a probed stream.
type StreamKind string

const (
	KindVideo    StreamKind = "video"
	KindAudio    StreamKind = "audio"
	KindSubtitle StreamKind = "subtitle"
	KindOther    StreamKind = "other"
)

// LanguageUndetermined is the tag ffprobe reports for untagged streams.
const LanguageUndetermined = "und"

// Stream describes one media stream found by probing. Immutable once
// produced; the index is source-file-relative and stable for one probe.
type Stream struct {
	Index     int
	Kind      StreamKind
	CodecName string
	Language  string
	Title     string
	Width     int
	Height    int
}

// selectStreamsFlag maps a stream kind to the ffprobe -select_streams value.
func selectStreamsFlag(kind StreamKind) string {
	switch kind {
	case KindVideo:
		return "v"
	case KindAudio:
		return "a"
	case KindSubtitle:
		return "s"
	default:
		return ""
	}
}

// ffprobeOutput represents the JSON output from ffprobe.
type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index     int               `json:"index"`
	CodecType string            `json:"codec_type"`
	CodecName string            `json:"codec_name"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Tags      map[string]string `json:"tags"`
}

// Prober invokes ffprobe through a configurable binary path.
type Prober struct {
	Bin string
}

// New creates a Prober for the given ffprobe binary.
func New(bin string) *Prober {
	if bin == "" {
		bin = "ffprobe"
	}
	return &Prober{Bin: bin}
}

// Streams probes inputPath and returns its streams, optionally filtered to
// one kind. A non-zero exit or malformed output yields a probe error; probe
// failure is terminal for the file, the caller does not retry.
func (p *Prober) Streams(ctx context.Context, inputPath string, kind StreamKind) ([]Stream, error) {
	args := []string{"-v", "error", "-show_streams", "-print_format", "json"}
	if flag := selectStreamsFlag(kind); flag != "" {
		args = append(args, "-select_streams", flag)
	}
	args = append(args, inputPath)

	cmd := exec.CommandContext(ctx, p.Bin, args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, errors.NewProbeError("probe failed", err)
	}

	var result ffprobeOutput
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, errors.NewProbeError("probe failed", err)
	}

	streams := make([]Stream, 0, len(result.Streams))
	for _, s := range result.Streams {
		streams = append(streams, parseStream(s))
	}
	return streams, nil
}

// parseStream converts the raw JSON record into a Stream.
func parseStream(s ffprobeStream) Stream {
	out := Stream{
		Index:     s.Index,
		Kind:      parseKind(s.CodecType),
		CodecName: strings.ToLower(s.CodecName),
		Language:  LanguageUndetermined,
		Width:     s.Width,
		Height:    s.Height,
	}
	if lang, ok := s.Tags["language"]; ok && lang != "" {
		out.Language = strings.ToLower(lang)
	}
	if title, ok := s.Tags["title"]; ok {
		out.Title = strings.TrimSpace(title)
	}
	return out
}

func parseKind(codecType string) StreamKind {
	switch codecType {
	case "video":
		return KindVideo
	case "audio":
		return KindAudio
	case "subtitle":
		return KindSubtitle
	default:
		return KindOther
	}
}

// FirstVideo returns the first video stream in streams, or false when the
// file has none.
func FirstVideo(streams []Stream) (Stream, bool) {
	for _, s := range streams {
		if s.Kind == KindVideo {
			return s, true
		}
	}
	return Stream{}, false
}
