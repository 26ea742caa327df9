// Package selector decides which probed streams reach the MP4 output.
// All functions are pure: same streams and policy always yield the same
// selections.
package selector

import (
	"fmt"

	"github.com/gbabichev/mp4batch/internal/config"
	"github.com/gbabichev/mp4batch/internal/errors"
	"github.com/gbabichev/mp4batch/internal/ffprobe"
)

// Track is one selected stream plus the language tag the output should
// carry. An empty OutputLanguage means no language metadata is written.
type Track struct {
	Stream         ffprobe.Stream
	OutputLanguage string
}

// englishLanguages are the tags the strict English filter accepts.
// Untagged streams pass: most single-language rips simply never set the tag.
var englishLanguages = map[string]bool{
	"eng": true,
	ffprobe.LanguageUndetermined: true,
}

// textSubtitleCodecs are the subtitle codecs that can be converted to
// MP4-embeddable mov_text. Bitmap formats (pgs, dvdsub) are always dropped.
var textSubtitleCodecs = map[string]bool{
	"subrip":   true,
	"srt":      true,
	"ass":      true,
	"ssa":      true,
	"mov_text": true,
}

// SelectAudio returns the audio tracks to map. With englishOnly set it
// applies a two-stage policy: first keep only English or untagged streams,
// forcing their output tag to "eng"; if that stage selects nothing, relax
// to every audio stream with original tags preserved. An empty result
// therefore means the source has no audio at all.
func SelectAudio(streams []ffprobe.Stream, englishOnly bool) []Track {
	if englishOnly {
		if strict := selectAudioStrict(streams); len(strict) > 0 {
			return strict
		}
	}
	return selectAudioRelaxed(streams)
}

// selectAudioStrict keeps English or untagged audio, relabelled "eng".
func selectAudioStrict(streams []ffprobe.Stream) []Track {
	var tracks []Track
	for _, s := range streams {
		if s.Kind != ffprobe.KindAudio {
			continue
		}
		if !englishLanguages[s.Language] {
			continue
		}
		tracks = append(tracks, Track{Stream: s, OutputLanguage: "eng"})
	}
	return tracks
}

// selectAudioRelaxed keeps every audio stream with its original tag.
func selectAudioRelaxed(streams []ffprobe.Stream) []Track {
	var tracks []Track
	for _, s := range streams {
		if s.Kind != ffprobe.KindAudio {
			continue
		}
		lang := ""
		if s.Language != ffprobe.LanguageUndetermined {
			lang = s.Language
		}
		tracks = append(tracks, Track{Stream: s, OutputLanguage: lang})
	}
	return tracks
}

// SelectSubtitles returns the subtitle tracks to map. Streams whose codec is
// not text-based are always dropped regardless of language. The language
// filter follows the same strict-then-relaxed shape as SelectAudio.
func SelectSubtitles(streams []ffprobe.Stream, englishOnly bool) []Track {
	candidates := textSubtitles(streams)

	if englishOnly {
		var strict []Track
		for _, s := range candidates {
			if englishLanguages[s.Language] {
				strict = append(strict, Track{Stream: s, OutputLanguage: "eng"})
			}
		}
		if len(strict) > 0 {
			return strict
		}
	}

	var tracks []Track
	for _, s := range candidates {
		lang := ""
		if s.Language != ffprobe.LanguageUndetermined {
			lang = s.Language
		}
		tracks = append(tracks, Track{Stream: s, OutputLanguage: lang})
	}
	return tracks
}

func textSubtitles(streams []ffprobe.Stream) []ffprobe.Stream {
	var out []ffprobe.Stream
	for _, s := range streams {
		if s.Kind != ffprobe.KindSubtitle {
			continue
		}
		if !textSubtitleCodecs[s.CodecName] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// CheckCompatibility verifies that the source streams can be handled in the
// requested mode. Encode modes accept anything; remux rejects sources whose
// video codec cannot be stream-copied into MP4 and selected audio tracks
// whose codec MP4 players cannot take verbatim (the DTS family). Audio is
// checked after language filtering, so a dropped DTS track does not block a
// remux.
func CheckCompatibility(mode config.Mode, videoCodec string, audio []Track) error {
	if mode != config.ModeRemux {
		return nil
	}

	if videoCodec == "av1" {
		return errors.NewIncompatibleError("AV1 video cannot be remuxed, use an encode mode")
	}

	for _, t := range audio {
		if isDTS(t.Stream.CodecName) {
			return errors.NewIncompatibleError(
				fmt.Sprintf("DTS audio (stream %d) cannot be remuxed into MP4, use an encode mode", t.Stream.Index))
		}
	}

	return nil
}

// isDTS matches the DTS codec family (ffprobe reports "dts" for DTS,
// DTS-HD MA and DTS:X profiles; "dca" appears in older builds).
func isDTS(codec string) bool {
	return codec == "dts" || codec == "dca"
}
