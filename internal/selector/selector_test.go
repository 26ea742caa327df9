package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbabichev/mp4batch/internal/config"
	"github.com/gbabichev/mp4batch/internal/errors"
	"github.com/gbabichev/mp4batch/internal/ffprobe"
)

func audioStream(index int, codec, lang string) ffprobe.Stream {
	return ffprobe.Stream{Index: index, Kind: ffprobe.KindAudio, CodecName: codec, Language: lang}
}

func subtitleStream(index int, codec, lang string) ffprobe.Stream {
	return ffprobe.Stream{Index: index, Kind: ffprobe.KindSubtitle, CodecName: codec, Language: lang}
}

func indices(tracks []Track) []int {
	var out []int
	for _, t := range tracks {
		out = append(out, t.Stream.Index)
	}
	return out
}

func TestSelectAudioEnglishOnly(t *testing.T) {
	streams := []ffprobe.Stream{
		audioStream(1, "aac", "eng"),
		audioStream(2, "aac", "spa"),
		audioStream(3, "ac3", "und"),
		{Index: 0, Kind: ffprobe.KindVideo, CodecName: "h264"},
	}

	tracks := SelectAudio(streams, true)
	require.Equal(t, []int{1, 3}, indices(tracks))
	for _, track := range tracks {
		assert.Equal(t, "eng", track.OutputLanguage, "filtered tracks are relabelled eng")
	}
}

func TestSelectAudioKeepAll(t *testing.T) {
	streams := []ffprobe.Stream{
		audioStream(1, "aac", "fra"),
		audioStream(2, "aac", "und"),
	}

	tracks := SelectAudio(streams, false)
	require.Equal(t, []int{1, 2}, indices(tracks))
	assert.Equal(t, "fra", tracks[0].OutputLanguage)
	assert.Equal(t, "", tracks[1].OutputLanguage, "undetermined stays untagged")
}

func TestSelectAudioFallbackLaw(t *testing.T) {
	// No English or untagged streams: the strict stage selects nothing, so
	// the filter must relax to every audio stream unfiltered.
	streams := []ffprobe.Stream{
		audioStream(1, "aac", "jpn"),
		audioStream(2, "ac3", "fra"),
	}

	filtered := SelectAudio(streams, true)
	unfiltered := SelectAudio(streams, false)
	assert.Equal(t, unfiltered, filtered)
	require.Equal(t, []int{1, 2}, indices(filtered))
	assert.Equal(t, "jpn", filtered[0].OutputLanguage)
}

func TestSelectAudioEmptyOnlyWhenNoAudio(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 0, Kind: ffprobe.KindVideo, CodecName: "h264"},
	}
	assert.Empty(t, SelectAudio(streams, true))
	assert.Empty(t, SelectAudio(streams, false))
}

func TestSelectAudioIdempotent(t *testing.T) {
	streams := []ffprobe.Stream{
		audioStream(1, "aac", "eng"),
		audioStream(2, "dts", "spa"),
	}

	first := SelectAudio(streams, true)
	second := SelectAudio(streams, true)
	assert.Equal(t, first, second)
}

func TestSelectSubtitlesCodecAllowList(t *testing.T) {
	streams := []ffprobe.Stream{
		subtitleStream(3, "subrip", "eng"),
		subtitleStream(4, "hdmv_pgs_subtitle", "eng"),
		subtitleStream(5, "ass", "und"),
		subtitleStream(6, "dvd_subtitle", "und"),
		subtitleStream(7, "mov_text", "spa"),
	}

	tracks := SelectSubtitles(streams, false)
	assert.Equal(t, []int{3, 5, 7}, indices(tracks), "bitmap codecs dropped regardless of language")
}

func TestSelectSubtitlesEnglishOnly(t *testing.T) {
	streams := []ffprobe.Stream{
		subtitleStream(3, "subrip", "eng"),
		subtitleStream(4, "subrip", "spa"),
	}

	tracks := SelectSubtitles(streams, true)
	require.Equal(t, []int{3}, indices(tracks))
	assert.Equal(t, "eng", tracks[0].OutputLanguage)
}

func TestSelectSubtitlesFallback(t *testing.T) {
	streams := []ffprobe.Stream{
		subtitleStream(3, "subrip", "fra"),
		subtitleStream(4, "ssa", "deu"),
	}

	tracks := SelectSubtitles(streams, true)
	assert.Equal(t, []int{3, 4}, indices(tracks), "no English subs relaxes to all text subs")
	assert.Equal(t, "fra", tracks[0].OutputLanguage)
}

func TestCheckCompatibilityEncodeAcceptsEverything(t *testing.T) {
	audio := []Track{{Stream: audioStream(1, "dts", "eng")}}
	assert.NoError(t, CheckCompatibility(config.ModeEncodeH265, "av1", audio))
	assert.NoError(t, CheckCompatibility(config.ModeEncodeH264, "av1", audio))
}

func TestCheckCompatibilityRemuxRejectsAV1(t *testing.T) {
	err := CheckCompatibility(config.ModeRemux, "av1", nil)
	require.Error(t, err)
	assert.True(t, errors.IsIncompatible(err))
	assert.Contains(t, err.Error(), "AV1")
}

func TestCheckCompatibilityRemuxRejectsDTS(t *testing.T) {
	audio := []Track{
		{Stream: audioStream(1, "aac", "eng")},
		{Stream: audioStream(2, "dts", "eng")},
	}

	err := CheckCompatibility(config.ModeRemux, "h264", audio)
	require.Error(t, err)
	assert.True(t, errors.IsIncompatible(err))
	assert.Contains(t, err.Error(), "DTS")
	assert.Contains(t, err.Error(), "stream 2")
}

func TestCheckCompatibilityRemuxAfterFiltering(t *testing.T) {
	// The DTS track was dropped by the language filter, so remux is fine:
	// compatibility is judged on selected tracks, not the raw probe.
	streams := []ffprobe.Stream{
		audioStream(1, "aac", "eng"),
		audioStream(2, "dts", "fra"),
	}
	selected := SelectAudio(streams, true)
	require.Equal(t, []int{1}, indices(selected))

	assert.NoError(t, CheckCompatibility(config.ModeRemux, "h264", selected))
}

func TestCheckCompatibilityRemuxOK(t *testing.T) {
	audio := []Track{{Stream: audioStream(1, "ac3", "eng")}}
	assert.NoError(t, CheckCompatibility(config.ModeRemux, "hevc", audio))
}
