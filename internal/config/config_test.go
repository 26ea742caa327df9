package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"encode-h265", ModeEncodeH265, false},
		{"encode", ModeEncodeH265, false},
		{"h265", ModeEncodeH265, false},
		{"encode-h264", ModeEncodeH264, false},
		{"REMUX", ModeRemux, false},
		{"passthrough", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidMode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		input   string
		want    Resolution
		wantErr bool
	}{
		{"original", ResolutionOriginal, false},
		{"", ResolutionOriginal, false},
		{"1080p", Resolution1080p, false},
		{"720", Resolution720p, false},
		{"4k", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseResolution(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolutionTargetPixels(t *testing.T) {
	assert.Equal(t, 0, ResolutionOriginal.TargetPixels())
	assert.Equal(t, 1080, Resolution1080p.TargetPixels())
	assert.Equal(t, 720, Resolution720p.TargetPixels())
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Policy)
		wantErr error
	}{
		{
			name:   "defaults are valid",
			mutate: func(p *Policy) {},
		},
		{
			name:    "CRF too high",
			mutate:  func(p *Policy) { p.CRF = 51 },
			wantErr: ErrInvalidCRF,
		},
		{
			name:    "CRF negative",
			mutate:  func(p *Policy) { p.CRF = -1 },
			wantErr: ErrInvalidCRF,
		},
		{
			name:   "CRF zero is valid",
			mutate: func(p *Policy) { p.CRF = 0 },
		},
		{
			name:    "bad preset",
			mutate:  func(p *Policy) { p.Preset = "warp9" },
			wantErr: ErrInvalidSpeedPreset,
		},
		{
			name:   "placebo preset is valid",
			mutate: func(p *Policy) { p.Preset = "placebo" },
		},
		{
			name:    "bad mode",
			mutate:  func(p *Policy) { p.Mode = "transmogrify" },
			wantErr: ErrInvalidMode,
		},
		{
			name:    "bad resolution",
			mutate:  func(p *Policy) { p.Resolution = "480i" },
			wantErr: ErrInvalidResolution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultPolicyKeepsEnglishOnly(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.EnglishAudioOnly)
	assert.True(t, p.EnglishSubtitlesOnly)
	assert.NoError(t, p.Validate())
}

func TestModeIsEncode(t *testing.T) {
	assert.True(t, ModeEncodeH264.IsEncode())
	assert.True(t, ModeEncodeH265.IsEncode())
	assert.False(t, ModeRemux.IsEncode())
}
