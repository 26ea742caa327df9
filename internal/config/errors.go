package config

import "errors"

// Sentinel errors for policy validation.
var (
	ErrInvalidMode        = errors.New("invalid processing mode")
	ErrInvalidCRF         = errors.New("invalid CRF value")
	ErrInvalidResolution  = errors.New("invalid resolution target")
	ErrInvalidSpeedPreset = errors.New("invalid speed preset")
)
