// Package util provides utility functions for formatting and common operations.
package util

import (
	"fmt"
)

const (
	KiB int64 = 1024
	MiB       = KiB * 1024
	GiB       = MiB * 1024
)

// FormatBytes formats bytes with appropriate binary units (B, KiB, MiB, GiB).
func FormatBytes(bytes int64) string {
	bf := float64(bytes)
	switch {
	case bytes >= GiB:
		return fmt.Sprintf("%.2f GiB", bf/float64(GiB))
	case bytes >= MiB:
		return fmt.Sprintf("%.2f MiB", bf/float64(MiB))
	case bytes >= KiB:
		return fmt.Sprintf("%.2f KiB", bf/float64(KiB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatDuration formats seconds as HH:MM:SS.
func FormatDuration(seconds float64) string {
	if seconds < 0 || seconds != seconds { // NaN check
		return "??:??:??"
	}

	totalSecs := int64(seconds)
	hours := totalSecs / 3600
	minutes := (totalSecs % 3600) / 60
	secs := totalSecs % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// FormatRuntime formats a total runtime the way the batch summary shows it:
// minutes below one hour, hours otherwise.
func FormatRuntime(seconds float64) string {
	if seconds < 3600 {
		return fmt.Sprintf("%.1f minutes", seconds/60)
	}
	return fmt.Sprintf("%.2f hours", seconds/3600)
}

// CalculateSizeReduction calculates the percentage size reduction.
// Returns positive values for size reduction, negative for size increase.
func CalculateSizeReduction(inputSize, outputSize int64) float64 {
	if inputSize == 0 {
		return 0
	}
	return (float64(inputSize) - float64(outputSize)) / float64(inputSize) * 100
}
