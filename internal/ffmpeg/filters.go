package ffmpeg

import "fmt"

// ScaleFilter returns the ffmpeg -vf expression that caps the frame at
// target pixels on the orientation-appropriate axis, preserving aspect
// ratio. The -2 placeholder makes ffmpeg compute the free dimension rounded
// to even, as the codec macroblock layout requires. Returns "" when target
// is zero or the source is already at or below the target: scaling never
// upscales.
func ScaleFilter(width, height, target int) string {
	if target <= 0 || width <= 0 || height <= 0 {
		return ""
	}

	portrait := height > width
	if portrait {
		if width <= target {
			return ""
		}
		return fmt.Sprintf("scale=%d:-2", target)
	}

	if height <= target {
		return ""
	}
	return fmt.Sprintf("scale=-2:%d", target)
}
