//go:build windows

package ffmpeg

import "os"

// terminateProcess kills ffmpeg outright; Windows has no SIGTERM equivalent
// for console children started without a console event group.
func terminateProcess(p *os.Process) {
	_ = p.Kill()
}
