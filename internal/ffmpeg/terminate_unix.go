//go:build unix

package ffmpeg

import (
	"os"

	"golang.org/x/sys/unix"
)

// terminateProcess asks ffmpeg to stop with SIGTERM, which lets it flush
// and close its output before exiting.
func terminateProcess(p *os.Process) {
	_ = p.Signal(unix.SIGTERM)
}
