package prop

import (
	"fmt"

	"github.com/pion/pixelsort/pkg/frame"
)

// Video represents a video's properties
type Video struct {
	Width, Height int
	FrameRate     float32
	FrameFormat   frame.Format
	// FrameCount is the number of decodable frames in the source.
	FrameCount uint64
}

// FrameSize returns the number of bytes of one raw frame.
func (v Video) FrameSize() int {
	return frame.Size(v.Width, v.Height)
}

// Resolution formats the dimensions the way ffmpeg's -s flag expects.
func (v Video) Resolution() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// Validate reports whether v describes a usable stream.
func (v Video) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("invalid resolution %s", v.Resolution())
	}
	if v.FrameCount == 0 {
		return fmt.Errorf("no frames to process")
	}
	return nil
}
