package frame

import "fmt"

// Frame is one decoded picture tagged with its position in the stream.
// A Frame is owned by exactly one pipeline stage at a time.
type Frame struct {
	Seq uint64
	Pix []byte
}

// Size returns the number of bytes an RGB24 frame of width x height occupies.
func Size(width, height int) int {
	return width * height * BytesPerPixel
}

// CheckSize reports an error when pix can't hold a width x height RGB24 frame.
func CheckSize(pix []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid frame dimensions %dx%d", width, height)
	}
	if size := Size(width, height); len(pix) != size {
		return fmt.Errorf("frame length (%d) not expected size (%d)", len(pix), size)
	}
	return nil
}
