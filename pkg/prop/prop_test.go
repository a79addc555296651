package prop

import (
	"testing"

	"github.com/pion/pixelsort/pkg/frame"
)

func TestVideo(t *testing.T) {
	v := Video{Width: 640, Height: 480, FrameCount: 10, FrameFormat: frame.FormatRGB24}
	if got := v.Resolution(); got != "640x480" {
		t.Errorf("Resolution() = %q", got)
	}
	if got := v.FrameSize(); got != 640*480*3 {
		t.Errorf("FrameSize() = %d", got)
	}
	if err := v.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVideoValidate(t *testing.T) {
	cases := map[string]Video{
		"NoWidth":  {Height: 1, FrameCount: 1},
		"NoHeight": {Width: 1, FrameCount: 1},
		"NoFrames": {Width: 1, Height: 1},
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			if err := v.Validate(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
