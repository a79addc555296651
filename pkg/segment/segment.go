// Package segment implements the luminance-gated pixel sort applied to every
// frame of the stream.
//
// Each scan line (a row, or a column in vertical mode) is split into runs:
// maximal spans of pixels whose luminance, the truncated mean of R, G and B,
// lies within [Black, White]. Every run is sorted ascending by brightness,
// the plain sum of R, G and B. Pixels outside any run keep their position.
package segment

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pion/pixelsort/pkg/frame"
)

// Orientation selects the direction of the scan lines.
type Orientation int

const (
	// Horizontal sorts along rows.
	Horizontal Orientation = iota
	// Vertical sorts along columns.
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// ParseOrientation accepts "horizontal"/"h" and "vertical"/"v".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h", "row", "rows":
		return Horizontal, nil
	case "vertical", "v", "column", "columns":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown orientation %q", s)
}

// Thresholds is the inclusive luminance band that makes a pixel part of a run.
type Thresholds struct {
	Black uint8
	White uint8
}

// FullRange selects every pixel, so each scan line is a single run.
var FullRange = Thresholds{Black: 0, White: 255}

// Contains reports whether lum lies in [Black, White].
func (t Thresholds) Contains(lum uint8) bool {
	return lum >= t.Black && lum <= t.White
}

type pixel struct {
	r, g, b uint8
}

// luminance gates run membership.
func (p pixel) luminance() uint8 {
	return uint8((uint16(p.r) + uint16(p.g) + uint16(p.b)) / 3)
}

// brightness is the sort key.
func (p pixel) brightness() int {
	return int(p.r) + int(p.g) + int(p.b)
}

func compareBrightness(a, b pixel) int {
	return a.brightness() - b.brightness()
}

// Sort returns a sorted copy of the RGB24 frame pix. pix is not modified.
func Sort(pix []byte, width, height int, t Thresholds, o Orientation) []byte {
	out := make([]byte, len(pix))
	copy(out, pix)
	if frame.CheckSize(pix, width, height) != nil {
		return out
	}

	length, lines := width, height
	step, next := frame.BytesPerPixel, width*frame.BytesPerPixel
	if o == Vertical {
		length, lines = height, width
		step, next = width*frame.BytesPerPixel, frame.BytesPerPixel
	}

	line := make([]pixel, length)
	for l := 0; l < lines; l++ {
		base := l * next
		for i := range line {
			off := base + i*step
			line[i] = pixel{out[off], out[off+1], out[off+2]}
		}

		if !sortRuns(line, t) {
			continue
		}

		for i, p := range line {
			off := base + i*step
			out[off], out[off+1], out[off+2] = p.r, p.g, p.b
		}
	}
	return out
}

// sortRuns sorts every run of line in place and reports whether any run
// longer than one pixel was found.
func sortRuns(line []pixel, t Thresholds) bool {
	var touched bool
	start := -1
	for i, p := range line {
		in := t.Contains(p.luminance())
		switch {
		case in && start < 0:
			start = i
		case !in && start >= 0:
			touched = sortRun(line[start:i]) || touched
			start = -1
		}
	}
	// A run still open at the end of the line closes there.
	if start >= 0 {
		touched = sortRun(line[start:]) || touched
	}
	return touched
}

func sortRun(run []pixel) bool {
	if len(run) < 2 {
		return false
	}
	slices.SortStableFunc(run, compareBrightness)
	return true
}

// Transform returns Sort bound to t and o as a frame transform.
func Transform(t Thresholds, o Orientation) frame.TransformFunc {
	return func(pix []byte, width, height int) []byte {
		return Sort(pix, width, height, t, o)
	}
}
