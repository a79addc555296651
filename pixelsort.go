// Package pixelsort applies a luminance-gated pixel sort to every frame of a
// video stream.
//
// Frames are read from a Decoder by a single extraction goroutine, sorted by
// a pool of workers and handed to a single sink goroutine that writes them to
// an Encoder in their original order. Workers compute out of order but
// publish in order: each one waits on a Gate until the sink is ready for the
// frame it holds.
package pixelsort

import (
	"io"
	"time"

	"github.com/pion/pixelsort/internal/logging"
	"github.com/pion/pixelsort/pkg/frame"
)

var logger = logging.NewLogger("pixelsort")

// Decoder is the source of concatenated raw RGB24 frames.
type Decoder interface {
	io.Reader
	// Stop asks the decoder to stop producing frames. It may be called while
	// a Read is blocked and must make that Read return. An exit caused by
	// Stop is not reported as a failure by Wait.
	Stop()
	// Wait blocks until the decoder has exited and returns its exit status.
	Wait() error
}

// Encoder consumes raw RGB24 frames. Close finalizes the output and returns
// the encoder's exit status.
type Encoder interface {
	io.WriteCloser
}

// Config describes the stream a Pipeline processes.
type Config struct {
	Width, Height int
	// ExpectedFrames is the number of frames the sink waits for.
	ExpectedFrames uint64
	// Transform is applied to every frame by the workers.
	Transform frame.TransformFunc
}

// ProgressFunc is called by the sink after every delivered frame.
type ProgressFunc func(current, total uint64)

// Observer receives per-frame events from every stage. Implementations must be
// safe for concurrent use.
type Observer interface {
	FrameDecoded(seq uint64)
	FrameTransformed(seq uint64, elapsed time.Duration)
	GateWaited(seq uint64, elapsed time.Duration)
	FrameEncoded(seq uint64)
}

type nopObserver struct{}

func (nopObserver) FrameDecoded(uint64)                    {}
func (nopObserver) FrameTransformed(uint64, time.Duration) {}
func (nopObserver) GateWaited(uint64, time.Duration)       {}
func (nopObserver) FrameEncoded(uint64)                    {}

// Stats summarizes a run.
type Stats struct {
	Decoded     uint64
	Transformed uint64
	Delivered   uint64
	Expected    uint64
	// Cancelled is set when the run was stopped by its context before all
	// expected frames were delivered.
	Cancelled bool
}
