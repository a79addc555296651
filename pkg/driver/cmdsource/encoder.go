package cmdsource

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/pion/pixelsort/pkg/frame"
	"github.com/pion/pixelsort/pkg/prop"
)

// DefaultEncoderArgs are the codec arguments used for video output.
const DefaultEncoderArgs = "-c:v libx264 -preset medium -crf 22"

// EncoderConfig describes the encoder invocation.
type EncoderConfig struct {
	// Binary is the ffmpeg executable, "ffmpeg" when empty.
	Binary string
	Output string
	Video  prop.Video
	// Args are codec arguments placed between the input and the output,
	// split like a shell would split them. DefaultEncoderArgs when empty.
	// Ignored for still output.
	Args string
	// Still writes a single image instead of a video.
	Still bool
}

// EncoderArgs builds the ffmpeg command line reading raw RGB24 frames from
// stdin and writing cfg.Output.
func EncoderArgs(cfg EncoderConfig) ([]string, error) {
	if cfg.Output == "" {
		return nil, fmt.Errorf("%w: no output path", errInvalidCommand)
	}
	if cfg.Video.Width <= 0 || cfg.Video.Height <= 0 {
		return nil, fmt.Errorf("invalid resolution %s", cfg.Video.Resolution())
	}

	binary := cfg.Binary
	if binary == "" {
		binary = "ffmpeg"
	}

	args := []string{
		binary,
		"-hide_banner", "-loglevel", "error",
		"-f", "rawvideo",
		"-s:v", cfg.Video.Resolution(),
		"-pix_fmt", frame.FormatRGB24.PixFmt(),
	}
	if !cfg.Still {
		rate := cfg.Video.FrameRate
		if rate <= 0 {
			return nil, fmt.Errorf("invalid frame rate %v", rate)
		}
		args = append(args, "-r", strconv.FormatFloat(float64(rate), 'f', -1, 32))
	}
	args = append(args, "-i", "pipe:")

	if cfg.Still {
		args = append(args, "-frames:v", "1")
	} else {
		codecArgs := cfg.Args
		if codecArgs == "" {
			codecArgs = DefaultEncoderArgs
		}
		extra, err := splitCommand(codecArgs)
		if err != nil {
			return nil, err
		}
		args = append(args, extra...)
	}

	return append(args, "-y", cfg.Output), nil
}

// Encoder is a running process consuming raw frames on stdin.
type Encoder struct {
	p         *process
	closeOnce sync.Once
	closeErr  error
}

// NewEncoder starts ffmpeg as described by cfg.
func NewEncoder(cfg EncoderConfig) (*Encoder, error) {
	args, err := EncoderArgs(cfg)
	if err != nil {
		return nil, err
	}
	return newEncoder(args)
}

// NewEncoderFromCommand starts an arbitrary command that reads raw RGB24
// frames from stdin.
func NewEncoderFromCommand(command string) (*Encoder, error) {
	args, err := splitCommand(command)
	if err != nil {
		return nil, err
	}
	return newEncoder(args)
}

func newEncoder(args []string) (*Encoder, error) {
	p, err := startProcess(args, true, false)
	if err != nil {
		return nil, err
	}
	return &Encoder{p: p}, nil
}

func (e *Encoder) Write(b []byte) (int, error) {
	return e.p.stdin.Write(b)
}

// Close closes the encoder input, which lets it finalize the output, and
// waits for it to exit.
func (e *Encoder) Close() error {
	e.closeOnce.Do(func() {
		inErr := e.p.stdin.Close()
		e.closeErr = e.p.wait()
		if e.closeErr == nil && inErr != nil {
			e.closeErr = fmt.Errorf("failed to close %s input: %w", e.p.name, inErr)
		}
	})
	return e.closeErr
}
