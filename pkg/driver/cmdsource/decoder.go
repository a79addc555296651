package cmdsource

import (
	"github.com/pion/pixelsort/pkg/frame"
)

// Decoder is a running process producing concatenated raw frames on stdout.
type Decoder struct {
	p *process
}

// DecoderArgs builds the ffmpeg command line that decodes input into raw
// RGB24 frames on stdout.
func DecoderArgs(binary, input string) []string {
	if binary == "" {
		binary = "ffmpeg"
	}
	return []string{
		binary,
		"-hide_banner", "-loglevel", "error",
		"-i", input,
		"-vf", "format=" + frame.FormatRGB24.PixFmt(),
		"-f", "rawvideo",
		"-pix_fmt", frame.FormatRGB24.PixFmt(),
		"-",
	}
}

// NewDecoder starts ffmpeg decoding input.
func NewDecoder(binary, input string) (*Decoder, error) {
	return newDecoder(DecoderArgs(binary, input))
}

// NewDecoderFromCommand starts an arbitrary command whose stdout carries raw
// RGB24 frames. command is split like a shell would split it.
func NewDecoderFromCommand(command string) (*Decoder, error) {
	args, err := splitCommand(command)
	if err != nil {
		return nil, err
	}
	return newDecoder(args)
}

func newDecoder(args []string) (*Decoder, error) {
	p, err := startProcess(args, false, true)
	if err != nil {
		return nil, err
	}
	return &Decoder{p: p}, nil
}

func (d *Decoder) Read(b []byte) (int, error) {
	return d.p.stdout.Read(b)
}

// Stop interrupts the decoder. It may be called while a Read is blocked.
func (d *Decoder) Stop() {
	d.p.interrupt()
}

// Wait blocks until the decoder exits and returns its exit status.
func (d *Decoder) Wait() error {
	return d.p.wait()
}
