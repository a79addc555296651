package pixelsort

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pion/pixelsort/pkg/frame"
)

// extract reads whole frames from the decoder and numbers them in stream
// order. It closes out when it returns.
func (p *Pipeline) extract(ctx context.Context, out chan<- *frame.Frame) error {
	defer close(out)

	size := frame.Size(p.cfg.Width, p.cfg.Height)
	for seq := uint64(0); seq < p.cfg.ExpectedFrames; seq++ {
		buf := make([]byte, size)
		n, err := io.ReadFull(p.decoder, buf)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			p.eof.Store(true)
			return nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			p.eof.Store(true)
			p.log.Warnf("pipeline %s: discarding %d trailing bytes after frame %d", p.id, n, seq)
			return nil
		case ctx.Err() != nil:
			return nil
		default:
			return fmt.Errorf("failed to read frame %d: %w", seq, err)
		}

		p.decoded.Add(1)
		p.observer.FrameDecoded(seq)

		select {
		case out <- &frame.Frame{Seq: seq, Pix: buf}:
		case <-ctx.Done():
			return nil
		}
	}

	return p.drain(ctx)
}

// drain runs once the expected number of frames has been read. A decoder at
// the end of its stream is left to exit on its own, one with more to give is
// stopped since nothing past the expected count is delivered.
func (p *Pipeline) drain(ctx context.Context) error {
	var probe [1]byte
	n, err := p.decoder.Read(probe[:])
	switch {
	case n > 0, err == nil:
		p.log.Debugf("pipeline %s: decoder has frames past %d, stopping it", p.id, p.cfg.ExpectedFrames)
		p.decoder.Stop()
		return nil
	case errors.Is(err, io.EOF):
		p.eof.Store(true)
		return nil
	case ctx.Err() != nil:
		return nil
	}
	return fmt.Errorf("failed to read past frame %d: %w", p.cfg.ExpectedFrames, err)
}
