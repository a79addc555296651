package pixelsort

import (
	"context"
	"fmt"
	"time"

	"github.com/pion/pixelsort/pkg/frame"
)

// sink writes frames to the encoder in sequence order until the expected
// count has been delivered, in is closed or ctx is done. Every delivery
// advances the gate, which releases the worker holding the next frame.
func (p *Pipeline) sink(ctx context.Context, in <-chan *frame.Frame) error {
	total := p.cfg.ExpectedFrames
	for p.gate.Load() < total {
		if ctx.Err() != nil {
			return nil
		}

		var f *frame.Frame
		select {
		case <-ctx.Done():
			return nil
		case next, ok := <-in:
			if !ok {
				return nil
			}
			f = next
		}

		if want := p.gate.Load(); f.Seq != want {
			return fmt.Errorf("%w: got frame %d, want %d", errOutOfOrder, f.Seq, want)
		}
		if _, err := p.encoder.Write(f.Pix); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", f.Seq, err)
		}
		p.observer.FrameEncoded(f.Seq)

		current := p.gate.Advance()
		p.rate.add(time.Now())
		p.progress(current, total)
	}
	return nil
}
