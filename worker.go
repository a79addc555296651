package pixelsort

import (
	"context"
	"fmt"
	"time"

	"github.com/pion/pixelsort/pkg/frame"
)

// work transforms frames from in and publishes them to out in sequence
// order. It returns nil when in is closed or ctx is done.
func (p *Pipeline) work(ctx context.Context, in <-chan *frame.Frame, out chan<- *frame.Frame) error {
	for {
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

		start := time.Now()
		pix := p.cfg.Transform(f.Pix, p.cfg.Width, p.cfg.Height)
		if err := frame.CheckSize(pix, p.cfg.Width, p.cfg.Height); err != nil {
			return fmt.Errorf("transform of frame %d: %w", f.Seq, err)
		}
		p.transformed.Add(1)
		p.observer.FrameTransformed(f.Seq, time.Since(start))

		waitStart := time.Now()
		if err := p.gate.Wait(ctx, f.Seq); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		p.observer.GateWaited(f.Seq, time.Since(waitStart))

		select {
		case out <- &frame.Frame{Seq: f.Seq, Pix: pix}:
		case <-ctx.Done():
			return nil
		}
	}
}
