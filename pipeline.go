package pixelsort

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pion/logging"

	"github.com/pion/pixelsort/pkg/frame"
)

var (
	// ErrAlreadyRun is returned by Run on a pipeline that has been started before.
	ErrAlreadyRun = errors.New("pipeline can only run once")

	errOutOfOrder = errors.New("frame delivered out of order")
	errNoDecoder  = errors.New("decoder can't be nil")
	errNoEncoder  = errors.New("encoder can't be nil")
)

// rateWindow is the span the default progress report averages over.
const rateWindow = 2 * time.Second

// Pipeline moves frames from a Decoder through the workers to an Encoder.
type Pipeline struct {
	id      string
	cfg     Config
	decoder Decoder
	encoder Encoder

	workers   int
	queueSize int
	progress  ProgressFunc
	observer  Observer
	log       logging.LeveledLogger

	gate *Gate
	rate *rateTracker

	// eof is set once extraction has seen the end of the stream, after which
	// the decoder is left to exit on its own.
	eof atomic.Bool

	decoded     atomic.Uint64
	transformed atomic.Uint64
	cancelled   atomic.Bool

	mu    sync.Mutex
	state State
}

// New creates a pipeline for the stream described by cfg.
func New(cfg Config, decoder Decoder, encoder Encoder, opts ...Option) (*Pipeline, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.ExpectedFrames == 0 {
		return nil, errors.New("expected frame count must be positive")
	}
	if cfg.Transform == nil {
		return nil, errors.New("transform can't be nil")
	}
	if decoder == nil {
		return nil, errNoDecoder
	}
	if encoder == nil {
		return nil, errNoEncoder
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.queueSize < 1 {
		o.queueSize = 1
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	if o.logger == nil {
		o.logger = logger
	}

	p := &Pipeline{
		id:        uuid.NewString(),
		cfg:       cfg,
		decoder:   decoder,
		encoder:   encoder,
		workers:   o.workerCount(),
		queueSize: o.queueSize,
		progress:  o.progress,
		observer:  o.observer,
		log:       o.logger,
		gate:      NewGate(),
		rate:      newRateTracker(rateWindow),
		state:     StateIdle,
	}
	if p.progress == nil {
		p.progress = func(current, total uint64) {
			p.log.Debugf("pipeline %s: %d/%d (%.1f fps)", p.id, current, total, p.rate.rate())
		}
	}
	return p, nil
}

// ID returns the identifier used in this pipeline's log lines.
func (p *Pipeline) ID() string {
	return p.id
}

// Workers returns the size of the worker pool.
func (p *Pipeline) Workers() int {
	return p.workers
}

// Status returns the lifecycle state.
func (p *Pipeline) Status() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Stats returns the frame counters. They are final once Run has returned.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Decoded:     p.decoded.Load(),
		Transformed: p.transformed.Load(),
		Delivered:   p.gate.Load(),
		Expected:    p.cfg.ExpectedFrames,
		Cancelled:   p.cancelled.Load(),
	}
}

// Run processes the stream until the expected number of frames has been
// delivered, the decoder runs dry, a stage fails or ctx is cancelled. The
// encoder is closed in every case so that whatever was delivered is kept.
//
// Cancellation is not an error. A failing stage or a collaborator exiting
// with a failure status is, even when every frame was delivered.
func (p *Pipeline) Run(ctx context.Context) error {
	p.mu.Lock()
	err := p.state.Update(StateRunning, func() error { return nil })
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAlreadyRun, err)
	}
	defer func() {
		p.mu.Lock()
		_ = p.state.Update(StateStopped, func() error { return nil })
		p.mu.Unlock()
	}()

	p.log.Infof("pipeline %s: %dx%d, %d frames, %d workers", p.id, p.cfg.Width, p.cfg.Height, p.cfg.ExpectedFrames, p.workers)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Extraction is the only stage that can block on a live collaborator, so
	// the decoder is stopped as soon as the run is cancelled for any reason.
	stopDecoder := context.AfterFunc(runCtx, func() {
		if !p.eof.Load() {
			p.decoder.Stop()
		}
	})
	defer stopDecoder()

	frames := make(chan *frame.Frame, p.queueSize)
	results := make(chan *frame.Frame, 1)

	var extractErr error
	extracted := make(chan struct{})
	go func() {
		defer close(extracted)
		if err := p.extract(runCtx, frames); err != nil {
			extractErr = err
			cancel()
		}
	}()

	var workers sync.WaitGroup
	workerErrs := make([]error, p.workers)
	for i := 0; i < p.workers; i++ {
		workers.Add(1)
		go func(id int) {
			defer workers.Done()
			if err := p.work(runCtx, frames, results); err != nil {
				workerErrs[id] = fmt.Errorf("worker %d: %w", id, err)
				cancel()
			}
		}(i)
	}
	go func() {
		workers.Wait()
		close(results)
	}()

	sinkErr := p.sink(runCtx, results)
	if ctx.Err() != nil && p.gate.Load() < p.cfg.ExpectedFrames {
		p.cancelled.Store(true)
	}

	// Unless the sink failed, let extraction finish first: it either saw the
	// end of the stream or stopped a decoder with surplus frames itself, so
	// the decoder's own exit status is kept.
	if sinkErr == nil {
		<-extracted
	}

	// Release every worker, including any parked on a sequence number that
	// will never be reached.
	cancel()
	workers.Wait()
	<-extracted

	errs := []error{sinkErr, extractErr}
	errs = append(errs, workerErrs...)
	if err := p.decoder.Wait(); err != nil {
		errs = append(errs, fmt.Errorf("decoder: %w", err))
	}
	if err := p.encoder.Close(); err != nil {
		errs = append(errs, fmt.Errorf("encoder: %w", err))
	}

	stats := p.Stats()
	switch {
	case stats.Cancelled:
		p.log.Infof("pipeline %s: cancelled after %d of %d frames", p.id, stats.Delivered, stats.Expected)
	case stats.Delivered < stats.Expected:
		p.log.Warnf("pipeline %s: stream ended after %d of %d frames", p.id, stats.Delivered, stats.Expected)
	default:
		p.log.Infof("pipeline %s: delivered %d frames", p.id, stats.Delivered)
	}

	return errors.Join(errs...)
}
