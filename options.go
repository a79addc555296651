package pixelsort

import (
	"runtime"

	"github.com/pion/logging"
)

const (
	// DefaultQueueSize is the capacity of the channel between extraction and
	// the workers. It is kept small to bound the number of raw frames held in
	// memory; raising it lets decoding run further ahead of the workers.
	DefaultQueueSize = 2

	// reservedThreads are the extraction and sink goroutines.
	reservedThreads = 2
)

// Options stores parameters used by Pipeline.
type Options struct {
	threads    int
	workers    int
	workersSet bool
	queueSize  int
	progress   ProgressFunc
	observer   Observer
	logger     logging.LeveledLogger
}

// Option is a type of Pipeline functional option.
type Option func(*Options)

// WithThreads sets the total thread budget. Two threads are reserved for
// extraction and the sink and the rest become workers, at least one.
func WithThreads(n int) Option {
	return func(o *Options) {
		o.threads = n
	}
}

// WithWorkers sets the worker count directly, ignoring the thread budget.
// Counts below one are raised to one.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.workers = max(n, 1)
		o.workersSet = true
	}
}

// WithQueueSize sets the capacity of the channel feeding the workers.
func WithQueueSize(n int) Option {
	return func(o *Options) {
		o.queueSize = n
	}
}

// WithProgress replaces the default progress reporting, a debug log line.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Options) {
		o.progress = fn
	}
}

// WithObserver registers an observer for per-frame events.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		o.observer = obs
	}
}

// WithLogger replaces the package logger.
func WithLogger(l logging.LeveledLogger) Option {
	return func(o *Options) {
		o.logger = l
	}
}

// WorkersForThreads returns the worker count for a thread budget.
func WorkersForThreads(threads int) int {
	if n := threads - reservedThreads; n > 1 {
		return n
	}
	return 1
}

func defaultOptions() Options {
	return Options{
		threads:   runtime.NumCPU(),
		queueSize: DefaultQueueSize,
		observer:  nopObserver{},
		logger:    logger,
	}
}

func (o *Options) workerCount() int {
	if o.workersSet {
		return o.workers
	}
	return WorkersForThreads(o.threads)
}
