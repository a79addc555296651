// Command pixelsort applies a luminance-gated pixel sort to every frame of a
// video and writes the result to a new file.
//
// Usage:
//
//	pixelsort [input [output]]
//
// Everything else is configured through PIXELSORT_* environment variables,
// see internal/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/pion/pixelsort"
	"github.com/pion/pixelsort/internal/config"
	"github.com/pion/pixelsort/internal/logging"
	"github.com/pion/pixelsort/internal/metrics"
	"github.com/pion/pixelsort/pkg/codec/still"
	"github.com/pion/pixelsort/pkg/driver/cmdsource"
	"github.com/pion/pixelsort/pkg/frame"
	"github.com/pion/pixelsort/pkg/prop"
	"github.com/pion/pixelsort/pkg/segment"
)

var logger = logging.NewLogger("pixelsort/cmd")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if cfg.Inverted() {
		logger.Warnf("black threshold %d is above white threshold %d, frames will pass through unchanged", cfg.Black, cfg.White)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	video, err := cmdsource.Probe(ctx, cfg.FFprobe, cfg.Input)
	if err != nil {
		logger.Errorf("failed to probe %s: %v", cfg.Input, err)
		return 1
	}
	out := planOutput(cfg, video)
	logger.Infof("%s: %s, %d frames -> %s (%s)", cfg.Input, video.Resolution(), video.FrameCount, cfg.Output, out.kind)

	decoder, err := cmdsource.NewDecoder(cfg.FFmpeg, cfg.Input)
	if err != nil {
		logger.Errorf("failed to start decoder: %v", err)
		return 1
	}
	encoder, err := newEncoder(cfg, out)
	if err != nil {
		decoder.Stop()
		_ = decoder.Wait()
		logger.Errorf("failed to start encoder: %v", err)
		return 1
	}

	opts := []pixelsort.Option{
		pixelsort.WithThreads(cfg.ThreadBudget()),
		pixelsort.WithQueueSize(cfg.QueueSize),
	}
	if cfg.Progress {
		bar := progressbar.Default(int64(out.frames), "sorting")
		opts = append(opts, pixelsort.WithProgress(func(current, _ uint64) {
			_ = bar.Set64(int64(current))
		}))
		defer func() { _ = bar.Finish() }()
	}
	if cfg.MetricsAddr != "" {
		m := metrics.New(nil)
		opts = append(opts, pixelsort.WithObserver(m))
		srv := serveMetrics(cfg.MetricsAddr, m.Handler())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	p, err := pixelsort.New(pixelsort.Config{
		Width:          video.Width,
		Height:         video.Height,
		ExpectedFrames: out.frames,
		Transform:      buildTransform(cfg),
	}, decoder, encoder, opts...)
	if err != nil {
		decoder.Stop()
		_ = decoder.Wait()
		_ = encoder.Close()
		logger.Errorf("%v", err)
		return 1
	}

	if err := p.Run(ctx); err != nil {
		logger.Errorf("pipeline failed: %v", err)
		return 1
	}
	if p.Stats().Cancelled {
		logger.Info("interrupted, output kept up to the last written frame")
	}
	return 0
}

func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if len(args) > 2 {
		return nil, errors.New("usage: pixelsort [input [output]]")
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if len(args) > 1 {
		cfg.Output = args[1]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type outputKind string

const (
	outputVideo outputKind = "video"
	// outputStill is a single frame written by ffmpeg.
	outputStill outputKind = "still"
	// outputImage is a single frame written in process.
	outputImage outputKind = "image"
)

type outputPlan struct {
	kind   outputKind
	frames uint64
	video  prop.Video
}

// planOutput picks the encoder path. Image extensions always produce one
// frame, any other output becomes a still when the source has a single frame.
func planOutput(cfg *config.Config, src prop.Video) outputPlan {
	v := src
	v.FrameRate = cfg.FrameRate

	if _, ok := still.FormatFromPath(cfg.Output); ok {
		v.FrameCount = 1
		return outputPlan{kind: outputImage, frames: 1, video: v}
	}
	if src.FrameCount == 1 {
		return outputPlan{kind: outputStill, frames: 1, video: v}
	}
	return outputPlan{kind: outputVideo, frames: src.FrameCount, video: v}
}

func newEncoder(cfg *config.Config, out outputPlan) (pixelsort.Encoder, error) {
	if out.kind == outputImage {
		return still.NewEncoder(cfg.Output, out.video.Width, out.video.Height)
	}
	return cmdsource.NewEncoder(cmdsource.EncoderConfig{
		Binary: cfg.FFmpeg,
		Output: cfg.Output,
		Video:  out.video,
		Args:   cfg.EncoderArgs,
		Still:  out.kind == outputStill,
	})
}

func buildTransform(cfg *config.Config) frame.TransformFunc {
	sort := segment.Transform(cfg.Thresholds(), cfg.Orientation())
	if cfg.Grayscale {
		return frame.Merge(frame.Grayscale(), sort)
	}
	return sort
}

func serveMetrics(addr string, h http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warnf("metrics server: %v", err)
		}
	}()
	logger.Infof("serving metrics on %s/metrics", addr)
	return srv
}
