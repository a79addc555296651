package cmdsource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pion/pixelsort/pkg/frame"
	"github.com/pion/pixelsort/pkg/prop"
)

// ErrMetadata is returned when the prober output can't be understood.
var ErrMetadata = errors.New("invalid stream metadata")

// StreamArgs builds the ffprobe command line reporting the first video
// stream's geometry and frame rate.
func StreamArgs(binary, input string) []string {
	if binary == "" {
		binary = "ffprobe"
	}
	return []string{
		binary,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-of", "default=noprint_wrappers=1",
		input,
	}
}

// FrameCountArgs builds the ffprobe command line that decodes the first video
// stream and reports how many frames it holds.
func FrameCountArgs(binary, input string) []string {
	if binary == "" {
		binary = "ffprobe"
	}
	return []string{
		binary,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_frames",
		"-show_entries", "stream=nb_read_frames",
		"-of", "default=noprint_wrappers=1:nokey=1",
		input,
	}
}

// Probe asks ffprobe for the properties of input.
func Probe(ctx context.Context, binary, input string) (prop.Video, error) {
	var v prop.Video

	out, err := run(ctx, StreamArgs(binary, input))
	if err != nil {
		return v, err
	}
	if v, err = ParseStream(out); err != nil {
		return v, err
	}

	out, err = run(ctx, FrameCountArgs(binary, input))
	if err != nil {
		return v, err
	}
	if v.FrameCount, err = ParseFrameCount(out); err != nil {
		return v, err
	}

	logger.Infof("probed %s: %s, %v fps, %d frames", input, v.Resolution(), v.FrameRate, v.FrameCount)
	return v, nil
}

func run(ctx context.Context, args []string) (string, error) {
	logger.Debugf("running %s", strings.Join(args, " "))
	out, err := exec.CommandContext(ctx, args[0], args[1:]...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			logger.Debugf("(%s stderr): %s", args[0], strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", &ExitError{Name: args[0], Err: err}
	}
	return string(out), nil
}

// ParseStream parses "key=value" lines with width, height and an optional
// r_frame_rate.
func ParseStream(out string) (prop.Video, error) {
	v := prop.Video{FrameFormat: frame.FormatRGB24}
	var haveWidth, haveHeight bool

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "width":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return v, fmt.Errorf("%w: width %q", ErrMetadata, value)
			}
			v.Width, haveWidth = n, true
		case "height":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return v, fmt.Errorf("%w: height %q", ErrMetadata, value)
			}
			v.Height, haveHeight = n, true
		case "r_frame_rate":
			v.FrameRate = ParseFrameRate(value)
		}
	}
	if !haveWidth || !haveHeight {
		return v, fmt.Errorf("%w: no resolution in prober output", ErrMetadata)
	}
	return v, nil
}

// ParseFrameCount parses the bare frame count printed by ffprobe.
func ParseFrameCount(out string) (uint64, error) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: frame count %q", ErrMetadata, line)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: no frame count in prober output", ErrMetadata)
}

// ParseFrameRate handles fractional formats like "24000/1001" or "23.976".
// It returns 0 when the rate is unknown.
func ParseFrameRate(s string) float32 {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d <= 0 {
			return 0
		}
		return float32(n / d)
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil || f < 0 {
		return 0
	}
	return float32(f)
}
