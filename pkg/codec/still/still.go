// Package still writes a single RGB24 frame as an image file without an
// external encoder.
package still

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/pion/pixelsort/pkg/frame"
)

var (
	// ErrSingleFrame is returned when more than one frame is written.
	ErrSingleFrame = errors.New("still image holds a single frame")
	// ErrShortFrame is returned by Close when less than a frame was written.
	ErrShortFrame = errors.New("incomplete frame")

	errUnsupportedFormat = errors.New("unsupported image format")
	errClosed            = errors.New("encoder closed")
)

type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

var extensions = map[string]Format{
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".bmp":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
}

// FormatFromPath picks the image format from the extension of path.
func FormatFromPath(path string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", errUnsupportedFormat, f)
}

// Encoder buffers one frame and writes it to path on Close.
type Encoder struct {
	path          string
	format        Format
	width, height int
	buf           []byte
	closed        bool
}

// NewEncoder creates an Encoder for a width x height frame. The format is
// taken from the extension of path.
func NewEncoder(path string, width, height int) (*Encoder, error) {
	f, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, filepath.Ext(path))
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", width, height)
	}
	return &Encoder{
		path:   path,
		format: f,
		width:  width,
		height: height,
		buf:    make([]byte, 0, frame.Size(width, height)),
	}, nil
}

func (e *Encoder) Write(b []byte) (int, error) {
	if e.closed {
		return 0, errClosed
	}
	if len(e.buf)+len(b) > cap(e.buf) {
		return 0, ErrSingleFrame
	}
	e.buf = append(e.buf, b...)
	return len(b), nil
}

// Close encodes the buffered frame. Nothing is written when no data was
// received.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	switch {
	case len(e.buf) == 0:
		return nil
	case len(e.buf) < cap(e.buf):
		return fmt.Errorf("%w: got %d of %d bytes", ErrShortFrame, len(e.buf), cap(e.buf))
	}

	img, err := frame.NewRGB24Img(e.buf, e.width, e.height)
	if err != nil {
		return err
	}
	return writeFile(e.path, img, e.format)
}

func writeFile(path string, img image.Image, f Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(file)
	if err := Encode(w, img, f); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return w.Flush()
}
