package frame

type Format string

const (
	// FormatRGB24 is packed 8-bit R, G, B with no padding between rows.
	FormatRGB24 Format = "RGB24"
)

// BytesPerPixel is the size of one RGB24 pixel.
const BytesPerPixel = 3

// PixFmt returns the ffmpeg pix_fmt name of f.
func (f Format) PixFmt() string {
	switch f {
	case FormatRGB24:
		return "rgb24"
	}
	return ""
}
