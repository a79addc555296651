package frame

import "math"

// Grayscale returns a transform that replaces every pixel with its ITU-R
// BT.601 luma, written to all three channels so the frame stays RGB24.
func Grayscale() TransformFunc {
	return func(pix []byte, _, _ int) []byte {
		out := make([]byte, len(pix))
		for i := 0; i+2 < len(pix); i += BytesPerPixel {
			r := float64(pix[i])
			g := float64(pix[i+1])
			b := float64(pix[i+2])
			y := uint8(math.Round(0.2989*r + 0.5870*g + 0.1140*b))
			out[i], out[i+1], out[i+2] = y, y, y
		}
		return out
	}
}
