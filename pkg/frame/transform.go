package frame

// TransformFunc maps an RGB24 frame to a new frame of the same size. It must
// not retain pix after returning.
type TransformFunc func(pix []byte, width, height int) []byte

// Merge merges transforms and produces a new TransformFunc that will execute
// transforms in order
func Merge(transforms ...TransformFunc) TransformFunc {
	return func(pix []byte, width, height int) []byte {
		for _, transform := range transforms {
			if transform == nil {
				continue
			}

			pix = transform(pix, width, height)
		}

		return pix
	}
}
