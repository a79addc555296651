package frame

import (
	"image"
	"image/color"
	"testing"
)

func TestSize(t *testing.T) {
	cases := []struct {
		width, height, want int
	}{
		{1, 1, 3},
		{2, 1, 6},
		{640, 480, 921600},
		{1920, 1080, 6220800},
	}
	for _, c := range cases {
		if got := Size(c.width, c.height); got != c.want {
			t.Errorf("Size(%d, %d) = %d, want %d", c.width, c.height, got, c.want)
		}
	}
}

func TestCheckSize(t *testing.T) {
	if err := CheckSize(make([]byte, 6), 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := CheckSize(make([]byte, 5), 2, 1); err == nil {
		t.Error("expected a frame length mismatch")
	}
	if err := CheckSize(nil, 0, 1); err == nil {
		t.Error("expected invalid dimensions")
	}
}

func TestRGB24Img(t *testing.T) {
	pix := []byte{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}
	img, err := NewRGB24Img(pix, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}

	expected := map[image.Point]color.RGBA{
		{0, 0}: {1, 2, 3, 0xff},
		{1, 0}: {4, 5, 6, 0xff},
		{0, 1}: {7, 8, 9, 0xff},
		{1, 1}: {10, 11, 12, 0xff},
		{2, 2}: {},
	}
	for pt, want := range expected {
		if got := img.At(pt.X, pt.Y); got != want {
			t.Errorf("At(%d, %d) = %+v, want %+v", pt.X, pt.Y, got, want)
		}
	}

	if _, err := NewRGB24Img(pix[:11], 2, 2); err == nil {
		t.Error("expected a frame length mismatch")
	}
}

func TestMerge(t *testing.T) {
	var calls []string
	mark := func(name string) TransformFunc {
		return func(pix []byte, width, height int) []byte {
			calls = append(calls, name)
			return append([]byte(nil), pix...)
		}
	}

	out := Merge(mark("a"), nil, mark("b"))([]byte{1, 2, 3}, 1, 1)
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("transforms ran as %v", calls)
	}
	if len(out) != 3 {
		t.Fatalf("unexpected output length %d", len(out))
	}
}

func TestGrayscale(t *testing.T) {
	in := []byte{
		255, 255, 255,
		0, 0, 0,
		255, 0, 0,
		10, 20, 30,
	}
	out := Grayscale()(in, 4, 1)

	want := []byte{
		255, 255, 255,
		0, 0, 0,
		76, 76, 76,
		18, 18, 18,
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d (out %v)", i, out[i], want[i], out)
		}
	}
	if in[6] != 255 {
		t.Error("input frame was modified")
	}
}
