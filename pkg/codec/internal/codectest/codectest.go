// Package codectest provides shared test for encoder implementations.
package codectest

import (
	"io"
	"testing"
)

func assertNoPanic(t *testing.T, fn func() error, msg string) error {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("panic: %v: %s", r, msg)
		}
	}()
	return fn()
}

// EncoderCloseTwiceTest closes enc twice and expects neither call to panic or
// fail.
func EncoderCloseTwiceTest(t *testing.T, enc io.WriteCloser) {
	if err := assertNoPanic(t, enc.Close, "on first Close()"); err != nil {
		t.Fatal(err)
	}
	if err := assertNoPanic(t, enc.Close, "on second Close()"); err != nil {
		t.Fatal(err)
	}
}

// EncoderWriteAfterCloseTest expects Write to fail once enc is closed.
func EncoderWriteAfterCloseTest(t *testing.T, enc io.WriteCloser, frame []byte) {
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write(frame); err == nil {
		t.Error("expected Write after Close to fail")
	}
}
