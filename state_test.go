package pixelsort

import (
	"errors"
	"testing"
)

var noop = func() error { return nil }

func TestStateUpdate(t *testing.T) {
	s := StateIdle
	if err := s.Update(StateRunning, noop); err != nil {
		t.Fatal(err)
	}
	if s != StateRunning {
		t.Fatalf("expected %s, got %s", StateRunning, s)
	}

	if err := s.Update(StateRunning, noop); err == nil {
		t.Fatal("expected running twice to fail")
	}

	if err := s.Update(StateStopped, noop); err != nil {
		t.Fatal(err)
	}
	if s != StateStopped {
		t.Fatalf("expected %s, got %s", StateStopped, s)
	}

	if err := s.Update(StateRunning, noop); err == nil {
		t.Fatal("expected a stopped pipeline to stay stopped")
	}
}

func TestStateUpdateFailure(t *testing.T) {
	s := StateIdle
	if err := s.Update(StateStopped, noop); err == nil {
		t.Fatal("expected idle to stopped to fail")
	}
	if err := s.Update(StateIdle, noop); err == nil {
		t.Fatal("expected moving back to idle to fail")
	}

	errFail := errors.New("fail")
	if err := s.Update(StateRunning, func() error { return errFail }); !errors.Is(err, errFail) {
		t.Fatalf("expected %v, got %v", errFail, err)
	}
	if s != StateIdle {
		t.Fatalf("expected state to stay %s, got %s", StateIdle, s)
	}
}
