package pixelsort

import "fmt"

// State represents a pipeline's lifecycle state
type State string

const (
	// StateIdle means that the pipeline has been created but Run hasn't been
	// called yet.
	StateIdle State = "idle"
	// StateRunning means that frames are flowing from the decoder to the
	// encoder.
	StateRunning State = "running"
	// StateStopped means that Run has returned. A stopped pipeline can't be
	// started again.
	StateStopped State = "stopped"
)

// Update updates current state, s, to next. If f fails to execute,
// s will stay unchanged. Otherwise, s will be updated to next
func (s *State) Update(next State, f func() error) error {
	type checkFunc func() error
	m := map[State]checkFunc{
		StateRunning: s.toRunning,
		StateStopped: s.toStopped,
	}

	check, ok := m[next]
	if !ok {
		return fmt.Errorf("invalid state: can't move to %s", next)
	}
	if err := check(); err != nil {
		return err
	}

	err := f()
	if err == nil {
		*s = next
	}
	return err
}

func (s *State) toRunning() error {
	switch *s {
	case StateRunning:
		return fmt.Errorf("invalid state: pipeline is already running")
	case StateStopped:
		return fmt.Errorf("invalid state: pipeline has already run")
	}
	return nil
}

func (s *State) toStopped() error {
	if *s != StateRunning {
		return fmt.Errorf("invalid state: pipeline isn't running")
	}
	return nil
}
