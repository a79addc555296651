// Package cmdsource runs the external programs the pipeline relies on: a
// decoder writing raw RGB24 frames to stdout, an encoder reading them from
// stdin, and a prober reporting the source geometry.
package cmdsource

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/shlex"
	"github.com/pion/pixelsort/internal/logging"
)

var (
	errInvalidCommand = errors.New("invalid command")
)

// DefaultKillTimeout is how long a process gets to exit after an interrupt
// before it is killed.
const DefaultKillTimeout = 3 * time.Second

var logger = logging.NewLogger("pixelsort/cmdsource")

// ExitError reports a collaborator that exited with a failure status.
type ExitError struct {
	Name string
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with error: %v", e.Name, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

type process struct {
	name        string
	execCmd     *exec.Cmd
	stdin       io.WriteCloser
	stdout      io.ReadCloser
	stderrDone  chan struct{}
	killTimeout time.Duration

	interrupted   atomic.Bool
	interruptOnce sync.Once
	killMu        sync.Mutex
	killTimer     *time.Timer

	waitOnce sync.Once
	waitErr  error
}

// splitCommand splits command on whitespace, respecting quotes & comments.
func splitCommand(command string) ([]string, error) {
	args, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidCommand, err)
	}
	if len(args) == 0 || args[0] == "" {
		return nil, errInvalidCommand
	}
	return args, nil
}

func startProcess(args []string, withStdin, withStdout bool) (*process, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, errInvalidCommand
	}

	p := &process{
		name:        args[0],
		execCmd:     exec.Command(args[0], args[1:]...),
		stderrDone:  make(chan struct{}),
		killTimeout: DefaultKillTimeout,
	}

	var err error
	if withStdin {
		if p.stdin, err = p.execCmd.StdinPipe(); err != nil {
			return nil, err
		}
	}
	if withStdout {
		if p.stdout, err = p.execCmd.StdoutPipe(); err != nil {
			return nil, err
		}
	}
	stdErr, err := p.execCmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	logger.Debugf("starting %s", strings.Join(args, " "))
	if err := p.execCmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", p.name, err)
	}

	// send standard error to the console as debug logs prefixed with (<command> stderr)
	go func() {
		defer close(p.stderrDone)
		stderrPrefix := fmt.Sprintf("(%s stderr): ", p.name)
		reader := bufio.NewReader(stdErr)
		for {
			line, err := reader.ReadBytes('\n')
			if len(line) > 0 {
				logger.Debug(stderrPrefix + strings.TrimRight(string(line), "\r\n"))
			}
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
					logger.Error(err.Error())
				}
				return
			}
		}
	}()

	return p, nil
}

// interrupt sends SIGINT to the process and kills it if it is still running
// after killTimeout. An exit that follows an interrupt is not a failure.
func (p *process) interrupt() {
	p.interruptOnce.Do(func() {
		proc := p.execCmd.Process
		if proc == nil {
			return
		}

		err := proc.Signal(os.Interrupt)
		if errors.Is(err, os.ErrProcessDone) {
			return
		}
		p.interrupted.Store(true)
		if err != nil {
			// Interrupt isn't available on every platform.
			_ = proc.Kill()
			return
		}

		p.killMu.Lock()
		p.killTimer = time.AfterFunc(p.killTimeout, func() {
			logger.Warnf("%s did not exit within %s, killing it", p.name, p.killTimeout)
			_ = proc.Kill()
		})
		p.killMu.Unlock()
	})
}

// wait blocks until the process exits. It is safe to call more than once.
func (p *process) wait() error {
	p.waitOnce.Do(func() {
		<-p.stderrDone
		err := p.execCmd.Wait()

		p.killMu.Lock()
		if p.killTimer != nil {
			p.killTimer.Stop()
		}
		p.killMu.Unlock()

		var exitErr *exec.ExitError
		switch {
		case err == nil:
		case errors.As(err, &exitErr) && p.interrupted.Load() && stoppedBySignal(exitErr.ProcessState):
			logger.Debugf("%s stopped after interrupt: %v", p.name, err)
		default:
			p.waitErr = &ExitError{Name: p.name, Err: err}
		}
	})
	return p.waitErr
}

// interruptedExitCode is what ffmpeg exits with after handling SIGINT.
const interruptedExitCode = 255

// stoppedBySignal reports whether state is the exit of a process ended by our
// interrupt or kill, as opposed to one that had already failed on its own
// before the signal reached it.
func stoppedBySignal(state *os.ProcessState) bool {
	if state == nil {
		return false
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return true
	}
	return state.ExitCode() == interruptedExitCode
}
