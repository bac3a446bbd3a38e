package node

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after a timed out
// process has been killed.
const waitDelay = 2 * time.Second

var (
	ErrEmptyCommand   = errors.New("command is empty")
	ErrCommandFailed  = errors.New("command failed")
	ErrCommandTimeout = errors.New("command timed out")
)

// Result is the outcome of one external command run. It is never persisted.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// CommandError is returned when a command could not be started or exited
// non-zero. It matches ErrCommandFailed with errors.Is.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	if e.Exited() {
		return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() []error {
	return []error{ErrCommandFailed, e.Err}
}

// Exited reports whether the process ran and exited on its own.
func (e *CommandError) Exited() bool {
	return e.ExitCode >= 0
}

// Details is the text reported to clients: stderr when there is any,
// otherwise the error itself.
func (e *CommandError) Details() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Error()
}

// Runner executes an external command given as an argument vector.
type Runner interface {
	Run(ctx context.Context, argv []string) (*Result, error)
}

// ExecRunner runs commands with os/exec, without a shell. A zero Timeout
// means a command may run forever.
type ExecRunner struct {
	Timeout time.Duration
}

func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

func (r *ExecRunner) Run(ctx context.Context, argv []string) (*Result, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, ErrEmptyCommand
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err == nil {
		slog.Debug("Command finished", "command", argv[0], "duration", result.Duration)
		return result, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		slog.Warn("Command timed out", "command", argv[0], "timeout", r.Timeout)
		return result, fmt.Errorf("%s: %w", argv[0], ErrCommandTimeout)
	}

	slog.Warn("Command failed", "command", argv[0], "exit_code", result.ExitCode, "error", err)
	return result, &CommandError{
		Command:  argv[0],
		ExitCode: result.ExitCode,
		Stderr:   result.Stderr,
		Err:      err,
	}
}
