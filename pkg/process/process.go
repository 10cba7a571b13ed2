// Package process runs external commands under a timeout and reports their
// captured output. It is the single seam between the analysis engine and the
// host binaries it shells out to.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

var (
	// ErrTimeout indicates the command did not finish within its timeout.
	ErrTimeout = errors.New("command timed out")
	// ErrNotFound indicates the command binary could not be located.
	ErrNotFound = errors.New("command not found")
	// ErrEmptyCommand indicates a Command with no arguments.
	ErrEmptyCommand = errors.New("command has no arguments")
)

// waitDelay bounds how long Run waits for output pipes after the process is killed.
const waitDelay = 2 * time.Second

// Command describes one invocation. Args[0] is the program name.
// A zero Timeout means the caller's context is the only bound.
type Command struct {
	Args    []string
	Dir     string
	Timeout time.Duration
}

// Result holds the captured output of a finished command.
// A non-zero ExitCode is not an error; callers decide what it means.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) (Result, error)

// Run calls f(ctx, cmd).
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (Result, error) {
	return f(ctx, cmd)
}

// Exec is a Runner backed by os/exec.
type Exec struct{}

// NewExec returns a Runner that starts real processes.
func NewExec() Runner {
	return Exec{}
}

func (Exec) Run(ctx context.Context, cmd Command) (Result, error) {
	if len(cmd.Args) == 0 {
		return Result{}, ErrEmptyCommand
	}

	path, err := exec.LookPath(cmd.Args[0])
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, cmd.Args[0])
	}

	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, path, cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	runErr := c.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr == nil {
		return result, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return result, fmt.Errorf("%w after %v: %s", ErrTimeout, cmd.Timeout, cmd.Args[0])
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return result, fmt.Errorf("run %s: %w", cmd.Args[0], runErr)
}
