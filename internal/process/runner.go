package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	gpsprocess "github.com/shirou/gopsutil/v3/process"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultPollInterval is how often a running command is checked for
	// completion and cancellation.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultTerminateGrace is how long a cancelled command may take to exit
	// after SIGTERM before it is killed.
	DefaultTerminateGrace = 2 * time.Second
)

// ErrStart is returned when a command could not be started at all.
var ErrStart = errors.New("failed to start process")

// Result describes a finished command.
type Result struct {
	ExitCode int
	Output   []byte // stdout and stderr interleaved
	Duration time.Duration
}

// CommandRunner runs a command to completion.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// Runner runs external commands, capturing their output. Cancellation of ctx
// is noticed at the next poll; the command is then terminated, given
// TerminateGrace to exit and killed.
type Runner struct {
	PollInterval   time.Duration
	TerminateGrace time.Duration
	Env            []string // appended to the current environment
	Dir            string
}

// NewRunner returns a runner with the default poll interval and grace period.
func NewRunner() *Runner {
	return &Runner{PollInterval: DefaultPollInterval, TerminateGrace: DefaultTerminateGrace}
}

// Run starts name with args and waits for it. A non-zero exit is an error
// that still carries the Result. A start failure wraps ErrStart; a
// cancellation returns ctx.Err().
func (r *Runner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	poll := r.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	var out bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("%w %s: %v", ErrStart, name, err)
	}
	logger := log.WithFields(log.Fields{"cmd": name, "pid": cmd.Process.Pid})
	logger.Debug("started process")

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			res := Result{ExitCode: cmd.ProcessState.ExitCode(), Output: out.Bytes(), Duration: time.Since(start)}
			if err != nil {
				return res, fmt.Errorf("%s exited with code %d: %w", name, res.ExitCode, err)
			}
			return res, nil
		case <-ticker.C:
			if ctx.Err() == nil {
				continue
			}
			logger.Debug("cancelling process")
			r.terminate(cmd, done)
			return Result{ExitCode: -1, Output: out.Bytes(), Duration: time.Since(start)}, ctx.Err()
		}
	}
}

// terminate sends SIGTERM, waits up to the grace period and then kills.
// done receives the result of cmd.Wait.
func (r *Runner) terminate(cmd *exec.Cmd, done <-chan error) {
	grace := r.TerminateGrace
	if grace <= 0 {
		grace = DefaultTerminateGrace
	}

	p, err := gpsprocess.NewProcess(int32(cmd.Process.Pid))
	if err != nil {
		// Already gone, or not visible to gopsutil.
		_ = cmd.Process.Kill()
		<-done
		return
	}
	if err := p.Terminate(); err != nil {
		_ = cmd.Process.Kill()
	}

	select {
	case <-done:
		return
	case <-time.After(grace):
	}
	if err := p.Kill(); err != nil {
		_ = cmd.Process.Kill()
	}
	<-done
}
