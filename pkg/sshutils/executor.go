package sshutils

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/logger"
)

// ExecuteCommand runs one command over a dedicated execution channel and
// blocks until it completes, fails, or the wall-clock timeout elapses. The
// session must be Connected; otherwise ErrNotConnected is returned without any
// network I/O.
//
// Runtime failures never surface as errors: they are encoded as negative
// sentinel exit codes with a diagnostic in Stderr, so callers handle one
// uniform result shape. No PTY is requested, so Stdout and Stderr are
// separated deterministically. Execution is at-most-once; on timeout the
// client-side wait is abandoned but the remote process is not guaranteed to
// have been terminated.
func (s *Session) ExecuteCommand(command string, timeout time.Duration) (CommandResult, error) {
	if !s.Connected() {
		return CommandResult{}, ErrNotConnected
	}
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	s.log.Debug("executing command",
		logger.String("command", command),
		logger.Duration("timeout", timeout),
	)

	start := time.Now()
	result := s.runCommand(command, timeout)
	result.Command = command
	result.Duration = time.Since(start)

	s.logResult(result)
	return result, nil
}

func (s *Session) runCommand(command string, timeout time.Duration) (result CommandResult) {
	defer func() {
		if r := recover(); r != nil {
			result = CommandResult{
				ExitCode: ExitCodeInternal,
				Stderr:   fmt.Sprintf("internal execution failure: %v", r),
			}
		}
	}()

	session, err := s.client.NewSession()
	if err != nil {
		return CommandResult{
			ExitCode: ExitCodeTransportFailure,
			Stderr:   fmt.Sprintf("failed to open execution channel: %v", err),
		}
	}
	defer session.Close()

	var stdout, stderr captureBuffer
	session.SetStdout(&stdout)
	session.SetStderr(&stderr)

	if err := session.Start(command); err != nil {
		return CommandResult{
			ExitCode: ExitCodeTransportFailure,
			Stdout:   stdout.text(),
			Stderr:   fmt.Sprintf("failed to start command: %v", err),
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()

	select {
	case err = <-done:
	case <-time.After(timeout):
		// Abandon the client-side wait. Closing the channel is best effort;
		// the remote process may keep running.
		_ = session.Close()
		return CommandResult{
			ExitCode: ExitCodeTimeout,
			Stdout:   stdout.text(),
			Stderr:   fmt.Sprintf("command timed out after %s", timeout),
		}
	}

	result = CommandResult{
		Stdout: stdout.text(),
		Stderr: stderr.text(),
	}

	switch {
	case err == nil:
		result.ExitCode = 0
	default:
		var exitErr exitStatuser
		var missingErr *ssh.ExitMissingError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitStatus()
		} else if errors.As(err, &missingErr) {
			result.ExitCode = ExitCodeTransportFailure
			result.Stderr = appendDiagnostic(result.Stderr, "remote exited without status")
		} else {
			result.ExitCode = ExitCodeTransportFailure
			result.Stderr = appendDiagnostic(result.Stderr, fmt.Sprintf("transport failure: %v", err))
		}
	}
	return result
}

// logResult emits the audit trail: completion status at debug level plus a
// truncated stdout preview, regardless of outcome.
func (s *Session) logResult(result CommandResult) {
	s.log.Debug("command completed",
		logger.String("command", result.Command),
		logger.Int("exit_code", result.ExitCode),
		logger.Duration("duration", result.Duration),
	)

	lines := strings.Split(result.Stdout, "\n")
	if len(lines) > outputPreviewLines {
		lines = lines[:outputPreviewLines]
	}
	s.log.Debug("command output preview", logger.Strings("stdout", lines))
}

func appendDiagnostic(stderr, diag string) string {
	if stderr == "" {
		return diag
	}
	return stderr + "\n" + diag
}

// captureBuffer collects stream bytes behind a mutex: the ssh library writes
// from its own goroutines, and the timeout path reads whatever arrived so far.
// Undecodable byte sequences are substituted, never fatal.
type captureBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *captureBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *captureBuffer) text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.ToValidUTF8(string(b.buf), "�")
}
