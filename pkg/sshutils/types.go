package sshutils

import "time"

// SessionState tracks the connection lifecycle:
// Disconnected -> Connecting -> Connected, or Connecting -> Failed.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "disconnected"
	}
}

// CommandResult is the fixed-shape record for one remote command. ExitCode >= 0
// means the remote process ran and reported that status; a negative value is a
// client-side sentinel (ExitCodeTransportFailure, ExitCodeTimeout,
// ExitCodeInternal).
type CommandResult struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Remote indicates whether the exit code came from the remote process.
func (r CommandResult) Remote() bool {
	return r.ExitCode >= 0
}
