package sshutils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"golang.org/x/crypto/ssh/knownhosts"
)

// ErrNotConnected is returned by operations that require a Connected session.
var ErrNotConnected = errors.New("not connected to remote host")

// ErrorKind is the closed set of connection failure causes.
type ErrorKind int

const (
	ErrKindUnknown ErrorKind = iota
	ErrKindConfig
	ErrKindAuth
	ErrKindTransport
	ErrKindTimeout
	ErrKindProtocol
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindConfig:
		return "config"
	case ErrKindAuth:
		return "authentication"
	case ErrKindTransport:
		return "transport"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// ConnectError carries the classified cause of a failed connection attempt.
type ConnectError struct {
	Kind ErrorKind
	Host string
	Port int
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s:%d: %s error: %v", e.Host, e.Port, e.Kind, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

func newConnectError(kind ErrorKind, host string, port int, err error) *ConnectError {
	return &ConnectError{Kind: kind, Host: host, Port: port, Err: err}
}

// classifyConnectError maps a dial or handshake failure onto the closed set of
// error kinds. Auth detection relies on the error text because x/crypto/ssh
// does not export a sentinel for rejected credentials.
func classifyConnectError(err error) ErrorKind {
	if err == nil {
		return ErrKindUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrKindTimeout
	}

	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		return ErrKindProtocol
	}

	msg := err.Error()
	if strings.Contains(msg, "i/o timeout") || strings.Contains(msg, "timed out") {
		return ErrKindTimeout
	}
	if strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "no supported methods remain") ||
		strings.Contains(msg, "permission denied") {
		return ErrKindAuth
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrKindTransport
	}

	if strings.Contains(msg, "handshake failed") {
		return ErrKindProtocol
	}

	return ErrKindUnknown
}
