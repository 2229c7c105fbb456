package sshutils

import (
	"io"

	"golang.org/x/crypto/ssh"
)

// SSHClienter is the slice of *ssh.Client behavior the session layer needs.
type SSHClienter interface {
	NewSession() (SSHSessioner, error)
	Close() error
}

// SSHSessioner is the slice of *ssh.Session behavior the executor needs. One
// execution channel per command; sessions are never reused.
type SSHSessioner interface {
	SetStdout(w io.Writer)
	SetStderr(w io.Writer)
	Start(cmd string) error
	Wait() error
	Close() error
}

// SFTPClienter is the slice of *sftp.Client behavior the transfer layer needs.
type SFTPClienter interface {
	Create(path string) (io.WriteCloser, error)
	Close() error
}

// SSHDialer opens the authenticated transport. Pluggable for tests.
type SSHDialer interface {
	Dial(network, addr string, config *ssh.ClientConfig) (SSHClienter, error)
}

// SFTPClientCreator opens a file-transfer channel over an existing client.
type SFTPClientCreator func(client SSHClienter) (SFTPClienter, error)

// exitStatuser matches *ssh.ExitError without naming the concrete type, so
// tests can fabricate remote exit statuses.
type exitStatuser interface {
	ExitStatus() int
}
