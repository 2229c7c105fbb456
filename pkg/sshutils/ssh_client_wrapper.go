package sshutils

import (
	"io"

	"golang.org/x/crypto/ssh"
)

// SSHClientWrapper adapts *ssh.Client to SSHClienter.
type SSHClientWrapper struct {
	Client *ssh.Client
}

func (c *SSHClientWrapper) NewSession() (SSHSessioner, error) {
	session, err := c.Client.NewSession()
	if err != nil {
		return nil, err
	}
	return &SSHSessionWrapper{Session: session}, nil
}

func (c *SSHClientWrapper) Close() error {
	return c.Client.Close()
}

// SSHSessionWrapper adapts *ssh.Session to SSHSessioner.
type SSHSessionWrapper struct {
	Session *ssh.Session
}

func (s *SSHSessionWrapper) SetStdout(w io.Writer) {
	s.Session.Stdout = w
}

func (s *SSHSessionWrapper) SetStderr(w io.Writer) {
	s.Session.Stderr = w
}

func (s *SSHSessionWrapper) Start(cmd string) error {
	return s.Session.Start(cmd)
}

func (s *SSHSessionWrapper) Wait() error {
	return s.Session.Wait()
}

func (s *SSHSessionWrapper) Close() error {
	return s.Session.Close()
}

var (
	_ SSHClienter  = (*SSHClientWrapper)(nil)
	_ SSHSessioner = (*SSHSessionWrapper)(nil)
)
