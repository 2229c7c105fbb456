package sshutils

import (
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHDial dials the TCP transport and runs the SSH handshake under two
// separate budgets: dialTimeout for the socket, authTimeout for the handshake.
type SSHDial struct {
	DialTimeout time.Duration
	AuthTimeout time.Duration
}

func NewSSHDial(dialTimeout, authTimeout time.Duration) *SSHDial {
	if dialTimeout <= 0 {
		dialTimeout = SSHDialTimeout
	}
	if authTimeout <= 0 {
		authTimeout = SSHAuthTimeout
	}
	return &SSHDial{DialTimeout: dialTimeout, AuthTimeout: authTimeout}
}

func (d *SSHDial) Dial(network, addr string, config *ssh.ClientConfig) (SSHClienter, error) {
	conn, err := net.DialTimeout(network, addr, d.DialTimeout)
	if err != nil {
		return nil, err
	}

	// The handshake budget is enforced through a connection deadline; it is
	// cleared once the session is authenticated.
	if err := conn.SetDeadline(time.Now().Add(d.AuthTimeout)); err != nil {
		conn.Close()
		return nil, err
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := conn.SetDeadline(time.Time{}); err != nil {
		sshConn.Close()
		return nil, err
	}

	return &SSHClientWrapper{Client: ssh.NewClient(sshConn, chans, reqs)}, nil
}

var _ SSHDialer = (*SSHDial)(nil)
