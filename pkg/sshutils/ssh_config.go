package sshutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/crypto/ssh"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/logger"
)

// SSHConfig holds the configuration for one remote host. Exactly one
// credential must be usable: if PrivateKeyPath is set, key authentication is
// attempted; otherwise Password; neither set is a config error caught before
// any network I/O.
type SSHConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	PrivateKeyPath string

	// DialTimeout bounds transport establishment, AuthTimeout the
	// authentication handshake.
	DialTimeout time.Duration
	AuthTimeout time.Duration

	HostKeyPolicy  HostKeyPolicy
	KnownHostsPath string

	Logger    *logger.Logger
	SSHDialer SSHDialer

	privateKeyReader func(path string) ([]byte, error)
}

// NewSSHConfig creates an SSH configuration with default port, timeouts and
// trust policy. The caller sets exactly one of Password / PrivateKeyPath.
func NewSSHConfig(host string, port int, user string) *SSHConfig {
	if port <= 0 {
		port = DefaultSSHPort
	}
	return &SSHConfig{
		Host:             host,
		Port:             port,
		User:             user,
		DialTimeout:      SSHDialTimeout,
		AuthTimeout:      SSHAuthTimeout,
		HostKeyPolicy:    HostKeyStrict,
		Logger:           logger.Get(),
		privateKeyReader: os.ReadFile,
	}
}

// Validate checks the configuration without touching the network.
func (c *SSHConfig) Validate() error {
	var err error
	switch {
	case c.Host == "":
		err = errors.New("host cannot be empty")
	case c.User == "":
		err = errors.New("user cannot be empty")
	case c.Port <= 0 || c.Port > 65535:
		err = fmt.Errorf("invalid port number: %d", c.Port)
	case c.Password == "" && c.PrivateKeyPath == "":
		err = errors.New("must provide either a password or a private key file")
	}
	if err != nil {
		return newConnectError(ErrKindConfig, c.Host, c.Port, err)
	}
	return nil
}

func (c *SSHConfig) logger() *logger.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger.Get()
}

func (c *SSHConfig) dialer() SSHDialer {
	if c.SSHDialer != nil {
		return c.SSHDialer
	}
	return NewSSHDial(c.DialTimeout, c.AuthTimeout)
}

func (c *SSHConfig) readPrivateKey(path string) ([]byte, error) {
	if c.privateKeyReader != nil {
		return c.privateKeyReader(path)
	}
	return os.ReadFile(path)
}

// clientConfig builds the ssh.ClientConfig: key auth when a key path is
// configured, password auth otherwise.
func (c *SSHConfig) clientConfig() (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod

	if c.PrivateKeyPath != "" {
		keyPath, err := expandPath(c.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve private key path: %w", err)
		}
		keyBytes, err := c.readPrivateKey(keyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	} else {
		auth = append(auth, ssh.Password(c.Password))
	}

	hostKeyCallback, err := c.hostKeyCallback()
	if err != nil {
		return nil, fmt.Errorf("failed to build host key callback: %w", err)
	}

	return &ssh.ClientConfig{
		User:            c.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         c.DialTimeout,
	}, nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		return homedir.Expand(path)
	}
	return filepath.Abs(path)
}
