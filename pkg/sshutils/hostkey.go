package sshutils

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// HostKeyPolicy controls how the remote host's identity is verified.
type HostKeyPolicy int

const (
	// HostKeyStrict verifies the host key against known_hosts. Default.
	HostKeyStrict HostKeyPolicy = iota
	// HostKeyAcceptUnknown accepts any host key. Explicit opt-in only;
	// acceptable on throwaway lab targets, nowhere else.
	HostKeyAcceptUnknown
)

func (p HostKeyPolicy) String() string {
	if p == HostKeyAcceptUnknown {
		return "accept-unknown"
	}
	return "strict"
}

func (c *SSHConfig) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if c.HostKeyPolicy == HostKeyAcceptUnknown {
		//nolint:gosec
		return ssh.InsecureIgnoreHostKey(), nil
	}

	path := c.KnownHostsPath
	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	return knownhosts.New(path)
}
