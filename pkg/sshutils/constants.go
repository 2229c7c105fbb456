package sshutils

import "time"

const DefaultSSHPort = 22

var (
	// SSHDialTimeout bounds transport establishment; SSHAuthTimeout bounds the
	// authentication handshake. Two independent budgets.
	SSHDialTimeout = 10 * time.Second
	SSHAuthTimeout = 60 * time.Second

	DefaultCommandTimeout = 60 * time.Second
	ConnectivityTimeout   = 10 * time.Second

	WaitRetryInterval = 2 * time.Second
)

// Client-side exit code sentinels. A remote process reports 0-255; a negative
// code means the client, not the remote process, determined the outcome.
const (
	ExitCodeTransportFailure = -1
	ExitCodeTimeout          = -2
	ExitCodeInternal         = -3
)

const connectivityMarker = "connectivity_test"

// Number of stdout lines echoed to the audit log after each command.
const outputPreviewLines = 10
