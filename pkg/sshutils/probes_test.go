package sshutils

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/logger"
)

type scriptedOutput struct {
	stdout string
	stderr string
	err    error
}

// scriptedSession answers Start from a fixed command-to-output table. Probe
// tests need per-command behavior, which is awkward to express as mock
// expectations when each command gets a fresh session.
type scriptedSession struct {
	outputs map[string]scriptedOutput
	stdout  io.Writer
	stderr  io.Writer
	waitErr error
}

func (s *scriptedSession) SetStdout(w io.Writer) { s.stdout = w }
func (s *scriptedSession) SetStderr(w io.Writer) { s.stderr = w }

func (s *scriptedSession) Start(cmd string) error {
	out, ok := s.outputs[cmd]
	if !ok {
		return fmt.Errorf("unscripted command: %q", cmd)
	}
	if out.stdout != "" {
		s.stdout.Write([]byte(out.stdout))
	}
	if out.stderr != "" {
		s.stderr.Write([]byte(out.stderr))
	}
	s.waitErr = out.err
	return nil
}

func (s *scriptedSession) Wait() error  { return s.waitErr }
func (s *scriptedSession) Close() error { return nil }

type scriptedClient struct {
	outputs map[string]scriptedOutput
}

func (c *scriptedClient) NewSession() (SSHSessioner, error) {
	return &scriptedSession{outputs: c.outputs}, nil
}

func (c *scriptedClient) Close() error { return nil }

func newScriptedSession(outputs map[string]scriptedOutput) *Session {
	return NewConnectedMockSession(&scriptedClient{outputs: outputs}, nil)
}

func TestConnectivityProbeSuccess(t *testing.T) {
	logger.InitTest(t)

	session := newScriptedSession(map[string]scriptedOutput{
		`echo "connectivity_test"`: {stdout: "connectivity_test\n"},
	})

	assert.True(t, session.TestConnectivity())
}

func TestConnectivityProbeNonzeroExit(t *testing.T) {
	logger.InitTest(t)

	session := newScriptedSession(map[string]scriptedOutput{
		`echo "connectivity_test"`: {stdout: "connectivity_test\n", err: &fakeExitError{status: 1}},
	})

	assert.False(t, session.TestConnectivity())
}

func TestConnectivityProbeMissingMarker(t *testing.T) {
	logger.InitTest(t)

	session := newScriptedSession(map[string]scriptedOutput{
		`echo "connectivity_test"`: {stdout: "garbage\n"},
	})

	assert.False(t, session.TestConnectivity())
}

func TestConnectivityProbeNotConnected(t *testing.T) {
	logger.InitTest(t)

	session := NewSession(newPasswordConfig(NewMockSSHDialer()))
	assert.NotPanics(t, func() {
		assert.False(t, session.TestConnectivity())
	})
}

func TestFileExists(t *testing.T) {
	logger.InitTest(t)

	session := newScriptedSession(map[string]scriptedOutput{
		"test -f /etc/passwd": {},
		"test -f /nope":       {err: &fakeExitError{status: 1}},
	})

	assert.True(t, session.FileExists("/etc/passwd"))
	assert.False(t, session.FileExists("/nope"))
}

func TestFileExistsFalseWhenNotConnected(t *testing.T) {
	logger.InitTest(t)

	session := NewSession(newPasswordConfig(NewMockSSHDialer()))
	assert.False(t, session.FileExists("/etc/passwd"))
}

func TestSystemInfo(t *testing.T) {
	logger.InitTest(t)

	session := newScriptedSession(map[string]scriptedOutput{
		"hostname": {stdout: "target01\n"},
		"uname -r": {stdout: "6.8.0-45-generic\n"},
		"uname -m": {stdout: "x86_64\n"},
		"uptime":   {stdout: " 10:00:00 up 3 days\n"},
		"whoami":   {stdout: "root\n"},
		"id":       {stdout: "uid=0(root) gid=0(root)\n"},
		"pwd":      {stdout: "/root\n"},
		`cat /etc/os-release | grep PRETTY_NAME | cut -d= -f2 | tr -d '"'`: {
			err: &fakeExitError{status: 1},
		},
	})

	info, err := session.SystemInfo()
	assert.NoError(t, err)

	assert.Equal(t, "target01", info["hostname"])
	assert.Equal(t, "6.8.0-45-generic", info["kernel"])
	assert.Equal(t, "x86_64", info["architecture"])
	assert.Equal(t, "root", info["whoami"])
	assert.Equal(t, "Unknown", info["os"])
	assert.Len(t, info, len(SystemInfoKeys()))
}

func TestSystemInfoKeysOrder(t *testing.T) {
	assert.Equal(t, []string{
		"hostname", "kernel", "os", "architecture", "uptime", "whoami", "id", "pwd",
	}, SystemInfoKeys())
}

func TestSystemInfoNotConnected(t *testing.T) {
	logger.InitTest(t)

	session := NewSession(newPasswordConfig(NewMockSSHDialer()))
	_, err := session.SystemInfo()
	assert.ErrorIs(t, err, ErrNotConnected)
}
