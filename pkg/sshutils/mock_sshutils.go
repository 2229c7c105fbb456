package sshutils

import (
	"io"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/ssh"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/logger"
)

// MockSSHDialer is a mock implementation of SSHDialer.
type MockSSHDialer struct {
	mock.Mock
}

func NewMockSSHDialer() *MockSSHDialer {
	return &MockSSHDialer{}
}

func (m *MockSSHDialer) Dial(network, addr string, config *ssh.ClientConfig) (SSHClienter, error) {
	args := m.Called(network, addr, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(SSHClienter), args.Error(1)
}

// MockSSHClient is a mock implementation of SSHClienter.
type MockSSHClient struct {
	mock.Mock
}

func (m *MockSSHClient) NewSession() (SSHSessioner, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(SSHSessioner), args.Error(1)
}

func (m *MockSSHClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSSHSession is a mock implementation of SSHSessioner. The writers handed
// to SetStdout/SetStderr are kept so scripted expectations can emit output.
type MockSSHSession struct {
	mock.Mock
	Stdout io.Writer
	Stderr io.Writer
}

func (m *MockSSHSession) SetStdout(w io.Writer) {
	m.Stdout = w
}

func (m *MockSSHSession) SetStderr(w io.Writer) {
	m.Stderr = w
}

func (m *MockSSHSession) Start(cmd string) error {
	args := m.Called(cmd)
	return args.Error(0)
}

func (m *MockSSHSession) Wait() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSSHSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSFTPClient is a mock implementation of SFTPClienter.
type MockSFTPClient struct {
	mock.Mock
}

func (m *MockSFTPClient) Create(path string) (io.WriteCloser, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSFTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockWriteCloser is a mock io.WriteCloser for remote file handles.
type MockWriteCloser struct {
	mock.Mock
}

func (m *MockWriteCloser) Write(p []byte) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockWriteCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}

// NewConnectedMockSession returns a session already in the Connected state,
// backed by the given mock client, bypassing the dialer.
func NewConnectedMockSession(client SSHClienter, sftpCreator SFTPClientCreator) *Session {
	s := &Session{
		cfg:         NewSSHConfig("example.com", DefaultSSHPort, "testuser"),
		state:       StateConnected,
		client:      client,
		sftpCreator: sftpCreator,
		log:         logger.Get(),
	}
	if s.sftpCreator == nil {
		s.sftpCreator = defaultSFTPClientCreator
	}
	return s
}

var (
	_ SSHDialer    = (*MockSSHDialer)(nil)
	_ SSHClienter  = (*MockSSHClient)(nil)
	_ SSHSessioner = (*MockSSHSession)(nil)
	_ SFTPClienter = (*MockSFTPClient)(nil)
)
