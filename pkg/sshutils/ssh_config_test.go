package sshutils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CharlesKozel/linpeas-agent-test/internal/testutil"
	"github.com/CharlesKozel/linpeas-agent-test/pkg/logger"
)

func TestNewSSHConfigDefaults(t *testing.T) {
	logger.InitTest(t)

	config := NewSSHConfig("example.com", 0, "testuser")

	assert.Equal(t, "example.com", config.Host)
	assert.Equal(t, DefaultSSHPort, config.Port)
	assert.Equal(t, "testuser", config.User)
	assert.Equal(t, SSHDialTimeout, config.DialTimeout)
	assert.Equal(t, SSHAuthTimeout, config.AuthTimeout)
	assert.Equal(t, HostKeyStrict, config.HostKeyPolicy)
}

func TestValidateRequiresACredential(t *testing.T) {
	logger.InitTest(t)

	config := NewSSHConfig("example.com", 22, "testuser")
	err := config.Validate()

	assert.Error(t, err)
	var cerr *ConnectError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrKindConfig, cerr.Kind)
}

func TestValidateRejectsEmptyHostAndUser(t *testing.T) {
	logger.InitTest(t)

	config := NewSSHConfig("", 22, "testuser")
	config.Password = "secret"
	assert.Error(t, config.Validate())

	config = NewSSHConfig("example.com", 22, "")
	config.Password = "secret"
	assert.Error(t, config.Validate())
}

func TestValidateAcceptsSingleCredential(t *testing.T) {
	logger.InitTest(t)

	config := NewSSHConfig("example.com", 22, "testuser")
	config.Password = "secret"
	assert.NoError(t, config.Validate())

	config = NewSSHConfig("example.com", 22, "testuser")
	config.PrivateKeyPath = "/tmp/id_ed25519"
	assert.NoError(t, config.Validate())
}

func TestClientConfigUsesPasswordAuth(t *testing.T) {
	logger.InitTest(t)

	config := NewSSHConfig("example.com", 22, "testuser")
	config.Password = "secret"
	config.HostKeyPolicy = HostKeyAcceptUnknown

	clientConfig, err := config.clientConfig()
	assert.NoError(t, err)
	assert.Equal(t, "testuser", clientConfig.User)
	assert.Len(t, clientConfig.Auth, 1)
}

func TestClientConfigPrefersKeyOverPassword(t *testing.T) {
	logger.InitTest(t)
	_, cleanupPublicKey, privateKeyPath, cleanupPrivateKey := testutil.CreateSSHPublicPrivateKeyPairOnDisk()
	defer cleanupPublicKey()
	defer cleanupPrivateKey()

	config := NewSSHConfig("example.com", 22, "testuser")
	config.Password = "secret"
	config.PrivateKeyPath = privateKeyPath
	config.HostKeyPolicy = HostKeyAcceptUnknown

	keyReads := 0
	config.privateKeyReader = func(path string) ([]byte, error) {
		keyReads++
		return os.ReadFile(path)
	}

	clientConfig, err := config.clientConfig()
	assert.NoError(t, err)
	assert.Len(t, clientConfig.Auth, 1)
	assert.Equal(t, 1, keyReads, "key auth should be selected when both credentials are present")
}

func TestClientConfigUnparseableKey(t *testing.T) {
	logger.InitTest(t)
	keyPath, cleanup, err := testutil.WriteStringToTempFile("not a key")
	assert.NoError(t, err)
	defer cleanup()

	config := NewSSHConfig("example.com", 22, "testuser")
	config.PrivateKeyPath = keyPath
	config.HostKeyPolicy = HostKeyAcceptUnknown

	_, err = config.clientConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse private key")
}

func TestConnectWithKeyAuth(t *testing.T) {
	logger.InitTest(t)
	_, cleanupPublicKey, privateKeyPath, cleanupPrivateKey := testutil.CreateSSHPublicPrivateKeyPairOnDisk()
	defer cleanupPublicKey()
	defer cleanupPrivateKey()

	mockDialer := NewMockSSHDialer()
	mockClient := &MockSSHClient{}
	mockDialer.On("Dial", "tcp", "10.0.0.5:22", mock.AnythingOfType("*ssh.ClientConfig")).
		Return(mockClient, nil)

	config := NewSSHConfig("10.0.0.5", 22, "root")
	config.PrivateKeyPath = privateKeyPath
	config.HostKeyPolicy = HostKeyAcceptUnknown
	config.SSHDialer = mockDialer

	session := NewSession(config)
	assert.NoError(t, session.Connect())
	assert.Equal(t, StateConnected, session.State())

	mockDialer.AssertExpectations(t)
}

