package sshutils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CharlesKozel/linpeas-agent-test/internal/testutil"
	"github.com/CharlesKozel/linpeas-agent-test/pkg/logger"
)

func fixedSFTPCreator(client SFTPClienter, err error) SFTPClientCreator {
	return func(SSHClienter) (SFTPClienter, error) {
		return client, err
	}
}

func TestUploadSuccess(t *testing.T) {
	logger.InitTest(t)

	content := "#!/bin/sh\necho enumerating\n"
	localPath, cleanup, err := testutil.WriteStringToTempFile(content)
	assert.NoError(t, err)
	defer cleanup()

	var written []byte
	mockWriter := &MockWriteCloser{}
	mockWriter.On("Write", mock.Anything).Run(func(args mock.Arguments) {
		written = append(written, args.Get(0).([]byte)...)
	}).Return(len(content), nil)
	mockWriter.On("Close").Return(nil).Once()

	mockSFTP := &MockSFTPClient{}
	mockSFTP.On("Create", "/tmp/linpeas.sh").Return(mockWriter, nil)
	mockSFTP.On("Close").Return(nil).Once()

	session := NewConnectedMockSession(&MockSSHClient{}, fixedSFTPCreator(mockSFTP, nil))
	err = session.Upload(localPath, "/tmp/linpeas.sh")

	assert.NoError(t, err)
	assert.Equal(t, content, string(written))
	mockSFTP.AssertExpectations(t)
	mockWriter.AssertExpectations(t)
}

func TestUploadNotConnected(t *testing.T) {
	logger.InitTest(t)

	session := NewSession(newPasswordConfig(NewMockSSHDialer()))
	err := session.Upload("/tmp/in", "/tmp/out")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestUploadChannelOpenFailure(t *testing.T) {
	logger.InitTest(t)

	channelErr := errors.New("ssh: rejected: administratively prohibited")
	session := NewConnectedMockSession(&MockSSHClient{}, fixedSFTPCreator(nil, channelErr))

	err := session.Upload("/tmp/in", "/tmp/out")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file-transfer channel")
	assert.ErrorIs(t, err, channelErr)
}

func TestUploadMissingLocalFile(t *testing.T) {
	logger.InitTest(t)

	mockSFTP := &MockSFTPClient{}
	mockSFTP.On("Close").Return(nil).Once()

	session := NewConnectedMockSession(&MockSSHClient{}, fixedSFTPCreator(mockSFTP, nil))
	err := session.Upload("/definitely/not/here", "/tmp/out")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open local file")
	mockSFTP.AssertExpectations(t)
	mockSFTP.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUploadRemoteCreateFailure(t *testing.T) {
	logger.InitTest(t)

	localPath, cleanup, err := testutil.WriteStringToTempFile("payload")
	assert.NoError(t, err)
	defer cleanup()

	mockSFTP := &MockSFTPClient{}
	mockSFTP.On("Create", "/readonly/out").Return(nil, errors.New("permission denied"))
	mockSFTP.On("Close").Return(nil).Once()

	session := NewConnectedMockSession(&MockSSHClient{}, fixedSFTPCreator(mockSFTP, nil))
	err = session.Upload(localPath, "/readonly/out")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create remote file")
	mockSFTP.AssertExpectations(t)
}

func TestUploadCopyFailureClosesChannel(t *testing.T) {
	logger.InitTest(t)

	localPath, cleanup, err := testutil.WriteStringToTempFile("payload")
	assert.NoError(t, err)
	defer cleanup()

	mockWriter := &MockWriteCloser{}
	mockWriter.On("Write", mock.Anything).Return(0, errors.New("connection lost"))
	mockWriter.On("Close").Return(nil).Once()

	mockSFTP := &MockSFTPClient{}
	mockSFTP.On("Create", "/tmp/out").Return(mockWriter, nil)
	mockSFTP.On("Close").Return(nil).Once()

	session := NewConnectedMockSession(&MockSSHClient{}, fixedSFTPCreator(mockSFTP, nil))
	err = session.Upload(localPath, "/tmp/out")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to copy file contents")
	mockSFTP.AssertExpectations(t)
	mockWriter.AssertExpectations(t)
}

func TestDefaultSFTPCreatorRejectsForeignClients(t *testing.T) {
	logger.InitTest(t)

	_, err := defaultSFTPClientCreator(&MockSSHClient{})
	assert.ErrorIs(t, err, errInvalidClientType)
}
