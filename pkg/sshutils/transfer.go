package sshutils

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pkg/sftp"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/logger"
)

var errInvalidClientType = errors.New("invalid client type for file transfer")

// Upload streams a local file to the remote host over a dedicated SFTP
// channel. The channel is closed on every path. Unlike ExecuteCommand,
// failures propagate to the caller: a partially written remote file must not
// be silently masked.
func (s *Session) Upload(localPath, remotePath string) error {
	if !s.Connected() {
		return ErrNotConnected
	}

	sftpClient, err := s.sftpCreator(s.client)
	if err != nil {
		s.log.Error("file upload failed", logger.Error(err))
		return fmt.Errorf("failed to open file-transfer channel: %w", err)
	}
	defer sftpClient.Close()

	localFile, err := os.Open(localPath)
	if err != nil {
		s.log.Error("file upload failed", logger.Error(err))
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer localFile.Close()

	remoteFile, err := sftpClient.Create(remotePath)
	if err != nil {
		s.log.Error("file upload failed", logger.Error(err))
		return fmt.Errorf("failed to create remote file: %w", err)
	}
	defer remoteFile.Close()

	if _, err := io.Copy(remoteFile, localFile); err != nil {
		s.log.Error("file upload failed", logger.Error(err))
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	s.log.Info("uploaded file",
		logger.String("local_path", localPath),
		logger.String("remote_path", remotePath),
	)
	return nil
}

type sftpClientWrapper struct {
	client *sftp.Client
}

func (w *sftpClientWrapper) Create(path string) (io.WriteCloser, error) {
	return w.client.Create(path)
}

func (w *sftpClientWrapper) Close() error {
	return w.client.Close()
}

var _ SFTPClienter = (*sftpClientWrapper)(nil)
