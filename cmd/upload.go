package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/sshutils"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path> <remote-path>",
	Short: "Copy a local file to the remote host over SFTP",
	Args:  cobra.ExactArgs(2),
	RunE:  runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	localPath, remotePath := args[0], args[1]
	err := withSession(cmd.Context(), func(s *sshutils.Session) error {
		return s.Upload(localPath, remotePath)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s to %s\n", localPath, remotePath)
	return nil
}
