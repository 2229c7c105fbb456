package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/sshutils"
)

var execTimeout time.Duration

var execCmd = &cobra.Command{
	Use:   "exec <command>",
	Short: "Run one command on the remote host",
	Long: `Runs a single command over the SSH session and prints its output.
The process exit code mirrors the remote exit code; transport failures,
timeouts, and internal failures all exit 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().
		DurationVar(&execTimeout, "timeout", sshutils.DefaultCommandTimeout, "Wall-clock budget for the command")
}

func runExec(cmd *cobra.Command, args []string) error {
	var result sshutils.CommandResult
	err := withSession(cmd.Context(), func(s *sshutils.Session) error {
		var execErr error
		result, execErr = s.ExecuteCommand(args[0], execTimeout)
		return execErr
	})
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
	if result.Stderr != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), result.Stderr)
	}

	if result.ExitCode != 0 {
		if result.Remote() {
			os.Exit(result.ExitCode)
		}
		os.Exit(1)
	}
	return nil
}
