package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/sshutils"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether the remote host answers over SSH",
	Args:  cobra.NoArgs,
	RunE:  runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	alive := false
	err := withSession(cmd.Context(), func(s *sshutils.Session) error {
		alive = s.TestConnectivity()
		return nil
	})
	if err != nil || !alive {
		fmt.Fprintln(cmd.OutOrStdout(), "unreachable")
		os.Exit(1)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "alive")
	return nil
}
