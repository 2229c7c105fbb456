package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/sshutils"
)

var sysinfoOutput string

var sysinfoCmd = &cobra.Command{
	Use:   "sysinfo",
	Short: "Collect basic system information from the remote host",
	Args:  cobra.NoArgs,
	RunE:  runSysinfo,
}

func init() {
	sysinfoCmd.Flags().StringVar(&sysinfoOutput, "output", "table", "Output format: table or yaml")
}

func runSysinfo(cmd *cobra.Command, args []string) error {
	var info map[string]string
	err := withSession(cmd.Context(), func(s *sshutils.Session) error {
		var probeErr error
		info, probeErr = s.SystemInfo()
		return probeErr
	})
	if err != nil {
		return err
	}

	switch sysinfoOutput {
	case "yaml":
		out, err := yaml.Marshal(info)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
	case "table":
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Probe", "Value"})
		for _, key := range sshutils.SystemInfoKeys() {
			table.Append([]string{key, info[key]})
		}
		table.Render()
	default:
		return fmt.Errorf("unknown output format %q", sysinfoOutput)
	}
	return nil
}
