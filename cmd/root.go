package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/logger"
	"github.com/CharlesKozel/linpeas-agent-test/pkg/sshutils"
)

var (
	cfgFile     string
	verboseMode bool

	sshHost         string
	sshUser         string
	sshPort         int
	sshPassword     string
	sshKeyPath      string
	knownHostsPath  string
	insecureHostKey bool
	waitForHost     time.Duration
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linpeas-agent",
	Short: "linpeas-agent runs enumeration commands on a remote host over SSH",
	Long: `linpeas-agent maintains an authenticated SSH session to a single remote
host and runs bounded-time enumeration commands over it, for use during
authorized penetration tests.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is $HOME/.linpeas-agent.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verboseMode, "verbose", false, "Enable debug logging")

	rootCmd.PersistentFlags().StringVar(&sshHost, "host", "", "Remote host to connect to")
	rootCmd.PersistentFlags().StringVar(&sshUser, "user", "", "SSH user name")
	rootCmd.PersistentFlags().IntVar(&sshPort, "port", sshutils.DefaultSSHPort, "SSH port")
	rootCmd.PersistentFlags().StringVar(&sshPassword, "password", "", "SSH password")
	rootCmd.PersistentFlags().StringVar(&sshKeyPath, "key", "", "Path to the SSH private key")
	rootCmd.PersistentFlags().
		StringVar(&knownHostsPath, "known-hosts", "", "known_hosts file for host key verification")
	rootCmd.PersistentFlags().
		BoolVar(&insecureHostKey, "insecure-host-key", false, "Accept unknown host keys without verification")
	rootCmd.PersistentFlags().
		DurationVar(&waitForHost, "wait", 0, "Keep retrying the connection for up to this long before giving up")

	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(sysinfoCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(askCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".linpeas-agent")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	if verboseMode {
		logger.GlobalLogLevel = "debug"
	}
	logger.InitLoggerOutputs()
	logger.InitProduction()
}

// buildSSHConfig assembles the connection settings from flags, falling back to
// the ssh.* keys of the config file.
func buildSSHConfig() (*sshutils.SSHConfig, error) {
	host := firstNonEmpty(sshHost, viper.GetString("ssh.host"))
	if host == "" {
		return nil, fmt.Errorf("no remote host given, use --host or set ssh.host in the config file")
	}
	user := firstNonEmpty(sshUser, viper.GetString("ssh.user"))
	if user == "" {
		return nil, fmt.Errorf("no SSH user given, use --user or set ssh.user in the config file")
	}

	port := sshPort
	if port == sshutils.DefaultSSHPort && viper.IsSet("ssh.port") {
		port = viper.GetInt("ssh.port")
	}

	cfg := sshutils.NewSSHConfig(host, port, user)
	cfg.Password = firstNonEmpty(sshPassword, viper.GetString("ssh.password"))
	cfg.PrivateKeyPath = firstNonEmpty(sshKeyPath, viper.GetString("ssh.private_key_path"))
	cfg.KnownHostsPath = firstNonEmpty(knownHostsPath, viper.GetString("ssh.known_hosts_path"))
	if insecureHostKey || viper.GetBool("ssh.insecure_host_key") {
		cfg.HostKeyPolicy = sshutils.HostKeyAcceptUnknown
	}
	return cfg, nil
}

// withSession runs fn inside a connected session, optionally waiting for the
// host to come up first.
func withSession(ctx context.Context, fn func(*sshutils.Session) error) error {
	cfg, err := buildSSHConfig()
	if err != nil {
		return err
	}
	if waitForHost > 0 {
		if err := sshutils.WaitForSSH(ctx, cfg, waitForHost); err != nil {
			return fmt.Errorf("host did not become reachable: %w", err)
		}
	}
	return sshutils.WithSession(cfg, fn)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
