package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/theblitlabs/parity-watchdog/cmd/cli"
	"github.com/theblitlabs/parity-watchdog/internal/core/config"
	"github.com/theblitlabs/parity-watchdog/internal/utils/cliutil"
	"github.com/theblitlabs/parity-watchdog/pkg/logger"
)

var (
	logMode    string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "watchdog",
	Short: "Parity Watchdog",
	Long:  `Watches CPU, memory, disk and SSH login failures and posts alerts to a Discord webhook`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch logMode {
		case "debug", "pretty", "info", "prod", "test":
			logger.InitWithMode(logger.LogMode(logMode))
		default:
			logger.InitWithMode(logger.LogModePretty)
		}
	},
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunMonitor(configPath)
	},
}

var reportCmd = cliutil.CreateCommand(cliutil.CommandConfig{
	Use:   "report",
	Short: "Print the current system status",
	RunFunc: func(cmd *cobra.Command, args []string) error {
		return cli.RunReport(configPath, cmd.OutOrStdout())
	},
})

var checkCmd = cliutil.CreateCommand(cliutil.CommandConfig{
	Use:     "check",
	Short:   "Run a single monitoring cycle",
	Example: "  watchdog check --dispatch",
	RunFunc: func(cmd *cobra.Command, args []string) error {
		dispatch, err := cmd.Flags().GetBool("dispatch")
		if err != nil {
			return err
		}
		return cli.RunCheck(configPath, dispatch, cmd.OutOrStdout())
	},
	Flags: map[string]cliutil.Flag{
		"dispatch": {
			Type:        cliutil.FlagTypeBool,
			Description: "Send any alerts to the configured webhook",
		},
	},
})

func init() {
	rootCmd.PersistentFlags().StringVar(&logMode, "log", "pretty", "Log mode: debug, pretty, info, prod, test")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "Path to the dotenv config file")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
