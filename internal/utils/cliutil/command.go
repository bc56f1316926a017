package cliutil

import (
	"github.com/spf13/cobra"
)

// CommandConfig describes a subcommand.
type CommandConfig struct {
	Use     string
	Short   string
	Long    string
	Example string

	RunFunc func(cmd *cobra.Command, args []string) error

	Flags map[string]Flag
}

// Flag represents a command line flag
type Flag struct {
	Type        FlagType
	Shorthand   string
	Description string

	DefaultString string
	DefaultBool   bool
}

type FlagType int

const (
	FlagTypeString FlagType = iota
	FlagTypeBool
)

// CreateCommand builds a cobra command from cfg. Usage output is silenced on
// RunFunc errors since those are runtime failures, not misuse.
func CreateCommand(cfg CommandConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:     cfg.Use,
		Short:   cfg.Short,
		Long:    cfg.Long,
		Example: cfg.Example,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.RunFunc == nil {
				return nil
			}
			cmd.SilenceUsage = true
			return cfg.RunFunc(cmd, args)
		},
	}

	for name, flag := range cfg.Flags {
		switch flag.Type {
		case FlagTypeString:
			cmd.Flags().StringP(name, flag.Shorthand, flag.DefaultString, flag.Description)
		case FlagTypeBool:
			cmd.Flags().BoolP(name, flag.Shorthand, flag.DefaultBool, flag.Description)
		}
	}

	return cmd
}
