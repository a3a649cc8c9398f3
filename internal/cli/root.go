// Package cli implements the triage command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// Run executes the root command against os.Args.
func Run() ExitCode {
	if err := NewRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

// NewRootCmd builds the command tree. Tables go to out, logs to logOut.
func NewRootCmd(out, logOut io.Writer) *cobra.Command {
	return newRootCmd(out, logOut, NewRunCmd())
}

func newRootCmd(out, logOut io.Writer, run *RunCmd) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "triage",
		Short:        "Classify support emails and route automated replies.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(logOut)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "set debug logging level")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().String("db", "", "sqlite database path (overrides TRIAGE_DB)")

	rootCmd.AddCommand(
		run.Command(),
		NewValidateCmd().Command(),
		NewInspectCmd().Command(),
	)
	return rootCmd
}

// commonFlags are the persistent flags every subcommand reads.
type commonFlags struct {
	verbose bool
	envFile string
	db      string
}

func readCommonFlags(cmd *cobra.Command) (commonFlags, error) {
	var f commonFlags
	var err error
	if f.verbose, err = cmd.Flags().GetBool("verbose"); err != nil {
		return f, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if f.envFile, err = cmd.Flags().GetString("env-file"); err != nil {
		return f, fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if f.db, err = cmd.Flags().GetString("db"); err != nil {
		return f, fmt.Errorf("failed to get db flag: %w", err)
	}
	return f, nil
}
