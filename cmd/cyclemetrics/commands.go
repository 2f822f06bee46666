package main

import (
	"io"

	"github.com/spf13/cobra"
)

type cliFlags struct {
	configPath string
	historyDB  string
	logFile    string
	ambiguity  string
	logLevel   int
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:   "cyclemetrics [input-log] [output-json]",
		Short: "Extract zkVM cycle metrics from an execution log into a benchmark record",
		Long: `cyclemetrics reads a zkVM execution log, extracts total and user cycle
counts plus per-phase cycle deltas, validates them and writes a JSON benchmark
document. When $GITHUB_OUTPUT is set the metrics are also appended to it as
name=value lines.

An input log literally named "import" must be given as ./import, otherwise
the import subcommand runs.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, flags, stdout, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flags.historyDB, "history-db", "", "sqlite database recording every run")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "also write diagnostics to this file under ./log")
	rootCmd.PersistentFlags().StringVar(&flags.ambiguity, "ambiguity", "", "policy for repeated matches: first|fail")
	rootCmd.PersistentFlags().IntVar(&flags.logLevel, "log-level", 0, "1=error 2=warn 3=info 4=debug")

	importCmd := &cobra.Command{
		Use:   "import <log>...",
		Short: "Extract each log and record it in the history database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, flags, stderr)
		},
	}
	rootCmd.AddCommand(importCmd)

	return rootCmd
}
