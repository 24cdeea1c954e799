package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/aretw0/lexctrace"
	"github.com/aretw0/lexctrace/internal/presentation/tui"
)

// Exit codes of the lexctrace binary.
const (
	exitOK           = 0
	exitFailure      = 1
	exitNoDerivation = 2
)

// ErrNoDerivation reports a trace that completed without accepting any path.
var ErrNoDerivation = errors.New("no derivation found")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lexctrace",
		Short: "Trace derivations through a lexc lexicon",
		Long: `lexctrace reconstructs the continuation-class paths a lexc lexicon takes to
map an underlying form onto a surface form, and draws the classes reachable
from the root with those paths highlighted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: .lexctrace.yaml, .lexctrace.yml or .lexctrace.toml)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("root", "", "Root continuation class (default \"Root\")")
	flags.Bool("lenient", false, "Skip malformed rules like the legacy tooling, with a warning for each")
	flags.Int("max-depth", lexctrace.DefaultMaxDepth, "Maximum derivation length, 0 disables the guard")
	flags.Int("step-budget", lexctrace.DefaultStepBudget, "Maximum number of rules evaluated per trace, 0 disables the budget")
	flags.Duration("timeout", 0, "Maximum wall time per trace")

	rootCmd.AddCommand(
		newTraceCmd(),
		newGraphCmd(),
		newValidateCmd(),
		newServeCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	return exitCode(rootCmd, rootCmd.Execute())
}

func exitCode(cmd *cobra.Command, err error) int {
	status := tui.NewStatus(cmd.ErrOrStderr())
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrNoDerivation):
		status.Warn("%v", err)
		return exitNoDerivation
	default:
		status.Failure("%v", err)
		return exitFailure
	}
}
