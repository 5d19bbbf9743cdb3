package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aioutlet/asyncwrap/rewrite"
)

// Exit code constants
const (
	ExitSuccess          = 0
	ExitInvalidArguments = 1
	ExitIOError          = 2
)

var errMissingArgument = errors.New("missing file path")

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errMissingArgument) {
			os.Exit(ExitInvalidArguments)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitIOError)
	}
	os.Exit(ExitSuccess)
}

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "asyncwrap <file_path>",
		Short:         "Wrap exported async handlers with asyncHandler and drop their inline try/catch",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				// Usage goes to stdout; nothing on disk is touched.
				fmt.Fprintln(cmd.OutOrStdout(), "Usage: asyncwrap <file_path>")
				return errMissingArgument
			}
			return run(cmd, args[0])
		},
	}
}

// run reads the file, applies the transform and overwrites the file in
// place. There is no backup and no atomic rename: a failing write can leave
// the file partially written.
func run(cmd *cobra.Command, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result := rewrite.Transform(string(content))

	if err := os.WriteFile(path, []byte(result), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Refactored %s\n", path)
	return nil
}
