// Package cli implements the msmectl command line tool.  It runs the
// matching scorer and the heuristic valuation locally, without a server,
// so analysts can sanity-check scores against spreadsheets.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	output string // text | json
}

// NewRootCommand creates the msmectl root command with all subcommands
// attached.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "msmectl",
		Short:   "MSME marketplace matching and valuation tools",
		Long:    "msmectl runs the marketplace's match scorer and heuristic business\nvaluation locally from JSON input files.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "text" && opts.output != "json" {
				return fmt.Errorf("invalid output format %q (must be text or json)", opts.output)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "output format (text, json)")

	cmd.AddCommand(
		newValuateCmd(opts),
		newScoreCmd(opts),
	)

	return cmd
}

// Execute runs the root command, printing any error to stderr.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
		return 1
	}
	return 0
}

// readInput loads the JSON payload for a command, from a file or stdin
// when path is "-" or empty.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// printJSON writes data as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
