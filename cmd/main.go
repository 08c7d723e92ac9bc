// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pii-scan/internal/formatters"
	"pii-scan/internal/resilience"
	"pii-scan/internal/version"
)

// Exit codes
const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

// NewRootCmd creates the root command. Running it without a subcommand
// performs a scan.
func NewRootCmd() *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "pii-scan",
		Short: "Find and count Social Security numbers across file shares",
		Long: `pii-scan walks the directories listed in its configuration, extracts text
from plain text, CSV, xlsx and xls files, and counts SSN-shaped values per file.
Each distinct SSN is counted once across the whole run, compared by hash.

The per-file counts are written to a CSV report; a summary is printed on exit.
Files ending in .pgp or .gpg are never opened.`,
		Version:       version.Short(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to the configuration file (default ./pii-scan.yaml, then $XDG_CONFIG_HOME/pii-scan/config.yaml)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level and list every file with SSNs in the summary")
	cmd.Flags().StringVar(&opts.format, "format", "text", formatUsage())
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// formatUsage describes the registered summary formats for --format.
func formatUsage() string {
	var b strings.Builder
	b.WriteString("Summary format printed on exit:")
	for _, name := range formatters.List() {
		f, _ := formatters.Get(name)
		fmt.Fprintf(&b, "\n  %-5s %s", name, f.Description())
	}
	return b.String()
}

// exitCode maps the error returned by the root command onto a process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInterrupted):
		return exitInterrupted
	default:
		return exitFailure
	}
}

// reportError prints err for the user. Configuration errors get a hint.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "pii-scan: %v\n", err)
	if resilience.IsConfigurationError(err) {
		fmt.Fprintln(w, "Check the configuration file; see pii-scan --help for where it is looked up.")
	}
}

func main() {
	ctx, stop := signalContext()
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errInterrupted) {
		reportError(os.Stderr, err)
	}
	stop()
	os.Exit(exitCode(err))
}
