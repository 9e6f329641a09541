// Package cmd contains the count-func command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	// Version is the current version of count-func
	Version = "0.1.0"
)

// ErrCompilationFailed is returned when at least one source file failed to
// parse. The count has already been printed when it is returned.
var ErrCompilationFailed = errors.New("compilation failed")

// options holds the flag values of one invocation.
type options struct {
	printAll        bool
	buildPath       string
	extraArgs       []string
	extraArgsBefore []string
	astDump         bool
	sort            bool
	format          string
	quiet           bool
	configPath      string
}

// NewRootCmd builds the count-func command. Each call returns an independent
// command with its own flag state.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "count-func [flags] <source>... [-- <compiler flags>]",
		Short: "Count distinct qualified function names in C and C++ sources",
		Long: `count-func parses each C or C++ source file, visits every function
declaration and counts the distinct fully-qualified names across all files.

Compiler flags for each file come from compile_commands.json (found by
walking up from the first source, or from --build-path). Flags given after
"--" form a fixed compilation database applied to every source instead.

Names are qualified by their enclosing namespaces and classes, so "f" and
"ns::f" count as two functions while a declaration and its definition
count once.`,
		Example: `  count-func main.cc util.cc
  count-func --print-all --sort src/*.cpp
  count-func lib.c -- -std=c11 -Iinclude
  count-func -p build --format yaml src/widget.cpp`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.printAll, "print-all", false, "Print every distinct name after the count")
	flags.StringVarP(&opts.buildPath, "build-path", "p", "", "Directory containing compile_commands.json")
	flags.StringArrayVar(&opts.extraArgs, "extra-arg", nil, "Additional argument to append to the compiler command line")
	flags.StringArrayVar(&opts.extraArgsBefore, "extra-arg-before", nil, "Additional argument to prepend to the compiler command line")
	flags.BoolVar(&opts.astDump, "ast-dump", false, "Dump each syntax tree before counting")
	flags.BoolVar(&opts.sort, "sort", false, "Print the name listing in sorted order")
	flags.StringVar(&opts.format, "format", "text", "Report format (text|yaml|json)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress diagnostic lines")
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: .count-func/config.yaml)")

	return cmd
}

// Execute runs the root command and returns the process exit status.
// This is called by main.main().
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
