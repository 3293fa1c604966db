// Command luax compiles JSON-encoded luax syntax trees to bytecode. The
// parser runs as a separate tool; this command picks up where it leaves
// off, so its inputs are tree files rather than source text.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/luax-lang/luax/ast"
	"github.com/luax-lang/luax/bytecode"
	"github.com/luax-lang/luax/compiler"
	"github.com/luax-lang/luax/dis"
)

var (
	logLevel string
	noColor  bool
	log      zerolog.Logger
)

func main() {
	root := &cobra.Command{
		Use:           "luax",
		Short:         "Compile luax syntax trees to bytecode",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q", logLevel)
			}
			log = zerolog.New(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: time.Kitchen,
				NoColor:    noColor,
			}).Level(level).With().Timestamp().Logger()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"log level (trace, debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored output")
	root.AddCommand(newDisCommand())
	root.AddCommand(newCheckCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// compileFile reads one JSON syntax tree ("-" means stdin) and compiles it.
func compileFile(path string) (*bytecode.Module, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	block, err := ast.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	start := time.Now()
	module, err := compiler.Compile(block)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().
		Str("file", path).
		Int("functions", module.FunctionCount()).
		Dur("elapsed", time.Since(start)).
		Msg("compiled")
	return module, nil
}

func newDisCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dis <file>...",
		Short: "Compile syntax trees and print their disassembly",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *multierror.Error
			printed := false
			for _, path := range args {
				module, err := compileFile(path)
				if err != nil {
					log.Error().Err(err).Str("file", path).Msg("compile failed")
					result = multierror.Append(result, err)
					continue
				}
				if printed {
					fmt.Println()
				}
				if len(args) > 1 {
					fmt.Printf("%s:\n", path)
				}
				dis.Fprint(os.Stdout, module)
				printed = true
			}
			return result.ErrorOrNil()
		},
	}
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Compile syntax trees and report errors without output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *multierror.Error
			for _, path := range args {
				module, err := compileFile(path)
				if err != nil {
					fmt.Printf("%s: %v\n", path, err)
					result = multierror.Append(result, err)
					continue
				}
				fmt.Printf("%s: ok (%d functions)\n", path, module.FunctionCount())
			}
			return result.ErrorOrNil()
		},
	}
}
