// Package cli provides the redflags operator command line. It runs the engine
// against local files, so no database or broker is needed.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/service"
	"github.com/akashent3/redflags-sub002/internal/infrastructure/config"
	"github.com/akashent3/redflags-sub002/pkg/observability"
)

// Exit codes.
const (
	ExitSuccess       = 0
	ExitConfiguration = 1
	ExitInput         = 2
	ExitInternal      = 4
)

// CLI holds the command-line interface state.
type CLI struct {
	rootCmd *cobra.Command
	cfg     *config.Config
	engine  *service.Engine
	logger  *slog.Logger
	stdout  io.Writer
	stderr  io.Writer

	// Global flags
	configPath string
	jsonOutput bool
	debug      bool
}

// New creates a new CLI writing to the process streams.
func New() *CLI {
	return NewWithOutput(os.Stdout, os.Stderr)
}

// NewWithOutput creates a CLI with explicit output streams.
func NewWithOutput(stdout, stderr io.Writer) *CLI {
	c := &CLI{stdout: stdout, stderr: stderr}
	c.rootCmd = c.newRootCmd()
	return c
}

// Execute runs the CLI with the process arguments.
func (c *CLI) Execute() int {
	return c.Run(os.Args[1:])
}

// Run runs the CLI with args and returns the process exit code.
func (c *CLI) Run(args []string) int {
	c.rootCmd.SetArgs(args)
	c.rootCmd.SetOut(c.stdout)
	c.rootCmd.SetErr(c.stderr)

	err := c.rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(c.stderr, "Error: %v\n", err)

	switch {
	case errors.Is(err, errs.ErrConfiguration):
		return ExitConfiguration
	case errors.Is(err, errs.ErrMalformedInput), errors.Is(err, errs.ErrUnknownFlag):
		return ExitInput
	default:
		return ExitInternal
	}
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redflags",
		Short: "Score companies against the forensic red-flag catalog",
		Long: `redflags runs the red-flag engine on local inputs.

It loads the flag catalog and engine settings from the same configuration
as redflagsd, then scores financial and narrative evidence files or ranks
historical fraud cases by flag-set similarity.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.init()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./redflags.yaml when present)")
	cmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "machine-readable JSON output")
	cmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "verbose debug logs")

	cmd.AddCommand(c.newCatalogCmd())
	cmd.AddCommand(c.newValidateCmd())
	cmd.AddCommand(c.newScoreCmd())
	cmd.AddCommand(c.newMatchCmd())

	return cmd
}

// init loads configuration and builds the engine. Both failures are
// configuration errors.
func (c *CLI) init() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := "warn"
	if c.debug {
		level = "debug"
	}
	c.logger = observability.InitLogger(observability.LogConfig{
		Output: c.stderr,
		Level:  level,
		Format: "text",
	})

	engine, err := service.NewEngine(cfg.EngineConfig(), c.logger)
	if err != nil {
		return err
	}
	c.engine = engine
	return nil
}

func (c *CLI) printJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.stdout, format, args...)
}
