package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/eathonq/toolkit-mvvm-plugin/internal/config"
	"github.com/eathonq/toolkit-mvvm-plugin/internal/errors"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every command needs once the root has run.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:   "mvvm",
		Short: "Replay and inspect reactive data models",
		Long: `mvvm drives the reactive runtime from the command line.

Model documents are YAML. Scenarios bind reactions to model paths,
apply scripted mutations and check which reactions re-run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to "+config.ConfigFileName+" (default: nearest in working directory)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		replayCmd(a),
		inspectCmd(a),
		versionCmd(a),
	)
	return rootCmd
}

// setup loads configuration and builds the logger.
func (a *app) setup() error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		if err := a.cfg.SetLogLevel(a.logLevel); err != nil {
			return err
		}
	}
	a.logger = a.cfg.NewLogger(os.Stderr)
	slog.SetDefault(a.logger)
	return nil
}

// success prints a success message.
func (a *app) success(format string, args ...any) {
	fmt.Fprintf(a.out, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// failure prints a failure message.
func (a *app) failure(format string, args ...any) {
	fmt.Fprintf(a.out, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
