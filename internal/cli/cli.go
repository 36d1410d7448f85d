// Package cli implements the tear command-line interface.
package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/tear"
	"github.com/gogpu/tear/internal/config"
	"github.com/gogpu/tear/internal/gpu"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for output directories and display.
	appName = "tear"

	// defaultDemoTextures is how many procedural images are used when no
	// image files are given.
	defaultDemoTextures = 4
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	// OpenGPU opens the device for --gpu. Nil uses gpu.Open.
	OpenGPU func() (*gpu.Device, error)
}

// New creates a CLI that logs to w and routes the tear library's slog
// output through the same logger.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	tear.SetLogger(slog.New(c.Logger))

	cfg, err := config.Load()
	if err != nil {
		c.Logger.Warn("using default configuration", "err", err)
		cfg = config.Default()
	}
	c.Config = cfg
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil && level == LogInfo {
		c.Logger.SetLevel(lvl)
	}
	return c
}

func (c *CLI) openGPU() (*gpu.Device, error) {
	if c.OpenGPU != nil {
		return c.OpenGPU()
	}
	return gpu.Open()
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Torn paper reveal transition",
		Long:         `tear renders, plays and tunes a torn paper transition that sweeps a ragged tear across an image to reveal the next one.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.stillCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.paramsCommand())
	root.AddCommand(c.tuneCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.shaderCommand())

	return root
}
