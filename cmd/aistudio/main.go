// Command aistudio runs the AI Studio tools from the command line or serves
// them over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/leofalp/aistudio/internal/app"
	"github.com/leofalp/aistudio/internal/config"
)

// cli carries global flag values and lazily built dependencies shared by
// subcommands.
type cli struct {
	configPath string
	verbose    bool

	stdout io.Writer
	stderr io.Writer

	cfg    config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "aistudio",
		Short: "A multi-tool front end for Gemini",
		Long: `aistudio exposes 21 small generation tools (palettes, trip plans, quizzes,
code snippets and more) backed by the Gemini API.

Set GEMINI_API_KEY (or API_KEY) in the environment or a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd.Name())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging, including prompts and replies")

	root.AddCommand(
		c.newServeCmd(),
		c.newListCmd(),
		c.newRunCmd(),
		c.newBatchCmd(),
		c.newHistoryCmd(),
	)
	return root
}

// init loads the configuration for the named subcommand. Commands that record
// or read runs exit after one invocation, so their history has to outlive the
// process.
func (c *cli) init(command string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	switch command {
	case "run", "batch", "history":
		if cfg.History, err = cfg.History.Resolve(true); err != nil {
			return err
		}
	}
	if c.verbose {
		cfg.Log.Level = "debug"
		cfg.Log.LLM = "verbose"
	}
	c.cfg = cfg
	c.logger = cfg.Log.NewLogger(c.stderr)
	slog.SetDefault(c.logger)
	return nil
}

func (c *cli) runner(ctx context.Context) (*app.Runner, error) {
	return app.New(ctx, c.cfg, c.logger)
}
