package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ailang/interpreter-go/pkg/config"
	"ailang/interpreter-go/pkg/logger"
)

const cliToolVersion = "ailang-cli 0.1.0"

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configFile string
	cfg        *config.Config
	log        *zap.Logger
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	return &cli{stdin: stdin, stdout: stdout, stderr: stderr, log: zap.NewNop()}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ailang",
		Short: "Run, check and compile AI-Lang programs",
		Long: `ailang runs programs written in AI-Lang, a small keyword language with
LET, PRINT, INPUT, IF, FOR and WHILE statements.

  ailang run [target|file|dep:file]
  ailang <file.ai>`,
		Version:           cliToolVersion,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = c.log.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default: ailang.yaml in the working directory or a parent)")
	flags.String("exec-mode", config.ExecModeTreewalker, "execution engine (treewalker|compiled)")
	flags.Int64("max-steps", config.DefaultMaxSteps, "abort after this many steps (0 disables the guard)")
	flags.Duration("timeout", 0, "abort programs running longer than this (0 disables)")
	flags.Uint64("seed", 0, "seed for RND (0 picks a random seed)")
	flags.Bool("vague-errors", false, "report every failure as an unhelpful one-liner")
	flags.String("log-level", "warn", "log level (debug|info|warn|error)")
	flags.String("log-format", "auto", "log format (auto|console|json)")

	_ = root.RegisterFlagCompletionFunc("exec-mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{config.ExecModeTreewalker, config.ExecModeCompiled}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		c.runCommand(),
		c.checkCommand(),
		c.replCommand(),
		c.testCommand(),
		c.buildCommand(),
		c.depsCommand(),
		c.versionCommand(),
	)
	return root
}

// setup loads configuration and attaches a run-scoped logger to the command
// context.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
		return nil
	}
	cfg, err := config.Load(config.LoadOptions{File: c.configFile, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	c.cfg = cfg

	log, err := logger.New(c.stderr, cfg.Log)
	if err != nil {
		return err
	}
	c.log = log.With(zap.String("run_id", uuid.NewString()))
	if cfg.File != "" {
		c.log.Debug("loaded config", zap.String("path", cfg.File))
	}
	cmd.SetContext(logger.NewContextWithLogger(cmd.Context(), c.log))
	return nil
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cliToolVersion)
		},
	}
}
