package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ailang/interpreter-go/pkg/logger"
)

const watchDebounce = 100 * time.Millisecond

func (c *cli) runCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "run [target|file|dep:file]",
		Short: "Run a program",
		Long: `Run a program with the configured execution engine.

With no argument the default target from package.yml runs, or main.ai when
there is no manifest. dep:file runs a file from an installed dependency.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to determine working directory: %w", err)
			}
			entry, err := resolveEntry(workDir, arg)
			if err != nil {
				return err
			}
			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				return c.watchEntry(ctx, entry)
			}
			return c.runEntry(cmd.Context(), entry)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-run the program whenever its file changes")
	return cmd
}

func (c *cli) runEntry(ctx context.Context, entry *entrypoint) error {
	program, err := entry.load()
	if err != nil {
		return err
	}
	return execute(ctx, c.cfg, program, c.stdin, c.stdout)
}

// watchEntry runs entry once and again after every change to its file, until
// ctx is done. Failures are reported without leaving the loop.
func (c *cli) watchEntry(ctx context.Context, entry *entrypoint) error {
	log := logger.FromContext(ctx)
	path, err := entry.path()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// editors often replace files, so watch the directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	runOnce := func() {
		if err := c.runEntry(ctx, entry); err != nil {
			fmt.Fprintln(c.stderr, c.describeError(err))
		}
		fmt.Fprintf(c.stderr, "-- watching %s (Ctrl+C to stop)\n", path)
	}
	runOnce()

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debug("change detected", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			debounce = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		case <-debounce:
			debounce = nil
			runOnce()
		}
	}
}
