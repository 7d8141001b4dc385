package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ailang/interpreter-go/pkg/driver"
)

func (c *cli) depsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Manage package dependencies",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Resolve dependencies from package.yml and write package.lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.installDeps(cmd.OutOrStdout(), nil)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "update [dependency...]",
		Short: "Re-resolve some or all dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{}
			}
			return c.installDeps(cmd.OutOrStdout(), args)
		},
	})
	return cmd
}

// installDeps resolves the manifest's dependencies. A nil update list keeps
// locked packages that are still valid; an empty one refreshes everything.
func (c *cli) installDeps(out io.Writer, update []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	manifest, err := loadManifestFrom(cwd)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	if manifest == nil {
		return fmt.Errorf("unable to locate %s from %s", driver.ManifestFileName, cwd)
	}
	cacheDir, err := c.cfg.ResolveCacheDir()
	if err != nil {
		return err
	}

	var refresh map[string]struct{}
	if update != nil {
		refresh = make(map[string]struct{}, len(update))
		for _, name := range update {
			if _, ok := manifest.Dependencies[driver.SanitizeName(name)]; !ok {
				return fmt.Errorf("dependency %q not declared in manifest", name)
			}
			refresh[driver.SanitizeName(name)] = struct{}{}
		}
	}

	_, _ = fmt.Fprintf(out, "Manifest: %s\n", manifest.Path)
	_, _ = fmt.Fprintf(out, "Dependencies: %d\n", len(manifest.Dependencies))
	_, _ = fmt.Fprintf(out, "Cache directory: %s\n", cacheDir)

	lockPath := lockfilePath(manifest)
	lock, err := driver.LoadLockfile(lockPath)
	created := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			return fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		created = true
	default:
		return fmt.Errorf("failed to read lockfile: %w", err)
	}
	lock.Tool = cliToolVersion

	installer := newDependencyInstaller(manifest, filepath.Join(cacheDir, "pkg"), c.log)
	changed, logs, err := installer.Install(lock, refresh)
	if err != nil {
		return fmt.Errorf("failed to resolve dependencies: %w", err)
	}
	for _, line := range logs {
		_, _ = fmt.Fprintln(out, line)
	}

	if !changed && !created {
		_, _ = fmt.Fprintf(out, "%s already up to date: %s\n", driver.LockfileFileName, lockPath)
		return nil
	}
	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		return err
	}
	action := "Updated"
	if created {
		action = "Created"
	}
	_, _ = fmt.Fprintf(out, "%s %s: %s\n", action, driver.LockfileFileName, lockPath)
	return nil
}
