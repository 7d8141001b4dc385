package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ailang/interpreter-go/pkg/driver"
)

// entrypoint is a resolved program reference plus the loader able to read it.
type entrypoint struct {
	ref      string
	loader   *driver.Loader
	manifest *driver.Manifest
}

func (e *entrypoint) load() (*driver.Program, error) {
	return e.loader.Load(e.ref)
}

// path is the file behind ref, used by watch mode.
func (e *entrypoint) path() (string, error) {
	return e.loader.Resolve(e.ref)
}

// resolveEntry maps the argument of `ailang run` onto a program. With no
// argument the manifest's default target runs, falling back to main.ai. An
// argument naming a manifest target wins over a file of the same name.
func resolveEntry(workDir, arg string) (*entrypoint, error) {
	manifest, err := loadManifestFrom(workDir)
	if err != nil {
		return nil, err
	}
	arg = strings.TrimSpace(arg)

	if arg == "" {
		if manifest == nil {
			return &entrypoint{
				ref:    driver.DefaultEntry,
				loader: driver.NewLoader(driver.LoaderOptions{BaseDir: workDir}),
			}, nil
		}
		target, err := manifest.DefaultTarget()
		if err != nil {
			return nil, err
		}
		return manifestEntry(manifest, manifest.TargetPath(target))
	}

	if manifest != nil {
		if target, ok := manifest.FindTarget(arg); ok && !looksLikePath(arg) {
			return manifestEntry(manifest, manifest.TargetPath(target))
		}
		if isDependencyRef(arg) {
			return manifestEntry(manifest, arg)
		}
	}
	if isDependencyRef(arg) {
		return nil, fmt.Errorf("%s refers to a dependency but no %s was found", arg, driver.ManifestFileName)
	}

	// a plain file picks up the manifest closest to it
	path := arg
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}
	fileManifest, err := loadManifestFrom(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if fileManifest == nil {
		return &entrypoint{ref: path, loader: driver.NewLoader(driver.LoaderOptions{BaseDir: workDir})}, nil
	}
	return manifestEntry(fileManifest, path)
}

func manifestEntry(manifest *driver.Manifest, ref string) (*entrypoint, error) {
	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		return nil, err
	}
	return &entrypoint{
		ref:      ref,
		manifest: manifest,
		loader:   driver.NewLoader(driver.LoaderOptions{BaseDir: manifest.Dir(), Lockfile: lock}),
	}, nil
}

// loadManifestFrom returns nil without error when no package.yml exists at or
// above start.
func loadManifestFrom(start string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(start)
	if err != nil || path == "" {
		return nil, err
	}
	return driver.LoadManifest(path)
}

func lockfilePath(manifest *driver.Manifest) string {
	return filepath.Join(manifest.Dir(), driver.LockfileFileName)
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	lock, err := driver.LoadLockfile(lockfilePath(manifest))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if len(manifest.Dependencies) > 0 {
				return nil, fmt.Errorf("%s missing for %q; run `ailang deps install`", driver.LockfileFileName, manifest.Name)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	return lock, nil
}

func looksLikePath(arg string) bool {
	return strings.ContainsAny(arg, `/\`) || filepath.Ext(arg) == ".ai" || strings.HasPrefix(arg, ".")
}

func isDependencyRef(arg string) bool {
	idx := strings.Index(arg, ":")
	return idx > 1 && idx < len(arg)-1 && !strings.ContainsAny(arg[:idx], `/\.`)
}
