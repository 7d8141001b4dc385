package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"ailang/interpreter-go/pkg/driver"
)

const localVersion = "local"

type dependencyInstaller struct {
	manifest *driver.Manifest
	cacheDir string
	log      *zap.Logger
}

func newDependencyInstaller(manifest *driver.Manifest, cacheDir string, log *zap.Logger) *dependencyInstaller {
	return &dependencyInstaller{manifest: manifest, cacheDir: cacheDir, log: log}
}

// Install brings lock in line with the manifest. Packages named in refresh
// (all of them when refresh is empty but non-nil) are resolved again even if
// their locked copy is intact.
func (i *dependencyInstaller) Install(lock *driver.Lockfile, refresh map[string]struct{}) (bool, []string, error) {
	var logs []string
	changed := false

	names := make([]string, 0, len(i.manifest.Dependencies))
	for name := range i.manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := i.manifest.Dependencies[name]
		existing, locked := lock.Find(name)
		if locked && !i.shouldRefresh(name, refresh) && i.stillValid(existing, spec) {
			logs = append(logs, fmt.Sprintf("  %s %s (locked)", name, existing.Version))
			continue
		}

		var pkg *driver.LockedPackage
		var err error
		if spec.Path != "" {
			pkg, err = i.resolvePath(name, spec)
		} else {
			pkg, err = i.resolveGit(name, spec)
		}
		if err != nil {
			return false, logs, fmt.Errorf("dependency %q: %w", name, err)
		}
		if !locked || *existing != *pkg {
			lock.Upsert(pkg)
			changed = true
		}
		logs = append(logs, fmt.Sprintf("  %s %s (%s)", name, pkg.Version, pkg.Source))
	}

	kept := lock.Packages[:0]
	for _, pkg := range lock.Packages {
		if _, ok := i.manifest.Dependencies[pkg.Name]; ok {
			kept = append(kept, pkg)
			continue
		}
		logs = append(logs, fmt.Sprintf("  removed %s", pkg.Name))
		changed = true
	}
	lock.Packages = kept
	return changed, logs, nil
}

func (i *dependencyInstaller) shouldRefresh(name string, refresh map[string]struct{}) bool {
	if refresh == nil {
		return false
	}
	if len(refresh) == 0 {
		return true
	}
	_, ok := refresh[name]
	return ok
}

// stillValid reports whether a locked package matches the manifest entry and
// its files are still on disk unchanged. Path dependencies are always
// re-checksummed.
func (i *dependencyInstaller) stillValid(pkg *driver.LockedPackage, spec *driver.DependencySpec) bool {
	if spec.Path != "" || pkg.Source != spec.Source() {
		return false
	}
	sum, err := driver.ChecksumDir(pkg.Path)
	return err == nil && sum == pkg.Checksum
}

func (i *dependencyInstaller) resolvePath(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	dir := spec.Path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(i.manifest.Dir(), dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("path %s: %w", spec.Path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path %s is not a directory", spec.Path)
	}
	sum, err := driver.ChecksumDir(dir)
	if err != nil {
		return nil, err
	}
	return &driver.LockedPackage{
		Name:     name,
		Version:  localVersion,
		Source:   spec.Source(),
		Checksum: sum,
		Path:     dir,
	}, nil
}

func (i *dependencyInstaller) resolveGit(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	baseDir := filepath.Join(i.cacheDir, "src", driver.SanitizeName(name))
	commit, dir, err := ensureGitCheckout(baseDir, spec)
	if err != nil {
		return nil, err
	}
	i.log.Debug("git dependency checked out", zap.String("name", name), zap.String("commit", commit))
	sum, err := driver.ChecksumDir(dir)
	if err != nil {
		return nil, err
	}
	return &driver.LockedPackage{
		Name:     name,
		Version:  commit,
		Source:   spec.Source(),
		Checksum: sum,
		Path:     dir,
	}, nil
}

// ensureGitCheckout clones spec.Git and checks out the pinned revision into
// baseDir/<commit>, reusing an existing checkout of the same commit.
func ensureGitCheckout(baseDir string, spec *driver.DependencySpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}
	if rev := strings.TrimSpace(spec.Rev); rev != "" && plumbing.IsHash(rev) {
		existing := filepath.Join(baseDir, rev)
		if _, err := os.Stat(existing); err == nil {
			return rev, existing, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: spec.Git})
	if err != nil {
		cleanup()
		return "", "", fmt.Errorf("git clone %s: %w", spec.Git, err)
	}
	revision := gitRevisionFromSpec(spec)
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		cleanup()
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	commit := hash.String()
	target := filepath.Join(baseDir, commit)
	if _, err := os.Stat(target); err == nil {
		cleanup()
		return commit, target, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		cleanup()
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		cleanup()
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}
	if err := os.Rename(tmpDir, target); err != nil {
		cleanup()
		return "", "", err
	}
	return commit, target, nil
}

func gitRevisionFromSpec(spec *driver.DependencySpec) plumbing.Revision {
	switch {
	case spec.Rev != "":
		return plumbing.Revision(spec.Rev)
	case spec.Tag != "":
		return plumbing.Revision("refs/tags/" + spec.Tag)
	case spec.Branch != "":
		return plumbing.Revision("refs/remotes/origin/" + spec.Branch)
	}
	return plumbing.Revision("HEAD")
}
