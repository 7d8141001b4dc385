package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockfileFileName)
	lock := NewLockfile("Demo App", "ailang test")
	lock.Upsert(&LockedPackage{Name: "zeta", Version: "local", Source: "path+../zeta", Checksum: "sha256:aa", Path: "/cache/zeta"})
	lock.Upsert(&LockedPackage{Name: "Alpha", Version: "0123abcd", Source: "git+https://example.com/a.git", Checksum: "sha256:bb", Path: "/cache/alpha"})
	lock.Upsert(&LockedPackage{Name: "zeta", Version: "local", Source: "path+../zeta", Checksum: "sha256:cc", Path: "/cache/zeta"})
	require.NoError(t, WriteLockfile(lock, path))

	loaded, err := LoadLockfile(path)
	require.NoError(t, err)
	assert.Equal(t, "demo_app", loaded.Root)
	assert.Equal(t, "ailang test", loaded.Tool)
	require.Len(t, loaded.Packages, 2)
	assert.Equal(t, "alpha", loaded.Packages[0].Name)
	assert.Equal(t, "zeta", loaded.Packages[1].Name)
	assert.Equal(t, "sha256:cc", loaded.Packages[1].Checksum)

	pkg, ok := loaded.Find("ALPHA")
	require.True(t, ok)
	assert.Equal(t, "/cache/alpha", pkg.Path)
}

func TestLoadLockfileRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), LockfileFileName), "root: x\nextra: 1\n")
	_, err := LoadLockfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lockfile: parse")
}

func TestWriteLockfileNeedsPath(t *testing.T) {
	require.EqualError(t, WriteLockfile(nil, "x"), "lockfile: nil lockfile")
	require.EqualError(t, WriteLockfile(&Lockfile{}, ""), "lockfile: missing path")
}

func TestChecksumDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ai"), "PRINT 1\n")
	writeFile(t, filepath.Join(dir, "nested", "b.ai"), "PRINT 2\n")
	writeFile(t, filepath.Join(dir, "README.md"), "ignored")

	first, err := ChecksumDir(dir)
	require.NoError(t, err)
	assert.Regexp(t, `^sha256:[0-9a-f]{64}$`, first)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed"), 0o600))
	second, err := ChecksumDir(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ai"), []byte("PRINT 3\n"), 0o600))
	third, err := ChecksumDir(dir)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}
