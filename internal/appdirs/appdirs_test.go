package appdirs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePortable(t *testing.T) {
	paths, err := resolve(osHooks{
		goos:       "linux",
		getenv:     func(string) string { return "1" },
		executable: func() (string, error) { return filepath.Join("opt", "tubebite", "server"), nil },
	})
	require.NoError(t, err)

	assert.True(t, paths.Portable)
	data := filepath.Join("opt", "tubebite", "data")
	assert.Equal(t, filepath.Join(data, "config", "config.toml"), paths.ConfigFile)
	assert.Equal(t, filepath.Join(data, "logs"), paths.LogDir)
	assert.Equal(t, filepath.Join(data, "output"), paths.OutputDir)
	assert.Equal(t, filepath.Join(data, "cache"), paths.CacheDir)
}

func TestResolveWindows(t *testing.T) {
	paths, err := resolve(osHooks{
		goos:          "windows",
		getenv:        func(string) string { return "" },
		userConfigDir: func() (string, error) { return filepath.Join("C:", "Users", "u", "AppData", "Roaming"), nil },
		userCacheDir:  func() (string, error) { return filepath.Join("C:", "Users", "u", "AppData", "Local"), nil },
	})
	require.NoError(t, err)

	assert.False(t, paths.Portable)
	assert.Contains(t, paths.ConfigDir, "TubeBite")
	assert.Contains(t, paths.LogDir, "logs")
}

func TestResolveWindowsEmptyConfigDir(t *testing.T) {
	_, err := resolve(osHooks{
		goos:          "windows",
		getenv:        func(string) string { return "" },
		userConfigDir: func() (string, error) { return "  ", nil },
		userCacheDir:  func() (string, error) { return "cache", nil },
	})
	assert.Error(t, err)
}

func TestResolveDefault(t *testing.T) {
	paths, err := resolve(osHooks{
		goos:   "linux",
		getenv: func(string) string { return "" },
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("config", "config.toml"), paths.ConfigFile)
	assert.Equal(t, "output", paths.OutputDir)
}

func TestRuntimePaths(t *testing.T) {
	paths := Paths{OutputDir: "out", CacheDir: "cache"}

	assert.Equal(t, filepath.Join("cache", "jobs", "job-1"), JobDirFor(paths, "job-1"))
	assert.Equal(t, filepath.Join("out", "uploads"), UploadRootFor(paths))
	assert.Equal(t, "out", OutputRootFor(paths))
	assert.Equal(t, filepath.Join("cache", "tubebite.db"), DBPathFor(paths))
}

func TestRuntimePathsEmptyDirsFallBackToCwd(t *testing.T) {
	paths := Paths{}

	assert.Equal(t, filepath.Join("jobs"), JobRootFor(paths))
	assert.Equal(t, filepath.Join("uploads"), UploadRootFor(paths))
}

func TestPortableFlagParsing(t *testing.T) {
	assert.True(t, portable("1"))
	assert.True(t, portable(" TRUE "))
	assert.False(t, portable("0"))
	assert.False(t, portable(""))
}
