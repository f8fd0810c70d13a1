package appdirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	PortableEnv = "TUBEBITE_PORTABLE"

	appName        = "TubeBite"
	configFileName = "config.toml"
)

// Paths groups every directory the application writes to. The layout depends
// on the platform and on whether portable mode is enabled.
type Paths struct {
	Portable   bool
	ConfigDir  string
	ConfigFile string
	LogDir     string
	OutputDir  string
	CacheDir   string
}

// osHooks lets tests substitute the environment and the stdlib dir lookups.
type osHooks struct {
	goos          string
	getenv        func(string) string
	executable    func() (string, error)
	userConfigDir func() (string, error)
	userCacheDir  func() (string, error)
}

func defaultHooks() osHooks {
	return osHooks{
		goos:          runtime.GOOS,
		getenv:        os.Getenv,
		executable:    os.Executable,
		userConfigDir: os.UserConfigDir,
		userCacheDir:  os.UserCacheDir,
	}
}

func (h osHooks) filled() osHooks {
	d := defaultHooks()
	if h.goos == "" {
		h.goos = d.goos
	}
	if h.getenv == nil {
		h.getenv = d.getenv
	}
	if h.executable == nil {
		h.executable = d.executable
	}
	if h.userConfigDir == nil {
		h.userConfigDir = d.userConfigDir
	}
	if h.userCacheDir == nil {
		h.userCacheDir = d.userCacheDir
	}
	return h
}

// Resolve picks the directory layout for the current platform. Portable mode
// (TUBEBITE_PORTABLE=1) keeps everything next to the executable, which is how
// the server is shipped in the zip distribution.
func Resolve() (Paths, error) {
	return resolve(defaultHooks())
}

func resolve(raw osHooks) (Paths, error) {
	h := raw.filled()

	if portable(h.getenv(PortableEnv)) {
		exe, err := h.executable()
		if err != nil {
			return Paths{}, err
		}
		return portableLayout(filepath.Dir(exe)), nil
	}

	if h.goos == "windows" {
		return windowsLayout(h)
	}

	// On Linux and macOS the server is expected to run from its own
	// working directory, typically inside a container.
	return Paths{
		ConfigDir:  "config",
		ConfigFile: filepath.Join("config", configFileName),
		LogDir:     ".",
		OutputDir:  "output",
		CacheDir:   "cache",
	}, nil
}

func portableLayout(exeDir string) Paths {
	data := filepath.Join(exeDir, "data")
	cfg := filepath.Join(data, "config")
	return Paths{
		Portable:   true,
		ConfigDir:  cfg,
		ConfigFile: filepath.Join(cfg, configFileName),
		LogDir:     filepath.Join(data, "logs"),
		OutputDir:  filepath.Join(data, "output"),
		CacheDir:   filepath.Join(data, "cache"),
	}
}

func windowsLayout(h osHooks) (Paths, error) {
	cfgRoot, err := h.userConfigDir()
	if err != nil {
		return Paths{}, err
	}
	if strings.TrimSpace(cfgRoot) == "" {
		return Paths{}, errors.New("user config dir is empty")
	}
	cacheRoot, err := h.userCacheDir()
	if err != nil {
		return Paths{}, err
	}
	if strings.TrimSpace(cacheRoot) == "" {
		return Paths{}, errors.New("user cache dir is empty")
	}

	cfg := filepath.Join(cfgRoot, appName)
	base := filepath.Join(cacheRoot, appName)
	return Paths{
		ConfigDir:  cfg,
		ConfigFile: filepath.Join(cfg, configFileName),
		LogDir:     filepath.Join(base, "logs"),
		OutputDir:  filepath.Join(base, "output"),
		CacheDir:   filepath.Join(base, "cache"),
	}, nil
}

func portable(value string) bool {
	v := strings.TrimSpace(strings.ToLower(value))
	return v == "1" || v == "true"
}
