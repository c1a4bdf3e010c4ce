package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables overriding the default locations.
const (
	EnvConfigPath = "CRONBA_CONFIG_PATH"
	EnvHome       = "CRONBA_HOME"
)

// Paths locates the config file and the data directory that holds the logs.
type Paths struct {
	ConfigFile string
	Home       string
}

// DefaultPaths resolves Paths from the environment, falling back to
// ~/.config/cronba.toml and ~/.local/share/cronba. The home directory is
// only looked up when a variable is unset.
func DefaultPaths() (Paths, error) {
	p := Paths{
		ConfigFile: os.Getenv(EnvConfigPath),
		Home:       os.Getenv(EnvHome),
	}
	if p.ConfigFile != "" && p.Home != "" {
		return p, nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	if p.ConfigFile == "" {
		p.ConfigFile = filepath.Join(userHome, ".config", "cronba.toml")
	}
	if p.Home == "" {
		p.Home = filepath.Join(userHome, ".local", "share", "cronba")
	}
	return p, nil
}

// WithConfigFile returns p with the config file replaced by path, unless path is empty.
func (p Paths) WithConfigFile(path string) Paths {
	if path != "" {
		p.ConfigFile = path
	}
	return p
}

// LogDir returns the default log directory under Home.
func (p Paths) LogDir() string {
	return filepath.Join(p.Home, "log")
}
