package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ozonewl/dhost/internal/env"
)

// ConfigFilePath returns the file dhost reads its settings from, or would
// create one at when none exists yet.
func ConfigFilePath() (string, error) {
	path, err := configFilePath()
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute config path: %w", err)
	}
	return abs, nil
}

func configFilePath() (string, error) {
	if resolved := resolvedConfigPath(); resolved != "" {
		return resolved, nil
	}
	if env.Vars.ConfigFile != "" {
		return env.Vars.ConfigFile, nil
	}

	// Side-effect-free resolution for commands that skip Init (e.g. `dhost config path`).
	existing, found, err := firstExistingConfigPath()
	if err != nil {
		return "", err
	}
	if found {
		return existing, nil
	}

	dir, err := configCreationDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, userConfigFileName), nil
}

func ConfigDir() (string, error) {
	path, err := ConfigFilePath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

type dirs struct {
	home  string // $HOME/.config/dhost
	osDir string // os.UserConfigDir()/dhost
}

func userDirs() (dirs, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return dirs{}, fmt.Errorf("failed to get user home directory: %w", err)
	}
	osConfig, err := os.UserConfigDir()
	if err != nil {
		return dirs{}, fmt.Errorf("failed to get user config directory: %w", err)
	}
	return dirs{
		home:  filepath.Join(home, ".config", appDirName),
		osDir: filepath.Join(osConfig, appDirName),
	}, nil
}

// configSearchPaths lists candidates in priority order: project-local,
// then XDG-style home config, then the OS-specific location.
func configSearchPaths() ([]string, error) {
	d, err := userDirs()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(".", localConfigFileName),
		filepath.Join(d.home, userConfigFileName),
		filepath.Join(d.osDir, userConfigFileName),
	}, nil
}

// configCreationDir prefers $HOME/.config only when it already exists.
func configCreationDir() (string, error) {
	d, err := userDirs()
	if err != nil {
		return "", err
	}
	parent := filepath.Dir(d.home)
	info, err := os.Stat(parent)
	switch {
	case err == nil && info.IsDir():
		return d.home, nil
	case err != nil && !os.IsNotExist(err):
		return "", fmt.Errorf("failed to inspect %s: %w", parent, err)
	}
	return d.osDir, nil
}

func firstExistingConfigPath() (string, bool, error) {
	paths, err := configSearchPaths()
	if err != nil {
		return "", false, err
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		} else if !os.IsNotExist(err) {
			return "", false, fmt.Errorf("failed to inspect config path %s: %w", path, err)
		}
	}
	return "", false, nil
}
