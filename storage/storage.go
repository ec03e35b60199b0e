package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	HomeEnv = "CIRCLE_ROUTE_HOME"

	stateFile  = "state.db"
	sourceFile = "source.json"
	layoutFile = "layout.yaml"
	configFile = "config.json"
)

// ConfigDir is ~/.config/circle-route unless CIRCLE_ROUTE_HOME is set.
func ConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "circle-route"), nil
}

func StatePath() (string, error)  { return configPath(stateFile) }
func SourcePath() (string, error) { return configPath(sourceFile) }
func LayoutPath() (string, error) { return configPath(layoutFile) }
func ConfigPath() (string, error) { return configPath(configFile) }

func configPath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func ensureConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// readOptional returns the file content, or ok=false when it does not exist.
func readOptional(path, what string) ([]byte, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if info.IsDir() {
		return nil, false, fmt.Errorf("%s path is a directory: %s", what, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
