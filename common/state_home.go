package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetDvlStateHome returns a directory path for storing dvl's own state data
// (logs, etc). If needed, it also creates the necessary directories
// according to the XDG spec. Can be overridden by setting the
// DVL_STATE_HOME environment variable.
func GetDvlStateHome() (string, error) {
	stateDir := os.Getenv("DVL_STATE_HOME")
	if stateDir != "" {
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create dvl state directory from DVL_STATE_HOME: %w", err)
		}
		return stateDir, nil
	}

	stateDir = filepath.Join(xdg.StateHome, "dvl")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create dvl state directory: %w", err)
	}
	return stateDir, nil
}

// GetDvlConfigHome returns the directory dvl reads its user config from,
// honoring the XDG base directory spec. Can be overridden by setting the
// DVL_CONFIG_HOME environment variable.
func GetDvlConfigHome() (string, error) {
	configDir := os.Getenv("DVL_CONFIG_HOME")
	if configDir != "" {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create dvl config directory from DVL_CONFIG_HOME: %w", err)
		}
		return configDir, nil
	}

	configDir = filepath.Join(xdg.ConfigHome, "dvl")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create dvl config directory: %w", err)
	}
	return configDir, nil
}
