// Package config resolves runtime settings that do not come straight from command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/keyring"
	"github.com/julianstephens/optimisable/internal/logger"
)

// APIKeyEnv is the conventional variable read when no key is configured explicitly
const APIKeyEnv = "OPENAI_API_KEY"

// Key sources reported by ResolveAPIKey
const (
	SourceFlag    = "flag"
	SourceEnv     = "env"
	SourceKeyring = "keyring"
	SourceNone    = "none"
)

// LoadDotEnv loads variables from .env files into the process environment without overriding
// variables that are already set. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load %s: %w", strings.Join(existing, ", "), err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the current user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir returns the expanded configuration directory, falling back to the default
func ConfigDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = constants.DefaultConfigDir
	}
	return ExpandHome(dir)
}

// ScenarioPath resolves the scenario file. Relative names are looked up in configDir.
func ScenarioPath(configDir, scenario string) string {
	if scenario == "" {
		scenario = constants.DefaultScenario
	}
	if filepath.IsAbs(scenario) || strings.HasPrefix(scenario, ".") {
		return scenario
	}
	if expanded, err := ExpandHome(scenario); err == nil && expanded != scenario {
		return expanded
	}
	return filepath.Join(configDir, scenario)
}

// ResolveAPIKey picks the generation API key from the explicit value, then the environment,
// then the OS keyring.
func ResolveAPIKey(explicit string) (key, source string) {
	if k := strings.TrimSpace(explicit); k != "" {
		return k, SourceFlag
	}
	if k := strings.TrimSpace(os.Getenv(APIKeyEnv)); k != "" {
		return k, SourceEnv
	}
	k, err := keyring.GetAPIKey()
	switch {
	case err == nil:
		return k, SourceKeyring
	case errors.Is(err, keyring.ErrNotFound):
	default:
		logger.Debug("keyring lookup failed", "err", err)
	}
	return "", SourceNone
}
