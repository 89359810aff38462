package config

import (
	"fmt"
	"path/filepath"

	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"
	"github.com/ZerkerEOD/paytypes-backend/pkg/env"
	"github.com/ZerkerEOD/paytypes-backend/pkg/fsutil"
	"github.com/joho/godotenv"
)

// EnvFilePath returns the env file for the current NODE_ENV under root,
// falling back to the production file when NODE_ENV is unset
func EnvFilePath(root string) string {
	nodeEnv := env.GetOrDefault("NODE_ENV", "production")
	return filepath.Join(root, fmt.Sprintf(".env.%s.local", nodeEnv))
}

// LoadEnvFile loads the env file for the current NODE_ENV into the process
// environment. Variables already set are kept. A missing file is not an error.
func LoadEnvFile(root string) (bool, error) {
	path := EnvFilePath(root)

	if !fsutil.FileExists(path) {
		debug.Debug("No env file at %s, using process environment", path)
		return false, nil
	}

	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("failed to load env file %s: %w", path, err)
	}

	debug.Info("Loaded environment from %s", path)
	return true, nil
}
