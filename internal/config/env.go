package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultEnvFiles lists the .env locations consulted at startup, in priority order.
var DefaultEnvFiles = []string{filepath.Join("..", ".env"), ".env"}

// LoadEnvFile loads the first existing file from candidates into the process
// environment and returns its path. Variables already set in the environment
// are never overwritten. An empty path with a nil error means no file existed.
func LoadEnvFile(candidates ...string) (string, error) {
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("stat env file %s: %w", candidate, err)
		}
		if info.IsDir() {
			continue
		}
		if err := godotenv.Load(candidate); err != nil {
			return "", fmt.Errorf("load env file %s: %w", candidate, err)
		}
		return candidate, nil
	}
	return "", nil
}
