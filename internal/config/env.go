package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// ProjectEnvFile is the project-local env file, relative to the working directory.
const ProjectEnvFile = ".env"

// LoadEnvFiles loads env files into the process environment.
// Precedence (highest first): actual environment, project (.env), global
// (~/.config/weatherbot/env). Missing files are skipped.
func LoadEnvFiles() error {
	return loadEnvFiles(ProjectEnvFile, GlobalEnvPath())
}

// loadEnvFiles loads paths in decreasing precedence. godotenv.Load never
// overwrites a key that is already set, so earlier files win.
func loadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading env file %s: %w", p, err)
		}
	}
	return nil
}

// GlobalEnvPath returns the path to the global weatherbot env file.
func GlobalEnvPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "weatherbot", "env")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "weatherbot", "env")
}
