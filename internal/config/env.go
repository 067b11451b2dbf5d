package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/griddle/internal/logfields"
)

// envFiles are read in order; a variable set by an earlier file, or already
// present in the process environment, is never overwritten.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles(dir string) error {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return err
		}
		slog.Debug("Loaded environment variables", logfields.File(path))
	}
	return nil
}
