package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads env files (default ".env") into the process environment.
// Variables that are already set win. Missing files are skipped; a file that
// exists but does not parse is an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}
