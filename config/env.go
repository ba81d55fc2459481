// Package config resolves unitx settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvToken holds the bearer token.
	EnvToken = "UNIT_TOKEN"
	// EnvAPIURL holds the API base URL.
	EnvAPIURL = "UNIT_API_URL"

	// DefaultAPIURL is the Unit sandbox.
	DefaultAPIURL = "https://api.s.unit.sh"

	maxParentLevels = 6
)

// ErrNoToken is returned by FromEnv when UNIT_TOKEN is unset.
var ErrNoToken = errors.New(EnvToken + " is not set")

// Settings are the values a client needs.
type Settings struct {
	Token  string
	APIURL string
}

// FromEnv reads UNIT_TOKEN and UNIT_API_URL. The URL falls back to the
// sandbox; a missing token is an error.
func FromEnv() (Settings, error) {
	s := Settings{
		Token:  strings.TrimSpace(os.Getenv(EnvToken)),
		APIURL: strings.TrimSpace(GetEnv(EnvAPIURL, DefaultAPIURL)),
	}
	if s.Token == "" {
		return s, ErrNoToken
	}
	return s, nil
}

// LoadDotEnv loads variables from a .env file if present. With no paths it
// tries the working directory, then walks up to the project root (the first
// directory holding go.mod). Variables already set are never overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) > 0 {
		return godotenv.Load(paths...)
	}
	// try CWD first
	if err := godotenv.Load(); err == nil {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getwd: %w", err)
	}
	dir := wd
	for range maxParentLevels {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}
		if fileExists(filepath.Join(dir, "go.mod")) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return os.ErrNotExist
}

// FindProjectRoot walks up from start until it finds a directory holding go.mod.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod above %s", start)
		}
		dir = parent
	}
}

// GetEnv returns the environment variable value if set, or the default.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
