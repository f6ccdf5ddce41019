// Package config loads process settings from an optional .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// StorageKind selects the key-value backend that holds the profile.
type StorageKind string

const (
	StorageMemory    StorageKind = "memory"
	StorageFile      StorageKind = "file"
	StorageFirestore StorageKind = "firestore"
)

const (
	defaultHost     = "127.0.0.1"
	defaultPort     = "8080"
	defaultDataFile = "fistfuel.json"
	defaultLogLevel = "info"
)

// Config holds settings for the local view adapter and its storage.
type Config struct {
	Host           string
	Port           string
	Storage        StorageKind
	DataFile       string
	LogLevel       string
	AllowedOrigins []string

	FirebaseProjectID            string
	GoogleApplicationCredentials string
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Load reads envFiles (".env" when none are given) if they exist, then the
// environment. A missing file is not an error; real environment variables
// always win over file values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		Host:                         getenv("HOST", defaultHost),
		Port:                         getenv("PORT", defaultPort),
		Storage:                      StorageKind(strings.ToLower(getenv("FISTFUEL_STORAGE", string(StorageFile)))),
		DataFile:                     getenv("FISTFUEL_DATA_FILE", defaultDataFile),
		LogLevel:                     getenv("LOG_LEVEL", defaultLogLevel),
		AllowedOrigins:               splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		FirebaseProjectID:            os.Getenv("FIREBASE_PROJECT_ID"),
		GoogleApplicationCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageFile:
	case StorageFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("config: FIREBASE_PROJECT_ID is required for firestore storage")
		}
	default:
		return fmt.Errorf("config: unknown FISTFUEL_STORAGE %q", c.Storage)
	}
	if c.Storage == StorageFile && c.DataFile == "" {
		return errors.New("config: FISTFUEL_DATA_FILE must not be empty")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
