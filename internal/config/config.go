package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	// APIURL is the base URL of the fleet backend, e.g. http://localhost:8080/api/v1.
	APIURL string
	// SessionDir is where the file-backed session store lives.
	SessionDir string
	// SessionDSN, when set, switches the session store to a local sqlite database.
	SessionDSN string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

func Load() Config {
	// .env is optional for a CLI; real deployments set the environment directly.
	_ = godotenv.Load()

	apiURL := os.Getenv("FLEET_API_URL")
	if apiURL == "" {
		log.Fatalf("FLEET_API_URL is not set in environment")
	}

	sessionDir := os.Getenv("FLEET_SESSION_DIR")
	if sessionDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			log.Fatalf("Cannot resolve user config dir: %v", err)
		}
		sessionDir = filepath.Join(base, "fleetctl")
	}

	return Config{
		APIURL:     apiURL,
		SessionDir: sessionDir,
		SessionDSN: os.Getenv("FLEET_SESSION_DSN"),
		LogLevel:   os.Getenv("FLEET_LOG_LEVEL"),
	}
}
