package config

import (
	"fmt"
	"os"
	"strconv"
)

// WithEnv applies environment variable overrides using the provided prefix.
//
//	PORT             - Server port (default: "8080")
//	ENVIRONMENT      - Runtime environment (default: "development")
//	REPOSITORY_ID    - Repository identifier (default: random UUID)
//	ROOT_FOLDER_NAME - Name of the root folder (default: "RootFolder")
//	ADMIN_USER       - Creator of the root folder (default: "Admin")
//	ID_START         - First object identifier (default: 100)
//	SEED_FILE        - YAML tree loaded at startup
//	EVENT_LOGGING    - Log registry events (default: true)
func WithEnv(prefix string) Option {
	return func(c *ServerConfig) error {
		if v, ok := lookupEnv(prefix, "PORT"); ok && v != "" {
			c.Port = v
		}
		if v, ok := lookupEnv(prefix, "ENVIRONMENT"); ok && v != "" {
			c.Environment = v
		}
		if v, ok := lookupEnv(prefix, "REPOSITORY_ID"); ok && v != "" {
			c.RepositoryID = v
		}
		if v, ok := lookupEnv(prefix, "ROOT_FOLDER_NAME"); ok && v != "" {
			c.RootFolderName = v
		}
		if v, ok := lookupEnv(prefix, "ADMIN_USER"); ok && v != "" {
			c.AdminUser = v
		}
		if v, ok := lookupEnv(prefix, "SEED_FILE"); ok {
			c.SeedFile = v
		}

		start, ok, err := parseInt64Env(prefix, "ID_START")
		if err != nil {
			return err
		}
		if ok {
			c.IDStart = start
		}

		logging, ok, err := parseBoolEnv(prefix, "EVENT_LOGGING")
		if err != nil {
			return err
		}
		if ok {
			c.EnableEventLogging = logging
		}

		return nil
	}
}

func lookupEnv(prefix, key string) (string, bool) {
	return os.LookupEnv(prefix + key)
}

func parseBoolEnv(prefix, key string) (bool, bool, error) {
	raw, ok := lookupEnv(prefix, key)
	if !ok || raw == "" {
		return false, false, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, fmt.Errorf("invalid boolean for %s%s: %w", prefix, key, err)
	}
	return parsed, true, nil
}

func parseInt64Env(prefix, key string) (int64, bool, error) {
	raw, ok := lookupEnv(prefix, key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid integer for %s%s: %w", prefix, key, err)
	}
	return parsed, true, nil
}
