package config

import (
	"fmt"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithRepositoryID sets the repository identifier. Without it a random one
// is generated.
func WithRepositoryID(id string) Option {
	return func(c *ServerConfig) error {
		if id == "" {
			return fmt.Errorf("repository id cannot be empty")
		}
		c.RepositoryID = id
		return nil
	}
}

// WithRootFolderName sets the name of the root folder
func WithRootFolderName(name string) Option {
	return func(c *ServerConfig) error {
		c.RootFolderName = name
		return nil
	}
}

// WithAdminUser sets the user recorded as creator of the root folder
func WithAdminUser(user string) Option {
	return func(c *ServerConfig) error {
		c.AdminUser = user
		return nil
	}
}

// WithIDStart sets the first object identifier handed out by the store
func WithIDStart(start int64) Option {
	return func(c *ServerConfig) error {
		if start < 0 {
			return fmt.Errorf("id start must not be negative, got: %d", start)
		}
		c.IDStart = start
		return nil
	}
}

// WithSeedFile loads the given YAML tree into the store built from the config
func WithSeedFile(path string) Option {
	return func(c *ServerConfig) error {
		c.SeedFile = path
		return nil
	}
}

// WithEventLogging enables or disables logging of registry events
func WithEventLogging(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}
