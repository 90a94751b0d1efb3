package config

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/tendant/simple-cmis/pkg/objectstore"
	"github.com/tendant/simple-cmis/pkg/objectstore/seed"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:               "8080",
		Environment:        "development",
		RepositoryID:       uuid.NewString(),
		RootFolderName:     objectstore.DefaultRootFolderName,
		AdminUser:          objectstore.DefaultAdminUser,
		IDStart:            objectstore.DefaultIDStart,
		EnableEventLogging: true,
	}
}

// ServerConfig represents the configuration of a repository and the server exposing it
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Repository configuration
	RepositoryID   string
	RootFolderName string
	AdminUser      string
	IDStart        int64

	// SeedFile is an optional YAML tree loaded into a new store
	SeedFile string

	// Server options
	EnableEventLogging bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.Environment, validation.Required, validation.In("development", "production", "testing")),
		validation.Field(&c.RepositoryID, validation.Required),
		validation.Field(&c.RootFolderName, validation.Required, validation.By(noSeparator)),
		validation.Field(&c.AdminUser, validation.Required),
		validation.Field(&c.IDStart, validation.Min(int64(0))),
	)
}

func noSeparator(value interface{}) error {
	if s, _ := value.(string); strings.Contains(s, objectstore.PathSeparator) {
		return fmt.Errorf("must not contain %q", objectstore.PathSeparator)
	}
	return nil
}

// BuildStore creates an ObjectStore from the configuration and loads the
// seed file when one is configured.
func (c *ServerConfig) BuildStore(logger *slog.Logger) (*objectstore.ObjectStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	options := []objectstore.Option{
		objectstore.WithIDGenerator(objectstore.NewIDGenerator(c.IDStart)),
		objectstore.WithRootFolderName(c.RootFolderName),
		objectstore.WithAdminUser(c.AdminUser),
		objectstore.WithLogger(logger),
	}
	if c.EnableEventLogging {
		options = append(options, objectstore.WithEventSink(objectstore.NewLogEventSink(logger)))
	}

	store, err := objectstore.New(c.RepositoryID, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create object store: %w", err)
	}

	if c.SeedFile != "" {
		if err := seed.LoadFile(store, c.SeedFile); err != nil {
			return nil, fmt.Errorf("failed to seed repository: %w", err)
		}
		logger.Info("Repository seeded", "seed_file", c.SeedFile, "objects", store.GetObjectCount())
	}

	return store, nil
}
