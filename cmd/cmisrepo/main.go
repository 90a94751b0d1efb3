package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tendant/simple-cmis/pkg/objectstore"
	"github.com/tendant/simple-cmis/pkg/objectstore/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	_ = godotenv.Load()

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	var seedFile string
	var repositoryID string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "cmisrepo",
		Short: "Inspect CMIS object store seed files",
		Long: `cmisrepo loads a YAML seed file into an in-memory object store and
reports on the resulting repository.

Repository settings are read from CMIS_* environment variables and .env.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&seedFile, "seed", "s", "", "seed file to load")
	rootCmd.PersistentFlags().StringVarP(&repositoryID, "repository", "r", "", "repository id (default: CMIS_REPOSITORY_ID or random)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewTreeCommand())
	rootCmd.AddCommand(NewStatsCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewCheckedOutCommand())

	return rootCmd
}

// loadStore builds a store from the environment and the global flags
func loadStore(cmd *cobra.Command) (*objectstore.ObjectStore, error) {
	seedFile, _ := cmd.Flags().GetString("seed")
	repositoryID, _ := cmd.Flags().GetString("repository")
	verbose, _ := cmd.Flags().GetBool("verbose")

	opts := []config.Option{config.WithEnv("CMIS_"), config.WithEventLogging(verbose)}
	if seedFile != "" {
		opts = append(opts, config.WithSeedFile(seedFile))
	}
	if repositoryID != "" {
		opts = append(opts, config.WithRepositoryID(repositoryID))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return cfg.BuildStore(logger)
}
