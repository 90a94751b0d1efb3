package config

import (
	"testing"
)

func TestWithEnv(t *testing.T) {
	t.Setenv("CMIS_PORT", "9090")
	t.Setenv("CMIS_ENVIRONMENT", "testing")
	t.Setenv("CMIS_REPOSITORY_ID", "env-repo")
	t.Setenv("CMIS_ROOT_FOLDER_NAME", "Base")
	t.Setenv("CMIS_ADMIN_USER", "root")
	t.Setenv("CMIS_ID_START", "5000")
	t.Setenv("CMIS_SEED_FILE", "/tmp/seed.yaml")
	t.Setenv("CMIS_EVENT_LOGGING", "false")

	cfg, err := Load(WithEnv("CMIS_"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.Environment != "testing" {
		t.Errorf("expected environment testing, got %q", cfg.Environment)
	}
	if cfg.RepositoryID != "env-repo" {
		t.Errorf("expected repository env-repo, got %q", cfg.RepositoryID)
	}
	if cfg.RootFolderName != "Base" || cfg.AdminUser != "root" {
		t.Errorf("unexpected root folder %q and admin %q", cfg.RootFolderName, cfg.AdminUser)
	}
	if cfg.IDStart != 5000 {
		t.Errorf("expected id start 5000, got %d", cfg.IDStart)
	}
	if cfg.SeedFile != "/tmp/seed.yaml" {
		t.Errorf("expected seed file, got %q", cfg.SeedFile)
	}
	if cfg.EnableEventLogging {
		t.Error("expected event logging to be disabled")
	}
}

func TestWithEnvPrecedence(t *testing.T) {
	t.Setenv("PORT", "7070")

	// options after WithEnv win
	cfg, err := Load(WithEnv(""), WithPort("6060"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "6060" {
		t.Errorf("expected port 6060, got %q", cfg.Port)
	}
}

func TestWithEnvInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"id start not a number", "ID_START", "abc"},
		{"negative id start", "ID_START", "-5"},
		{"event logging not a bool", "EVENT_LOGGING", "sometimes"},
		{"unknown environment", "ENVIRONMENT", "staging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CMIS_"+tt.key, tt.value)
			if _, err := Load(WithEnv("CMIS_")); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
