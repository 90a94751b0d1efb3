package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cmis/pkg/objectstore/api"
	"github.com/tendant/simple-cmis/pkg/objectstore/config"
)

func TestRouter(t *testing.T) {
	cfg, err := config.Load(config.WithRepositoryID("server-test"), config.WithEventLogging(false))
	require.NoError(t, err)
	store, err := cfg.BuildStore(nil)
	require.NoError(t, err)

	router := newRouter(api.NewHandler(store, nil), time.Second)

	for _, path := range []string{"/health", "/api/v1/health", "/api/v1/stats", "/api/v1/objects/" + store.RootFolder().ID} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/objects/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewLogger(t *testing.T) {
	logger := newLogger("debug", "json")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	logger = newLogger("bogus", "text")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}
