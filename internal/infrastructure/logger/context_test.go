package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		log := zap.NewNop()
		ctx := WithContext(context.Background(), log)
		assert.Same(t, log, FromContext(ctx))
	})

	t.Run("returns no-op logger when absent", func(t *testing.T) {
		log := FromContext(context.Background())
		require.NotNil(t, log)
	})
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx, log := WithRequestID(context.Background(), base, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))

	log.Info("hello")
	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestWithOrganisationID(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx, log := WithOrganisationID(context.Background(), base, "org-1")

	assert.Equal(t, "org-1", GetOrganisationID(ctx))

	log.Info("hello")
	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "org-1", entries[0].ContextMap()["organisation_id"])
}

func TestWithLibraryID(t *testing.T) {
	ctx, _ := WithLibraryID(context.Background(), zap.NewNop(), "lib-1")
	assert.Equal(t, "lib-1", GetLibraryID(ctx))
}

func TestGettersOnEmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetOrganisationID(ctx))
	assert.Empty(t, GetLibraryID(ctx))
}
