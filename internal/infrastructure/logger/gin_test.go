package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func setupRouter(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware(log))
	return router
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs successful request at info", func(t *testing.T) {
		core, recorded := observer.New(zap.DebugLevel)
		router := setupRouter(zap.New(core))
		router.GET("/accounts", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/accounts?page=1", nil)
		req.Header.Set("X-Organisation-ID", "org-1")
		router.ServeHTTP(w, req)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "/accounts", fields["path"])
		assert.Equal(t, "page=1", fields["query"])
		assert.Equal(t, "org-1", fields["organisation_id"])
	})

	t.Run("logs client error at warn", func(t *testing.T) {
		core, recorded := observer.New(zap.DebugLevel)
		router := setupRouter(zap.New(core))
		router.GET("/missing", func(c *gin.Context) {
			c.Status(http.StatusNotFound)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
	})

	t.Run("logs server error at error", func(t *testing.T) {
		core, recorded := observer.New(zap.DebugLevel)
		router := setupRouter(zap.New(core))
		router.GET("/boom", func(c *gin.Context) {
			c.Status(http.StatusInternalServerError)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	})

	t.Run("stores request logger in gin context", func(t *testing.T) {
		router := setupRouter(zap.NewNop())
		var fromContext *zap.Logger
		router.GET("/ping", func(c *gin.Context) {
			fromContext = GetGinLogger(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		require.NotNil(t, fromContext)
	})
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Panic recovered", entries[0].Message)
}

func TestGetGinLoggerMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}
