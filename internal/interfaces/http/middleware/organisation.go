package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys and headers for organisation scoping
const (
	OrganisationIDKey     = "organisation_id"
	LibraryIDKey          = "library_id"
	OrganisationHeaderKey = "X-Organisation-ID"
	LibraryHeaderKey      = "X-Library-ID"
)

// OrganisationConfig holds configuration for the organisation middleware
type OrganisationConfig struct {
	// SkipPaths are paths served without organisation context
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultOrganisationConfig returns the default organisation middleware
// configuration
func DefaultOrganisationConfig() OrganisationConfig {
	return OrganisationConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready"},
	}
}

// Organisation extracts the acting organisation and library from request
// headers. Every acquisition route is scoped to an organisation, so requests
// without a valid X-Organisation-ID header are rejected. The library header
// is optional; reading endpoints work organisation-wide.
func Organisation() gin.HandlerFunc {
	return OrganisationWithConfig(DefaultOrganisationConfig())
}

// OrganisationWithConfig returns organisation middleware with custom
// configuration
func OrganisationWithConfig(cfg OrganisationConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		raw := c.GetHeader(OrganisationHeaderKey)
		if raw == "" {
			abortOrganisation(c, cfg.Logger, "missing "+OrganisationHeaderKey+" header")
			return
		}

		organisationID, err := uuid.Parse(raw)
		if err != nil {
			abortOrganisation(c, cfg.Logger, "malformed "+OrganisationHeaderKey+" header")
			return
		}
		c.Set(OrganisationIDKey, organisationID)

		if rawLibrary := c.GetHeader(LibraryHeaderKey); rawLibrary != "" {
			libraryID, err := uuid.Parse(rawLibrary)
			if err != nil {
				abortOrganisation(c, cfg.Logger, "malformed "+LibraryHeaderKey+" header")
				return
			}
			c.Set(LibraryIDKey, libraryID)
		}

		c.Next()
	}
}

func abortOrganisation(c *gin.Context, logger *zap.Logger, reason string) {
	if logger != nil {
		logger.Warn("organisation scoping failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("reason", reason),
		)
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_BAD_REQUEST",
			"message": reason,
		},
	})
}

// GetOrganisationID returns the organisation extracted by the middleware
func GetOrganisationID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(OrganisationIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// GetLibraryID returns the library extracted by the middleware, if any
func GetLibraryID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(LibraryIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
