package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/pedalworks/rentora/internal/orgcontext"
)

const orgHeader = "X-Org-Id"

// OrgRequired resolves the acting organization from the X-Org-Id header,
// falling back to the configured default org for single-tenant installs.
func (s *Server) OrgRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(orgHeader))

		var orgID int64
		if raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil {
				AbortWithError(c, newValidationError("org_id", "invalid_organization", "invalid organization id"))
				return
			}
			orgID = int64(parsed)
		} else if s.cfg.DefaultOrgID != 0 {
			orgID = s.cfg.DefaultOrgID
		} else {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), orgID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// QuoteRateLimit throttles quote traffic per organization when a redis
// limiter is configured.
func (s *Server) QuoteRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.quoteLimiter.Enabled() {
			c.Next()
			return
		}

		orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if !s.quoteLimiter.Allow(c.Request.Context(), orgID.String()) {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "pricing_quote")
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
