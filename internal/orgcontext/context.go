// Package orgcontext carries the tenant organization id through request
// contexts. The surrounding auth layer is out of scope; callers supply the
// org via the X-Org-Id header or fall back to the configured default.
package orgcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type contextKey struct{}

// WithOrgID stores the organization id on the context.
func WithOrgID(ctx context.Context, orgID int64) context.Context {
	return context.WithValue(ctx, contextKey{}, orgID)
}

// OrgIDFromContext returns the organization id stored on the context.
func OrgIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	value, ok := ctx.Value(contextKey{}).(int64)
	if !ok || value == 0 {
		return 0, false
	}
	return snowflake.ID(value), true
}
