// Package auth carries the acting family member through request contexts.
package auth

import (
	"context"

	"github.com/fernwell/choreboard/internal/model"
)

type contextKey struct{}

// WithMember returns a context carrying the authenticated member.
func WithMember(ctx context.Context, m model.FamilyMember) context.Context {
	return context.WithValue(ctx, contextKey{}, m)
}

// Member extracts the authenticated member from the context.
func Member(ctx context.Context) (model.FamilyMember, bool) {
	m, ok := ctx.Value(contextKey{}).(model.FamilyMember)
	return m, ok
}

// IsParent reports whether the context's member holds the parent role.
func IsParent(ctx context.Context) bool {
	m, ok := Member(ctx)
	return ok && m.Role == model.RoleParent
}
