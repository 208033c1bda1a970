package auth

import "context"

type contextKey string

const adminNameKey contextKey = "admin_name"

// WithAdminName returns a copy of ctx carrying the administrator's name.
func WithAdminName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, adminNameKey, name)
}

// AdminName returns the administrator's name stored in ctx, or "".
func AdminName(ctx context.Context) string {
	name, _ := ctx.Value(adminNameKey).(string)
	return name
}
