package shared

import "context"

type sessionContextKey struct{}

type tenantContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// TenantContext identifies the organisation and acting user behind a request.
// Every tenant-scoped query receives one explicitly; nothing reads tenancy
// from ambient state.
type TenantContext struct {
	OrgID  int64
	UserID int64
	Role   Role
}

// Valid reports whether the tenant context carries a usable organisation.
func (t TenantContext) Valid() bool {
	return t.OrgID > 0 && t.UserID > 0
}

// ContextWithTenant stores the tenant context.
func ContextWithTenant(ctx context.Context, tenant TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tenant)
}

// TenantFromContext extracts the tenant context, if any.
func TenantFromContext(ctx context.Context) (TenantContext, bool) {
	tenant, ok := ctx.Value(tenantContextKey{}).(TenantContext)
	return tenant, ok
}
