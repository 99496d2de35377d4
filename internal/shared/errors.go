package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPermissionDenied indicates the caller lacks the required role.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrTenantMissing indicates a request reached a tenant-scoped operation
	// without an organisation in its session.
	ErrTenantMissing = errors.New("tenant missing")
)
