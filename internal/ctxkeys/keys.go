// Package ctxkeys defines typed context keys shared between middleware and handlers.
package ctxkeys

import (
	"context"

	"github.com/google/uuid"
)

// Key is a typed string used as context key to prevent collisions.
type Key string

const (
	UserID      Key = "userID"
	Permissions Key = "permissions"
	RequestID   Key = "requestID"
)

// Permission names checked by the API.
const (
	PermissionCreate = "create"
	PermissionRead   = "read"
	PermissionUpdate = "update"
	PermissionDelete = "delete"
)

// GetUserID returns the authenticated actor, or uuid.Nil.
func GetUserID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(UserID).(uuid.UUID)
	return id
}

// HasPermission reports whether the authenticated actor holds perm.
func HasPermission(ctx context.Context, perm string) bool {
	perms, _ := ctx.Value(Permissions).([]string)
	for _, p := range perms {
		if p == perm || p == "*" {
			return true
		}
	}
	return false
}

// GetRequestID returns the request id assigned by the logging middleware.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestID).(string)
	return id
}
