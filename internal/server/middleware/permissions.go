package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// RoleAdmin holds every permission, whatever its token lists.
const RoleAdmin = "admin"

const (
	PermGraphRefresh   = "graph.refresh"
	PermNodeAudit      = "node.audit"
	PermNodeCreate     = "node.create"
	PermNodeUpdate     = "node.update"
	PermNodeDelete     = "node.delete"
	PermLocationCreate = "location.create"
	PermLocationUpdate = "location.update"
	PermLocationDelete = "location.delete"
	PermTagCreate      = "tag.create"
	PermTagUpdate      = "tag.update"
	PermTagDelete      = "tag.delete"
	PermUploadImage    = "upload.image"
	PermTenantRead     = "tenant.read"
	PermTenantWrite    = "tenant.write"
	PermTenantAudit    = "tenant.audit"
)

var allPermissions = []string{
	PermGraphRefresh,
	PermNodeAudit,
	PermNodeCreate,
	PermNodeUpdate,
	PermNodeDelete,
	PermLocationCreate,
	PermLocationUpdate,
	PermLocationDelete,
	PermTagCreate,
	PermTagUpdate,
	PermTagDelete,
	PermUploadImage,
	PermTenantRead,
	PermTenantWrite,
	PermTenantAudit,
}

func IsAdmin(user *AppUser) bool {
	return user != nil && user.Role == RoleAdmin
}

// HasPermission reports whether user may perform permission. Admins may
// perform everything.
func HasPermission(user *AppUser, permission string) bool {
	if user == nil {
		return false
	}
	return IsAdmin(user) || slices.Contains(user.Permissions, permission)
}

func HasAnyPermission(user *AppUser, permissions ...string) bool {
	return slices.ContainsFunc(permissions, func(p string) bool {
		return HasPermission(user, p)
	})
}

func RequirePermission(permission string) echo.MiddlewareFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission lets the request through when the user holds at
// least one of permissions.
func RequireAnyPermission(permissions ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := c.(*AppContext).User
			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}

			if !HasAnyPermission(user, permissions...) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": forbiddenMessage(permissions)})
			}

			return next(c)
		}
	}
}

func forbiddenMessage(permissions []string) string {
	if len(permissions) == 1 {
		return "Forbidden: missing permission " + permissions[0]
	}
	return "Forbidden: missing required permission"
}
