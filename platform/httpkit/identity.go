package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity carries the authenticated caller extracted from the request
// context by the auth middleware.
type Identity struct {
	UserID        uuid.UUID
	Roles         []string
	Authenticated bool
}

// HasRole reports whether the caller carries the given role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GetIdentity extracts the caller identity from a gin context. Requests that
// did not pass the auth middleware yield an unauthenticated identity.
func GetIdentity(c *gin.Context) Identity {
	raw, ok := c.Get(ContextUserIDKey)
	if !ok {
		return Identity{}
	}
	uid, ok := raw.(uuid.UUID)
	if !ok {
		return Identity{}
	}

	var roles []string
	if rawRoles, ok := c.Get(ContextRolesKey); ok {
		roles, _ = rawRoles.([]string)
	}

	return Identity{UserID: uid, Roles: roles, Authenticated: true}
}

// MustGetIdentity extracts the caller identity and aborts with 401 when the
// request is unauthenticated. Callers must return when ok is false.
func MustGetIdentity(c *gin.Context) (Identity, bool) {
	id := GetIdentity(c)
	if !id.Authenticated {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return Identity{}, false
	}
	return id, true
}
