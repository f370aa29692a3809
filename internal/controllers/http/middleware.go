package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"

	identityKey = "identity"
)

// Identity is the authenticated caller handed over by the identity
// collaborator. VendorID is resolved upstream and only set for vendor
// callers.
type Identity struct {
	UserID   uint
	Role     string
	VendorID uint
}

// IdentityMiddleware reads the caller identity the gateway attaches as
// headers. Requests without one are rejected before any handler runs.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.GetHeader("X-User-ID"), 10, 64)
		if err != nil || userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		role := c.GetHeader("X-User-Role")
		switch role {
		case RoleCustomer, RoleVendor, RoleAdmin:
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		ident := Identity{UserID: uint(userID), Role: role}
		if role == RoleVendor {
			vendorID, err := strconv.ParseUint(c.GetHeader("X-Vendor-ID"), 10, 64)
			if err != nil || vendorID == 0 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
				return
			}
			ident.VendorID = uint(vendorID)
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func identity(c *gin.Context) Identity {
	ident, _ := c.Get(identityKey)
	id, _ := ident.(Identity)
	return id
}
