package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/showroom/internal/auth/domain"
	obscontext "github.com/smallbiznis/showroom/internal/observability/context"
)

const contextIdentityKey = "identity"

// RequireAuth resolves the bearer token into an identity and stores it on
// the gin context and the request context.
func (s *Server) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			AbortWithError(c, authdomain.ErrMissingToken)
			return
		}

		identity, err := s.authsvc.Authenticate(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextIdentityKey, identity)
		ctx := obscontext.WithActor(c.Request.Context(), identity.UserID.String(), identity.Username, string(identity.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole must run after RequireAuth. Inactive users are rejected even
// when their role matches.
func RequireRole(roles ...authdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := identityFrom(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if identity.Status != authdomain.StatusActive {
			AbortWithError(c, authdomain.ErrInactiveUser)
			return
		}
		if !identity.Role.In(roles...) {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) (authdomain.Identity, bool) {
	v, ok := c.Get(contextIdentityKey)
	if !ok {
		return authdomain.Identity{}, false
	}
	identity, ok := v.(authdomain.Identity)
	return identity, ok
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
