package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/policy"
)

// UserKey is where Authenticate leaves the caller on the gin context.
const UserKey = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Authenticate resolves the bearer token to a user and stores it under UserKey.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperr.Unauthorized("Authorization header required."))
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			abort(c, apperr.Unauthorized("Invalid token."))
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			abort(c, err)
			return
		}
		if !policy.Allowed(policy.Authenticated, user) {
			abort(c, apperr.Unauthorized("You are not authorized."))
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// Identify is Authenticate for routes that also serve anonymous callers: a
// missing or unusable token leaves the request anonymous instead of failing.
func Identify(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if ok && tokenString != "" {
			if user, err := auth.Authenticate(c.Request.Context(), tokenString); err == nil && policy.Allowed(policy.Authenticated, user) {
				c.Set(UserKey, user)
			}
		}
		c.Next()
	}
}

// RequireCapability rejects callers the policy table does not allow. It must
// run after Authenticate.
func RequireCapability(capability policy.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !policy.Allowed(capability, Caller(c)) {
			abort(c, apperr.Unauthorized("You are not authorized."))
			return
		}
		c.Next()
	}
}

// Caller returns the authenticated user, or nil for anonymous callers.
func Caller(c *gin.Context) *models.User {
	u, _ := c.Get(UserKey)
	user, _ := u.(*models.User)
	return user
}
