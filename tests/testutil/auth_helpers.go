package testutil

import (
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/sellport/sellport-api/middleware"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, role, username string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			UserMetadata: middleware.UserMetadata{
				Role:     role,
				Username: username,
			},
		},
	}
}

// MockAuthMiddleware returns a gin middleware that injects an authenticated
// context the same way the real JWT middleware does
func MockAuthMiddleware(authID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", authID)
		c.Set("validated_claims", MockValidatedClaims(authID, role, ""))
		c.Next()
	}
}
