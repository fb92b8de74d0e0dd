package middleware

import (
	"net/http"
	"strings"

	"hotel-pms/models"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const callerKey = "caller"

// TokenVerifier turns a bearer token into the caller it identifies.
type TokenVerifier interface {
	Verify(token string) (*models.Caller, error)
}

func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "Authorization header must be: Bearer <token>", nil)
			return
		}

		caller, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("token rejected")
			utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired token", nil)
			return
		}

		c.Set(callerKey, caller)
		log := zerolog.Ctx(c.Request.Context()).With().Uint("user_id", caller.UserID).Str("role", caller.Role.String()).Logger()
		c.Request = c.Request.WithContext(log.WithContext(c.Request.Context()))
		c.Next()
	}
}

// RequireRoles lets the request through only if the caller holds one of roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
			return
		}
		if !models.HasRole(caller, roles) {
			utils.JSONError(c, http.StatusForbidden, "forbidden", "Insufficient role", map[string]interface{}{
				"required_roles": roles,
			})
			return
		}
		c.Next()
	}
}

func CallerFrom(c *gin.Context) (*models.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil, false
	}
	caller, ok := v.(*models.Caller)
	return caller, ok && caller != nil
}
