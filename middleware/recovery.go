package middleware

import (
	"net/http"
	"runtime/debug"

	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				zerolog.Ctx(c.Request.Context()).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
			}
		}()
		c.Next()
	}
}
