package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/domain/principal"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/auth"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

const (
	GinContextKeyPrincipalID = "principalID"
)

// AuthMiddleware validates the bearer token and attaches the principal to the
// request context, where use cases look for it.
func AuthMiddleware(jwtSvc *auth.JWTService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Error(apperror.NewUnauthorized("Authorization header is required", nil))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.Error(apperror.NewUnauthorized("Invalid token format", nil))
			c.Abort()
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			log.Debug("Rejected bearer token", zap.Error(err))
			c.Error(apperror.NewUnauthorized("Invalid or expired token", err))
			c.Abort()
			return
		}

		c.Set(GinContextKeyPrincipalID, claims.PrincipalID)
		ctx := principal.WithPrincipal(c.Request.Context(), principal.Principal{ID: claims.PrincipalID})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func GetPrincipalIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(GinContextKeyPrincipalID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// ErrorMiddleware renders the last error a handler attached with c.Error.
// Not-found and forbidden share one response so slugs cannot be enumerated.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.ToVisibleHTTPStatus(err)

		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err,
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()))
		}

		if apperror.IsHidden(err) {
			c.JSON(status, gin.H{"error": string(apperror.KindNotFound), "message": "Not found"})
			return
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(status, appErr.ToJSON())
			return
		}
		c.JSON(status, gin.H{"error": string(apperror.KindUnknown), "message": "An internal server error occurred"})
	}
}
