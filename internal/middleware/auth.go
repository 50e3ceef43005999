package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pleky/nyx-gym-admin/internal/model"
	"github.com/pleky/nyx-gym-admin/pkg/jwtutil"
	"github.com/pleky/nyx-gym-admin/pkg/logger"
	"go.uber.org/zap"
)

// JWTAuthMiddleware creates a middleware that validates JWT tokens and
// stores the staff claims in the request context
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			// Extract the token from the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}

			// Check if the header format is valid
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header format"})
			}

			// Validate the token
			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Store the claims in the context for later use
			c.Set("staff", claims)
			log.Debug("JWT token validated",
				zap.Uint("staff_id", claims.StaffID),
				zap.Uint("gym_id", claims.GymID))

			return next(c)
		}
	}
}

// RequireOwner gates an endpoint to OWNER accounts
func RequireOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get("staff").(*jwtutil.StaffClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		if claims.Role != model.RoleOwner {
			logger.FromEcho(c).Warn("Non-owner attempted owner operation",
				zap.Uint("staff_id", claims.StaffID),
				zap.String("role", claims.Role))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "owner role required"})
		}
		return next(c)
	}
}
