package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pleky/nyx-gym-admin/internal/service"
	"github.com/pleky/nyx-gym-admin/pkg/jwtutil"
	"github.com/pleky/nyx-gym-admin/pkg/logger"
	"github.com/pleky/nyx-gym-admin/prometheus"
	"go.uber.org/zap"
)

// staffClaims pulls the authenticated staff claims set by the auth
// middleware. Handlers read the tenant id from here and nowhere else.
func staffClaims(c echo.Context) (*jwtutil.StaffClaims, error) {
	claims, ok := c.Get("staff").(*jwtutil.StaffClaims)
	if !ok {
		logger.FromEcho(c).Error("Failed to get staff claims from context")
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return claims, nil
}

// respondError maps the service error taxonomy to HTTP responses. Tenant
// isolation violations return a deliberately generic message so nothing
// about the foreign tenant leaks; business-rule violations carry the rule
// and the blocking row id so the UI can present an actionable message.
func respondError(c echo.Context, err error) error {
	log := logger.FromEcho(c)

	var (
		isolationErr  *service.TenantIsolationError
		ruleErr       *service.BusinessRuleError
		duplicateErr  *service.DuplicateIdentityError
		enumErr       *service.InvalidEnumError
		transitionErr *service.InvalidTransitionError
	)

	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})

	case errors.As(err, &isolationErr):
		prometheus.TenantIsolationCounter.Inc()
		log.Warn("Cross-tenant reference rejected", zap.String("entity", isolationErr.Entity))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})

	case errors.As(err, &duplicateErr):
		resp := echo.Map{
			"error": duplicateErr.Error(),
			"field": duplicateErr.Field,
		}
		if duplicateErr.RestorableID != 0 {
			resp["restorable_member_id"] = duplicateErr.RestorableID
		}
		return c.JSON(http.StatusConflict, resp)

	case errors.As(err, &ruleErr):
		resp := echo.Map{
			"error": ruleErr.Error(),
			"rule":  ruleErr.Rule,
		}
		if ruleErr.BlockingID != 0 {
			resp["blocking_id"] = ruleErr.BlockingID
		}
		return c.JSON(http.StatusConflict, resp)

	case errors.As(err, &enumErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": enumErr.Error()})

	case errors.As(err, &transitionErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": transitionErr.Error()})

	default:
		log.Error("Operation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// parseTimeParam reads an RFC3339 timestamp or plain date from a query
// parameter, defaulting to now when absent. Every time-dependent decision
// takes this explicit instant so behavior is reproducible.
func parseTimeParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
