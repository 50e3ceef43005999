package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pleky/nyx-gym-admin/internal/service"
)

// GymHandler serves the tenant store endpoints. Staff only ever see their
// own gym; there is no cross-tenant listing surface.
type GymHandler struct {
	tenants *service.TenantService
}

// NewGymHandler creates a new gym handler
func NewGymHandler(tenants *service.TenantService) *GymHandler {
	return &GymHandler{tenants: tenants}
}

// Get returns the caller's gym
func (h *GymHandler) Get(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	gym, err := h.tenants.Get(claims.GymID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, gym)
}
