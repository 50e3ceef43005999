package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pleky/nyx-gym-admin/internal/service"
	"github.com/pleky/nyx-gym-admin/pkg/logger"
	"go.uber.org/zap"
)

// StaffHandler serves owner-gated staff management endpoints
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// Create registers a staff account under the caller's gym
func (h *StaffHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Phone    string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse staff creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	staff, err := h.staff.Register(claims.GymID, service.StaffAttrs{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Staff created successfully",
		"staff":   staff,
	})
}

// List returns the gym's live staff accounts
func (h *StaffHandler) List(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	staff, err := h.staff.List(claims.GymID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, staff)
}

// SoftDelete tombstones a staff account; member audit references survive
func (h *StaffHandler) SoftDelete(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff ID"})
	}

	if err := h.staff.SoftDelete(claims.GymID, uint(id)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Staff deleted"})
}
