package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pleky/nyx-gym-admin/internal/service"
	"github.com/pleky/nyx-gym-admin/pkg/logger"
	"go.uber.org/zap"
)

// PlanHandler serves the plan catalog endpoints
type PlanHandler struct {
	plans *service.PlanService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(plans *service.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

type planRequest struct {
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	Price        int64  `json:"price"`
	Description  string `json:"description"`
}

// Create adds a plan to the gym's catalog
func (h *PlanHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	var req planRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse plan creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	plan, err := h.plans.Create(claims.GymID, service.PlanAttrs{
		Name:         req.Name,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		Description:  req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Plan created successfully",
		"plan":    plan,
	})
}

// Update edits a plan's template fields
func (h *PlanHandler) Update(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan ID"})
	}

	var req planRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	plan, err := h.plans.Update(claims.GymID, uint(id), service.PlanAttrs{
		Name:         req.Name,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		Description:  req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, plan)
}

// Deactivate hides a plan from new assignments
func (h *PlanHandler) Deactivate(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan ID"})
	}

	plan, err := h.plans.Deactivate(claims.GymID, uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, plan)
}

// Get returns a single plan
func (h *PlanHandler) Get(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan ID"})
	}

	plan, err := h.plans.Get(claims.GymID, uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, plan)
}

// List returns the gym's catalog; ?active=true restricts to assignable plans
func (h *PlanHandler) List(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	activeOnly := c.QueryParam("active") == "true"
	plans, err := h.plans.List(claims.GymID, activeOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, plans)
}
