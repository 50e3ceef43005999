package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pleky/nyx-gym-admin/internal/service"
	"github.com/pleky/nyx-gym-admin/pkg/logger"
	"github.com/pleky/nyx-gym-admin/prometheus"
	"go.uber.org/zap"
)

// CheckInHandler serves the attendance gate endpoints
type CheckInHandler struct {
	attendance *service.AttendanceService
}

// NewCheckInHandler creates a new check-in handler
func NewCheckInHandler(attendance *service.AttendanceService) *CheckInHandler {
	return &CheckInHandler{attendance: attendance}
}

// Create admits a member. AdmittedBy defaults to the authenticated staff's
// name claim but may be overridden with a kiosk identifier.
func (h *CheckInHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	var req struct {
		MemberID   uint   `json:"member_id"`
		AdmittedBy string `json:"admitted_by"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse check-in request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.MemberID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id is required"})
	}
	if req.AdmittedBy == "" {
		req.AdmittedBy = claims.Email
	}

	asOf, err := parseTimeParam(c, "as_of")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid as_of"})
	}

	checkIn, err := h.attendance.CheckIn(claims.GymID, req.MemberID, req.AdmittedBy, asOf)
	if err != nil {
		var ruleErr *service.BusinessRuleError
		if errors.As(err, &ruleErr) {
			prometheus.RecordCheckIn(ruleErr.Rule)
		}
		return respondError(c, err)
	}

	prometheus.RecordCheckIn("admitted")
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Check-in recorded",
		"check_in": checkIn,
	})
}

// History returns a member's check-ins
func (h *CheckInHandler) History(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	memberID, err := strconv.ParseUint(c.QueryParam("member_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id is required"})
	}

	checkIns, err := h.attendance.History(claims.GymID, uint(memberID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, checkIns)
}

// Void soft-deletes an erroneous check-in entry
func (h *CheckInHandler) Void(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check-in ID"})
	}

	if err := h.attendance.VoidEntry(claims.GymID, uint(id)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Check-in voided"})
}
