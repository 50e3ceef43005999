package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pleky/nyx-gym-admin/internal/service"
)

// ReportHandler serves the read-only reporting projections
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// period reads from/to query parameters, defaulting to the last 30 days
func period(c echo.Context) (time.Time, time.Time, error) {
	to, err := parseTimeParam(c, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, err := parseTimeParam(c, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if c.QueryParam("from") == "" {
		from = to.AddDate(0, 0, -30)
	}
	return from, to, nil
}

// Revenue returns PAID payment totals by purpose over a period
func (h *ReportHandler) Revenue(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	from, to, err := period(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid period"})
	}

	report, err := h.reports.Revenue(claims.GymID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// Attendance returns visit counts over a period
func (h *ReportHandler) Attendance(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	from, to, err := period(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid period"})
	}

	report, err := h.reports.Attendance(claims.GymID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// Churn returns member join/delete counts over a period
func (h *ReportHandler) Churn(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	from, to, err := period(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid period"})
	}

	report, err := h.reports.Churn(claims.GymID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// ExpiringMemberships returns the renewal worklist
func (h *ReportHandler) ExpiringMemberships(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	asOf, err := parseTimeParam(c, "as_of")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid as_of"})
	}

	withinDays := 7
	if raw := c.QueryParam("within_days"); raw != "" {
		withinDays, err = strconv.Atoi(raw)
		if err != nil || withinDays <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid within_days"})
		}
	}

	memberships, err := h.reports.ExpiringMemberships(claims.GymID, asOf, withinDays)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, memberships)
}
