package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pleky/nyx-gym-admin/internal/model"
	"github.com/pleky/nyx-gym-admin/internal/service"
	"github.com/pleky/nyx-gym-admin/pkg/logger"
	"github.com/pleky/nyx-gym-admin/prometheus"
	"go.uber.org/zap"
)

// MembershipHandler serves the lifecycle engine endpoints
type MembershipHandler struct {
	memberships *service.MembershipService
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(memberships *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{memberships: memberships}
}

// Assign creates a membership for a member and plan of the caller's gym
func (h *MembershipHandler) Assign(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	var req struct {
		MemberID  uint   `json:"member_id"`
		PlanID    uint   `json:"plan_id"`
		StartDate string `json:"start_date"`
		AutoRenew bool   `json:"auto_renew"`
		Force     bool   `json:"force"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse assignment request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.MemberID == 0 || req.PlanID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id and plan_id are required"})
	}

	start := time.Now().UTC()
	if req.StartDate != "" {
		start, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
		}
	}

	membership, err := h.memberships.Assign(claims.GymID, service.AssignInput{
		MemberID:  req.MemberID,
		PlanID:    req.PlanID,
		StartDate: start,
		AutoRenew: req.AutoRenew,
		Force:     req.Force,
	})
	if err != nil {
		return respondError(c, err)
	}

	prometheus.MembershipTransitionCounter.WithLabelValues(model.MembershipStatusActive).Inc()
	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Membership assigned successfully",
		"membership": membership,
	})
}

// Renew extends a membership and returns it to ACTIVE
func (h *MembershipHandler) Renew(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid membership ID"})
	}

	asOf, err := parseTimeParam(c, "as_of")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid as_of"})
	}

	membership, err := h.memberships.Renew(claims.GymID, uint(id), asOf)
	if err != nil {
		return respondError(c, err)
	}

	prometheus.MembershipTransitionCounter.WithLabelValues(model.MembershipStatusActive).Inc()
	return c.JSON(http.StatusOK, membership)
}

// Cancel moves a membership to CANCELLED
func (h *MembershipHandler) Cancel(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid membership ID"})
	}

	membership, err := h.memberships.Cancel(claims.GymID, uint(id))
	if err != nil {
		return respondError(c, err)
	}

	prometheus.MembershipTransitionCounter.WithLabelValues(model.MembershipStatusCancelled).Inc()
	return c.JSON(http.StatusOK, membership)
}

// Sweep runs the status recomputation for the caller's gym as of a given
// instant. Schedulers normally run the CLI variant; this endpoint serves
// ad-hoc invocations from the back office.
func (h *MembershipHandler) Sweep(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	asOf, err := parseTimeParam(c, "as_of")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid as_of"})
	}

	start := time.Now()
	transitioned, err := h.memberships.RecomputeStatuses(claims.GymID, asOf)
	if err != nil {
		return respondError(c, err)
	}
	prometheus.RecordSweep(transitioned, time.Since(start))

	return c.JSON(http.StatusOK, echo.Map{
		"as_of":        asOf,
		"transitioned": transitioned,
	})
}

// Access reports whether a member may enter the gym as of a given instant
func (h *MembershipHandler) Access(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	memberID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid member ID"})
	}

	asOf, err := parseTimeParam(c, "as_of")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid as_of"})
	}

	ok, err := h.memberships.HasGymAccess(claims.GymID, uint(memberID), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"member_id": memberID, "as_of": asOf, "has_access": ok})
}

// ListByMember returns a member's memberships
func (h *MembershipHandler) ListByMember(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	memberID, err := strconv.ParseUint(c.QueryParam("member_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id is required"})
	}

	memberships, err := h.memberships.ListByMember(claims.GymID, uint(memberID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, memberships)
}
