package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pleky/nyx-gym-admin/internal/service"
	"github.com/pleky/nyx-gym-admin/pkg/logger"
	"github.com/pleky/nyx-gym-admin/prometheus"
	"go.uber.org/zap"
)

// MemberHandler serves the member registry endpoints
type MemberHandler struct {
	members *service.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// Create registers a new member under the caller's gym
func (h *MemberHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	var req struct {
		Name        string `json:"name"`
		Phone       string `json:"phone"`
		Email       string `json:"email"`
		Gender      string `json:"gender"`
		DateOfBirth string `json:"date_of_birth"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse member creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and phone are required"})
	}

	attrs := service.MemberAttrs{
		Name:   req.Name,
		Phone:  req.Phone,
		Email:  req.Email,
		Gender: req.Gender,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date_of_birth"})
		}
		attrs.DateOfBirth = &dob
	}

	member, err := h.members.Create(claims.GymID, claims.StaffID, attrs)
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordMemberOperation("create")
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Member created successfully",
		"member":  member,
	})
}

// RestoreCheck probes a phone number before creation so the UI can offer a
// restore instead of creating a duplicate identity
func (h *MemberHandler) RestoreCheck(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	phone := c.QueryParam("phone")
	if phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone is required"})
	}

	check, err := h.members.FindOrOfferRestore(claims.GymID, phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, check)
}

// Get returns a single member
func (h *MemberHandler) Get(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid member ID"})
	}

	member, err := h.members.Get(claims.GymID, uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, member)
}

// List returns the gym's live members
func (h *MemberHandler) List(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	members, err := h.members.List(claims.GymID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, members)
}

// UpdateStatus flips a member between ACTIVE and INACTIVE
func (h *MemberHandler) UpdateStatus(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid member ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	member, err := h.members.UpdateStatus(claims.GymID, uint(id), req.Status)
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordMemberOperation("update")
	return c.JSON(http.StatusOK, member)
}

// SoftDelete tombstones a member
func (h *MemberHandler) SoftDelete(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid member ID"})
	}

	if err := h.members.SoftDelete(claims.GymID, uint(id)); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordMemberOperation("soft_delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Member deleted"})
}

// Restore clears a member's tombstone
func (h *MemberHandler) Restore(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid member ID"})
	}

	member, err := h.members.Restore(claims.GymID, uint(id))
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordMemberOperation("restore")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Member restored",
		"member":  member,
	})
}
