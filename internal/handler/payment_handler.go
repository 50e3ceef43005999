package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pleky/nyx-gym-admin/internal/service"
	"github.com/pleky/nyx-gym-admin/pkg/logger"
	"github.com/pleky/nyx-gym-admin/prometheus"
	"go.uber.org/zap"
)

// PaymentHandler serves the ledger endpoints
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Create records a payment
func (h *PaymentHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	var req struct {
		MemberID     uint   `json:"member_id"`
		MembershipID *uint  `json:"membership_id"`
		Amount       int64  `json:"amount"`
		Purpose      string `json:"purpose"`
		Method       string `json:"method"`
		Status       string `json:"status"`
		Notes        string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse payment request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.MemberID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id is required"})
	}

	payment, err := h.payments.Record(claims.GymID, service.PaymentAttrs{
		MemberID:     req.MemberID,
		MembershipID: req.MembershipID,
		Amount:       req.Amount,
		Purpose:      req.Purpose,
		Method:       req.Method,
		Status:       req.Status,
		Notes:        req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordPayment(payment.Purpose, payment.Amount)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Payment recorded",
		"payment": payment,
	})
}

// TransitionStatus moves a payment along its allowed status transitions
func (h *PaymentHandler) TransitionStatus(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	payment, err := h.payments.TransitionStatus(claims.GymID, uint(id), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

// Get returns a single payment
func (h *PaymentHandler) Get(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment ID"})
	}

	payment, err := h.payments.Get(claims.GymID, uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

// ListByMember returns a member's payments, tombstoned members included
func (h *PaymentHandler) ListByMember(c echo.Context) error {
	claims, err := staffClaims(c)
	if err != nil {
		return err
	}

	memberID, err := strconv.ParseUint(c.QueryParam("member_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member_id is required"})
	}

	payments, err := h.payments.ListByMember(claims.GymID, uint(memberID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, payments)
}
