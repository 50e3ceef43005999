package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pleky/nyx-gym-admin/internal/model"
	"github.com/pleky/nyx-gym-admin/internal/service"
	"github.com/pleky/nyx-gym-admin/pkg/jwtutil"
	"github.com/pleky/nyx-gym-admin/pkg/logger"
	"go.uber.org/zap"
)

// AuthHandler serves onboarding and login
type AuthHandler struct {
	tenants *service.TenantService
	staff   *service.StaffService
	jwt     *jwtutil.JWTUtil
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(tenants *service.TenantService, staff *service.StaffService, jwt *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{tenants: tenants, staff: staff, jwt: jwt}
}

// Register onboards a new gym together with its OWNER account
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		GymName    string `json:"gym_name"`
		GymAddress string `json:"gym_address"`
		GymPhone   string `json:"gym_phone"`
		Name       string `json:"name"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		Phone      string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.GymName == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gym_name, email and password are required"})
	}

	gym, err := h.tenants.Create(req.GymName, req.GymAddress, req.GymPhone)
	if err != nil {
		return respondError(c, err)
	}

	owner, err := h.staff.Register(gym.ID, service.StaffAttrs{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.RoleOwner,
		Phone:    req.Phone,
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Gym onboarded",
		zap.Uint("gym_id", gym.ID),
		zap.Uint("owner_id", owner.ID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Gym registered successfully",
		"gym":     gym,
		"owner":   owner,
	})
}

// Login authenticates a staff account and issues a JWT
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	staff, err := h.staff.Authenticate(req.Email, req.Password)
	if err != nil {
		log.Warn("Login failed", zap.String("email", req.Email))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.jwt.GenerateToken(staff.Email, staff.ID, staff.GymID, staff.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Staff logged in",
		zap.String("email", staff.Email),
		zap.Uint("gym_id", staff.GymID),
		zap.String("role", staff.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"staff": echo.Map{
			"id":     staff.ID,
			"name":   staff.Name,
			"email":  staff.Email,
			"role":   staff.Role,
			"gym_id": staff.GymID,
		},
	})
}
