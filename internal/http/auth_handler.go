package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lishe/internal/domain"
	"lishe/internal/service"
)

// AccountService es el flujo de registro que exponen los endpoints de auth.
type AccountService interface {
	Register(ctx context.Context, username, mobile string) (domain.User, error)
	ResendCode(ctx context.Context, mobile string) error
	VerifyCode(ctx context.Context, mobile, code string) error
	SetPassword(ctx context.Context, username, password string) (domain.User, error)
	Onboard(ctx context.Context, in service.OnboardInput) (domain.User, error)
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
	Profile(ctx context.Context, id int64) (domain.User, error)
}

// AuthHandler mantiene dependencias para endpoints de registro y sesion.
type AuthHandler struct {
	logger   *zap.Logger
	accounts AccountService
	jwtServ  *service.JWTService
}

func NewAuthHandler(logger *zap.Logger, accounts AccountService, jwtServ *service.JWTService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		accounts: accounts,
		jwtServ:  jwtServ,
	}
}

// CreateAccount maneja POST /api/v1/auth/create-account.
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Mobile   string `json:"mobile" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "create account", err)
		return
	}

	if _, err := h.accounts.Register(c.Request.Context(), req.Username, req.Mobile); err != nil {
		writeError(c, h.logger, "create account", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account created. A verification code was sent to your mobile number."})
}

// ResendOTP maneja POST /api/v1/auth/resend-otp.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "resend otp", err)
		return
	}

	if err := h.accounts.ResendCode(c.Request.Context(), req.Mobile); err != nil {
		writeError(c, h.logger, "resend otp", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "A new verification code was sent."})
}

// VerifyOTP maneja POST /api/v1/auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile" binding:"required"`
		Code   string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "verify otp", err)
		return
	}

	if err := h.accounts.VerifyCode(c.Request.Context(), req.Mobile, req.Code); err != nil {
		writeError(c, h.logger, "verify otp", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mobile number verified."})
}

// CreatePassword maneja POST /api/v1/auth/create-password.
func (h *AuthHandler) CreatePassword(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "create password", err)
		return
	}

	if _, err := h.accounts.SetPassword(c.Request.Context(), req.Username, req.Password); err != nil {
		writeError(c, h.logger, "create password", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password created."})
}

// Onboarding maneja POST /api/v1/auth/onboarding.
func (h *AuthHandler) Onboarding(c *gin.Context) {
	var req struct {
		Identifier       string   `json:"identifier" binding:"required"`
		Goals            int      `json:"goals"`
		Activity         string   `json:"activity"`
		GroupAge         string   `json:"group_age"`
		Height           float64  `json:"height"`
		Weight           float64  `json:"weight"`
		BMIValue         float64  `json:"bmi_value"`
		Gender           string   `json:"gender"`
		DietType         string   `json:"diet_type"`
		FoodAllergies    []string `json:"food_allergies"`
		FavoriteFoods    []string `json:"favorite_foods"`
		HealthConditions string   `json:"health_conditions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "onboarding", err)
		return
	}

	user, err := h.accounts.Onboard(c.Request.Context(), service.OnboardInput{
		Identifier:       req.Identifier,
		GoalCode:         req.Goals,
		ActivityBand:     req.Activity,
		AgeBand:          req.GroupAge,
		Height:           req.Height,
		Weight:           req.Weight,
		BMI:              req.BMIValue,
		Gender:           req.Gender,
		DietType:         req.DietType,
		FoodAllergies:    req.FoodAllergies,
		FavoriteFoods:    req.FavoriteFoods,
		HealthConditions: req.HealthConditions,
	})
	if err != nil {
		writeError(c, h.logger, "onboarding", err)
		return
	}
	c.Header("X-Status", "onboarding-completed")
	c.JSON(http.StatusOK, newProfileResponse(user))
}

// Login maneja POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "login", err)
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.logger, "login", err)
		return
	}

	tokens, err := h.issueTokens(c.Request.Context(), user)
	if err != nil {
		writeError(c, h.logger, "issue tokens", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newProfileResponse(user), "tokens": tokens})
}

// RefreshToken maneja POST /api/v1/auth/refresh.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "refresh", err)
		return
	}
	if h.jwtServ == nil {
		writeError(c, h.logger, "refresh", errors.New("jwt not configured"))
		return
	}
	tokens, err := h.jwtServ.RefreshPair(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"kind": "invalid_token", "error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout maneja POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "logout", err)
		return
	}
	if h.jwtServ != nil {
		_ = h.jwtServ.RevokeRefresh(c.Request.Context(), req.RefreshToken)
	}
	c.Status(http.StatusNoContent)
}

// Me maneja GET /api/v1/users/me.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"kind": "invalid_token", "error": "missing claims"})
		return
	}
	id, err := claims.ID64()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"kind": "invalid_token", "error": "invalid token"})
		return
	}

	user, err := h.accounts.Profile(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(user))
}

func (h *AuthHandler) issueTokens(ctx context.Context, user domain.User) (service.TokenPair, error) {
	if h.jwtServ == nil {
		return service.TokenPair{}, errors.New("jwt not configured")
	}
	return h.jwtServ.GeneratePair(ctx, user)
}
