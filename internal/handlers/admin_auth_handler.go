package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/serenespring/massage-booking-api/internal/audit"
	"github.com/serenespring/massage-booking-api/internal/config"
	"github.com/serenespring/massage-booking-api/internal/httperr"
	"github.com/serenespring/massage-booking-api/internal/middleware"
	"github.com/serenespring/massage-booking-api/internal/models"
	"github.com/serenespring/massage-booking-api/internal/validators"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AdminAuthHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewAdminAuthHandler(db *gorm.DB, cfg *config.Config, audit *audit.Dispatcher) *AdminAuthHandler {
	return &AdminAuthHandler{db: db, config: cfg, audit: audit}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// --------- Handlers ---------

func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)

	var admin models.Admin
	if err := h.db.
		Where("email = ? AND is_active = true", email).
		First(&admin).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
			return
		}
		httperr.Internal(c, "internal_error", "Login failed.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
		return
	}

	now := time.Now()
	h.db.Model(&admin).Update("last_login_at", now)

	accessToken, err := h.generateToken(&admin, h.config.JWTSecret, accessTokenTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Login failed.")
		return
	}

	refreshToken, err := h.generateToken(&admin, h.config.JWTRefreshSecret, refreshTokenTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Login failed.")
		return
	}

	h.audit.Dispatch(audit.Event{
		AdminID: &admin.ID,
		Action:  "admin_login",
		Entity:  "admin",
	})

	c.JSON(http.StatusOK, gin.H{
		"admin": gin.H{
			"id":         admin.ID,
			"email":      admin.Email,
			"first_name": admin.FirstName,
			"last_name":  admin.LastName,
		},
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AdminAuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	token, err := jwt.Parse(req.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(h.config.JWTRefreshSecret), nil
	})
	if err != nil || !token.Valid {
		httperr.Unauthorized(c, "invalid_refresh_token", "Invalid or expired refresh token.")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		httperr.Unauthorized(c, "invalid_refresh_token", "Invalid or expired refresh token.")
		return
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		httperr.Unauthorized(c, "invalid_refresh_token", "Invalid or expired refresh token.")
		return
	}

	var admin models.Admin
	if err := h.db.
		Where("id = ? AND is_active = true", uint(sub)).
		First(&admin).Error; err != nil {

		httperr.Unauthorized(c, "admin_not_found", "Admin not found or inactive.")
		return
	}

	accessToken, err := h.generateToken(&admin, h.config.JWTSecret, accessTokenTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Refresh failed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

func (h *AdminAuthHandler) GetMe(c *gin.Context) {
	idVal, _ := c.Get(middleware.ContextAdminID)
	adminID, _ := idVal.(uint)

	var admin models.Admin
	if err := h.db.First(&admin, adminID).Error; err != nil {
		httperr.NotFound(c, "admin_not_found", "Admin not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            admin.ID,
		"email":         admin.Email,
		"first_name":    admin.FirstName,
		"last_name":     admin.LastName,
		"last_login_at": admin.LastLoginAt,
	})
}

// --------- JWT ---------

func (h *AdminAuthHandler) generateToken(admin *models.Admin, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   admin.ID,
		"email": admin.Email,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
