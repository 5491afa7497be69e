package handlers

import (
	"net/http"

	"ramesh-admin/dtos"
	"ramesh-admin/models"
	"ramesh-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB *gorm.DB
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	var admin models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !admin.IsActive {
		respondError(c, http.StatusForbidden, "Your account has been deactivated. Please contact the owner.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	refreshToken, err := utils.GenerateRefreshToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate refresh token")
		return
	}

	respondOK(c, "Login successful", gin.H{
		"access_token":  token,
		"refresh_token": refreshToken,
		"user":          admin,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	// Tokens are stateless; logout is client-side. The endpoint exists so
	// the dashboard has something to call.
	respondOK(c, "Logged out", nil)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dtos.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	var admin models.Admin
	if err := h.DB.Where("id = ?", claims.AdminID).First(&admin).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if !admin.IsActive {
		respondError(c, http.StatusForbidden, "Your account has been deactivated. Please contact the owner.")
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate refresh token")
		return
	}

	respondOK(c, "Token refreshed", gin.H{
		"access_token":  token,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	adminID := c.MustGet("admin_id").(uuid.UUID)

	var admin models.Admin
	if err := h.DB.Where("id = ?", adminID).First(&admin).Error; err != nil {
		respondError(c, http.StatusNotFound, "Admin not found")
		return
	}

	respondOK(c, "", admin)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	adminID := c.MustGet("admin_id").(uuid.UUID)

	var req dtos.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	var admin models.Admin
	if err := h.DB.Where("id = ?", adminID).First(&admin).Error; err != nil {
		respondError(c, http.StatusNotFound, "Admin not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.CurrentPassword)); err != nil {
		respondError(c, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	if err := h.DB.Model(&admin).Update("password", string(hashed)).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	respondOK(c, "Password changed successfully", nil)
}
