package handlers

import (
	"net/http"

	"ramesh-admin/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB *gorm.DB
}

var userSorts = map[string]bool{"name": true, "email": true, "created_at": true, "order_count": true}

func (h *UserHandler) GetUsers(c *gin.Context) {
	page, perPage, offset := pageParams(c)

	query := h.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if blocked := c.Query("blocked"); blocked == "true" {
		query = query.Where("is_blocked = ?", true)
	} else if blocked == "false" {
		query = query.Where("is_blocked = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	var users []models.User
	if err := query.Order(sortClause(c, userSorts, "created_at")).
		Offset(offset).Limit(perPage).Find(&users).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	respondList(c, users, listMeta(page, perPage, total))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	var user models.User
	if err := h.DB.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	respondOK(c, "", user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	var orderCount int64
	if err := h.DB.Model(&models.Order{}).Where("user_id = ?", c.Param("id")).Count(&orderCount).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to check user dependencies")
		return
	}
	if orderCount > 0 {
		respondError(c, http.StatusBadRequest, "Cannot delete a user with existing orders")
		return
	}

	if err := h.DB.Delete(&models.User{}, "id = ?", c.Param("id")).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	respondOK(c, "User deleted successfully", nil)
}

func (h *UserHandler) BlockUser(c *gin.Context) {
	h.setBlocked(c, true, "User blocked")
}

func (h *UserHandler) UnblockUser(c *gin.Context) {
	h.setBlocked(c, false, "User unblocked")
}

func (h *UserHandler) setBlocked(c *gin.Context, blocked bool, message string) {
	var user models.User
	if err := h.DB.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	if err := h.DB.Model(&user).Update("is_blocked", blocked).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	user.IsBlocked = blocked

	respondOK(c, message, user)
}
