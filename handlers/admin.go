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

type AdminHandler struct {
	DB *gorm.DB
}

var adminSorts = map[string]bool{"name": true, "email": true, "created_at": true}

// GetAdmins is reachable only through the super admin route group.
func (h *AdminHandler) GetAdmins(c *gin.Context) {
	page, perPage, offset := pageParams(c)

	query := h.DB.Model(&models.Admin{})
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch admins")
		return
	}

	var admins []models.Admin
	if err := query.Order(sortClause(c, adminSorts, "name")).
		Offset(offset).Limit(perPage).Find(&admins).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch admins")
		return
	}

	respondList(c, admins, listMeta(page, perPage, total))
}

// GetAdmin enforces the self-or-super-admin rule server-side as well; the
// client pre-checks it to avoid the round trip.
func (h *AdminHandler) GetAdmin(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid admin id")
		return
	}

	actorID := c.MustGet("admin_id").(uuid.UUID)
	if c.GetString("admin_role") != models.RoleSuperAdmin && actorID != id {
		respondError(c, http.StatusForbidden, "You can only view your own admin account")
		return
	}

	var admin models.Admin
	if err := h.DB.Where("id = ?", id).First(&admin).Error; err != nil {
		respondError(c, http.StatusNotFound, "Admin not found")
		return
	}

	respondOK(c, "", admin)
}

func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req dtos.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	var existing models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		respondError(c, http.StatusConflict, "An admin with this email already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	admin := models.Admin{
		Email:    req.Email,
		Password: string(hashed),
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     req.Role,
		IsActive: true,
	}
	if err := h.DB.Create(&admin).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create admin")
		return
	}

	respondCreated(c, "Admin created successfully", admin)
}

func (h *AdminHandler) UpdateAdmin(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid admin id")
		return
	}

	actorID := c.MustGet("admin_id").(uuid.UUID)
	isSuper := c.GetString("admin_role") == models.RoleSuperAdmin
	if !isSuper && actorID != id {
		respondError(c, http.StatusForbidden, "You can only update your own admin account")
		return
	}

	var admin models.Admin
	if err := h.DB.Where("id = ?", id).First(&admin).Error; err != nil {
		respondError(c, http.StatusNotFound, "Admin not found")
		return
	}

	var req dtos.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, utils.SanitizeValidationError(err))
		return
	}

	if req.Name != "" {
		admin.Name = req.Name
	}
	if req.Phone != "" {
		admin.Phone = req.Phone
	}
	// Role and activation changes are super admin only.
	if req.Role != nil {
		if !isSuper {
			respondError(c, http.StatusForbidden, "Only a super admin can change roles")
			return
		}
		admin.Role = *req.Role
	}
	if req.IsActive != nil {
		if !isSuper {
			respondError(c, http.StatusForbidden, "Only a super admin can change account status")
			return
		}
		admin.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&admin).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update admin")
		return
	}

	respondOK(c, "Admin updated successfully", admin)
}

// DeleteAdmin is reachable only through the super admin route group.
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid admin id")
		return
	}

	actorID := c.MustGet("admin_id").(uuid.UUID)
	if actorID == id {
		respondError(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	if err := h.DB.Delete(&models.Admin{}, "id = ?", id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete admin")
		return
	}

	respondOK(c, "Admin deleted successfully", nil)
}
