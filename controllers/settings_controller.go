package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attachd/models"
	"attachd/utils"
)

// SettingsController manages the icon-group side table mapping tag labels to
// display icons.
type SettingsController struct {
	db *gorm.DB
}

// NewSettingsController creates a new SettingsController instance.
func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{db: db}
}

// ListIconGroups returns every icon group.
func (s *SettingsController) ListIconGroups(ctx *gin.Context) {
	groups := []models.IconGroup{}
	if err := s.db.Order("name").Find(&groups).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list icon groups")
		return
	}
	utils.Success(ctx, gin.H{"icon_groups": groups})
}

// CreateIconGroup adds or updates the icon for a tag label.
func (s *SettingsController) CreateIconGroup(ctx *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,max=100"`
		Icon string `json:"icon" binding:"required,max=64"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	name := utils.SanitizeLabel(req.Name)
	icon := utils.SanitizeLabel(req.Icon)
	if name == "" || icon == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "name and icon cannot be empty")
		return
	}

	var group models.IconGroup
	err := s.db.Where("name = ?", name).First(&group).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		group = models.IconGroup{Name: name, Icon: icon}
		err = s.db.Create(&group).Error
	case err == nil:
		group.Icon = icon
		err = s.db.Save(&group).Error
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to save icon group")
		return
	}

	// Drop any cached lookup for this label.
	utils.CacheDelete("attachd:icongroup:" + name)

	utils.Success(ctx, gin.H{"icon_group": group})
}
