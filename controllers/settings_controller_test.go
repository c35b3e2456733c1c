package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"attachd/models"
)

func settingsRouter(sc *SettingsController) *gin.Engine {
	r := gin.New()
	r.GET("/icon-groups", sc.ListIconGroups)
	r.POST("/icon-groups", sc.CreateIconGroup)
	return r
}

func TestIconGroups(t *testing.T) {
	require := require.New(t)
	db := setupTestDB(t)
	r := settingsRouter(NewSettingsController(db))

	rec, _ := doJSON(t, r, jsonRequest(http.MethodPost, "/icon-groups", `{"name":"invoice","icon":"fa-file-invoice"}`))
	require.Equal(http.StatusOK, rec.Code)

	// same name updates the icon instead of duplicating the row
	rec, _ = doJSON(t, r, jsonRequest(http.MethodPost, "/icon-groups", `{"name":"invoice","icon":"fa-receipt"}`))
	require.Equal(http.StatusOK, rec.Code)

	var count int64
	require.NoError(db.Model(&models.IconGroup{}).Count(&count).Error)
	require.Equal(int64(1), count)

	var group models.IconGroup
	require.NoError(db.Where("name = ?", "invoice").First(&group).Error)
	require.Equal("fa-receipt", group.Icon)

	rec, payload := doJSON(t, r, httptest.NewRequest(http.MethodGet, "/icon-groups", nil))
	require.Equal(http.StatusOK, rec.Code)
	data, _ := payload["data"].(map[string]any)
	groups, _ := data["icon_groups"].([]any)
	require.Len(groups, 1)

	rec, _ = doJSON(t, r, jsonRequest(http.MethodPost, "/icon-groups", `{"name":"","icon":""}`))
	require.Equal(http.StatusBadRequest, rec.Code)
}
