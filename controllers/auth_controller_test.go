package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"attachd/middleware"
	"attachd/models"
)

func authRouter(ac *AuthController, userID uint) *gin.Engine {
	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		if userID != 0 {
			ctx.Set(middleware.ContextUserIDKey, userID)
		}
	})
	r.POST("/register", ac.Register)
	r.POST("/login", ac.Login)
	r.GET("/me", ac.Me)
	return r
}

func jsonRequest(method, url, body string) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegister(t *testing.T) {
	t.Run("creates the account with default attachment permissions", func(t *testing.T) {
		require := require.New(t)
		db := setupTestDB(t)
		r := authRouter(NewAuthController(db), 0)

		rec, payload := doJSON(t, r, jsonRequest(http.MethodPost, "/register", `{"username":"alice","password":"hunter2hunter2"}`))
		require.Equal(http.StatusOK, rec.Code)
		require.NotNil(payload["data"])

		var user models.User
		require.NoError(db.Where("username = ?", "alice").First(&user).Error)
		require.True(user.HasPerm(db, models.PermAddAttachment))
		require.True(user.HasPerm(db, models.PermDeleteAttachment))
		require.False(user.HasPerm(db, models.PermDeleteForeignAttachments))
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		require := require.New(t)
		db := setupTestDB(t)
		mockUser(t, db, "bob")
		r := authRouter(NewAuthController(db), 0)

		rec, _ := doJSON(t, r, jsonRequest(http.MethodPost, "/register", `{"username":"bob","password":"hunter2hunter2"}`))
		require.Equal(http.StatusConflict, rec.Code)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		require := require.New(t)
		db := setupTestDB(t)
		r := authRouter(NewAuthController(db), 0)

		rec, _ := doJSON(t, r, jsonRequest(http.MethodPost, "/register", `{"username":"carol","password":"short"}`))
		require.Equal(http.StatusBadRequest, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	require := require.New(t)
	db := setupTestDB(t)
	r := authRouter(NewAuthController(db), 0)

	rec, _ := doJSON(t, r, jsonRequest(http.MethodPost, "/register", `{"username":"dave","password":"hunter2hunter2"}`))
	require.Equal(http.StatusOK, rec.Code)

	rec, payload := doJSON(t, r, jsonRequest(http.MethodPost, "/login", `{"username":"dave","password":"hunter2hunter2"}`))
	require.Equal(http.StatusOK, rec.Code)
	data, _ := payload["data"].(map[string]any)
	require.NotNil(data)
	require.NotEmpty(data["token"])

	rec, _ = doJSON(t, r, jsonRequest(http.MethodPost, "/login", `{"username":"dave","password":"wrong-password"}`))
	require.Equal(http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	require := require.New(t)
	db := setupTestDB(t)
	user := mockUser(t, db, "erin")

	r := authRouter(NewAuthController(db), user.ID)
	rec, payload := doJSON(t, r, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(http.StatusOK, rec.Code)
	data, _ := payload["data"].(map[string]any)
	require.Equal("erin", data["username"])

	r = authRouter(NewAuthController(db), 0)
	rec, _ = doJSON(t, r, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(http.StatusUnauthorized, rec.Code)
}
