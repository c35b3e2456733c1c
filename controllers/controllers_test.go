package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"attachd/middleware"
	"attachd/models"
	"attachd/utils"
)

func TestMain(m *testing.M) {
	// config.Load refuses to run without a JWT secret
	os.Setenv("JWT_SECRET", "test-secret")
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var testDBCounter atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	require := require.New(t)
	dsn := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	require.NoError(err)
	require.NoError(db.AutoMigrate(models.AllTables()...))
	return db
}

func mockUser(t *testing.T, db *gorm.DB, username string, perms ...string) *models.User {
	t.Helper()
	require := require.New(t)
	user := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(db.Create(user).Error)
	require.NoError(user.Grant(db, perms...))
	return user
}

func mockPost(t *testing.T, db *gorm.DB, user *models.User, title string) *models.Post {
	t.Helper()
	require := require.New(t)
	post := &models.Post{UserID: user.ID, Title: title, Content: "body"}
	require.NoError(db.Create(post).Error)
	return post
}

// attachmentRouter mounts the attachment routes with a stub auth middleware
// injecting userID. Zero means unauthenticated.
func attachmentRouter(ac *AttachmentController, userID uint) *gin.Engine {
	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		if userID != 0 {
			ctx.Set(middleware.ContextUserIDKey, userID)
		}
	})
	r.POST("/attachments/:app_label/:model_name/:pk", ac.Add)
	r.GET("/attachments/:app_label/:model_name/:pk", ac.List)
	r.DELETE("/attachments/:id", ac.Delete)
	return r
}

// uploadRequest builds a multipart POST. A nil file map sends no file part at all.
func uploadRequest(t *testing.T, url string, fields map[string]string, filename, content string) *http.Request {
	t.Helper()
	require := require.New(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(err)
		_, err = fw.Write([]byte(content))
		require.NoError(err)
	}
	require.NoError(w.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func doJSON(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		payload = nil
	}
	return rec, payload
}

func countAttachments(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Attachment{}).Count(&count).Error)
	return count
}
