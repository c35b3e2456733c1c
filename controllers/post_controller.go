package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attachd/models"
	"attachd/utils"
)

// PostController manages the demo content objects attachments pin to.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required,min=1"`
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	user := currentUser(ctx, p.db)
	if user == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	title := utils.SanitizeLabel(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
		return
	}

	post := models.Post{
		UserID:  user.ID,
		Title:   title,
		Content: utils.Sanitize(req.Content),
	}
	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}

	utils.Success(ctx, gin.H{"post": post})
}

// ListPosts returns posts, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	posts := []models.Post{}
	if err := p.db.Preload("User").Order("created_at DESC").Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list posts")
		return
	}
	utils.Success(ctx, gin.H{"posts": posts})
}

// GetPost returns one post together with its comments and attachments.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.NotFound(ctx, 40404, "post not found")
		return
	}

	var post models.Post
	if err := p.db.Preload("User").Preload("Comments").First(&post, id).Error; err != nil {
		utils.NotFound(ctx, 40404, "post not found")
		return
	}

	attachments, err := models.NewAttachments(p.db).For(&post)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load attachments")
		return
	}

	utils.Success(ctx, gin.H{"post": post, "attachments": attachments})
}

// CreateComment adds a reply to a post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	user := currentUser(ctx, p.db)
	if user == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	postID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.NotFound(ctx, 40404, "post not found")
		return
	}
	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		utils.NotFound(ctx, 40404, "post not found")
		return
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: utils.Sanitize(req.Content),
	}
	if err := p.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to create comment")
		return
	}

	utils.Success(ctx, gin.H{"comment": comment})
}
