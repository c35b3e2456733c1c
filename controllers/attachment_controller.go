package controllers

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"attachd/models"
	"attachd/permissions"
	"attachd/storage"
	"attachd/utils"
)

// maxTagLen caps a single tag label.
const maxTagLen = 100

// attachmentFragment is the HTML snippet returned to the uploading client so
// it can insert the new attachment into the page without a reload.
var attachmentFragment = template.Must(template.New("attachment").Parse(strings.TrimSpace(`
<div class="attachment" data-attachment-id="{{.Attachment.ID}}">
  <i class="fa {{.Icon}}"></i>
  <a class="attachment-link" href="/media/{{.Attachment.FilePath}}">{{.Attachment.Name}}</a>
  {{- range .Attachment.Tags}}
  <span class="attachment-tag">{{.Name}}</span>
  {{- end}}
</div>
`)))

// AttachmentController implements attachment submission, listing and removal.
type AttachmentController struct {
	db             *gorm.DB
	store          storage.Backend
	policy         permissions.Policy
	registry       *models.Registry
	deleteFromDisk bool
	cacheIcons     bool
}

// NewAttachmentController wires the attachment endpoints. deleteFromDisk
// controls whether removing a record also purges the stored file; cacheIcons
// enables Redis caching of icon-group lookups.
func NewAttachmentController(db *gorm.DB, store storage.Backend, policy permissions.Policy, registry *models.Registry, deleteFromDisk, cacheIcons bool) *AttachmentController {
	return &AttachmentController{
		db:             db,
		store:          store,
		policy:         policy,
		registry:       registry,
		deleteFromDisk: deleteFromDisk,
		cacheIcons:     cacheIcons,
	}
}

// Add handles POST /attachments/:app_label/:model_name/:pk. It answers the
// legacy soft-failure shape: {"success": false, "reason": ...} for permission
// and validation problems, HTTP 404 for a missing owner entity.
func (c *AttachmentController) Add(ctx *gin.Context) {
	user := currentUser(ctx, c.db)
	if user == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	// Accepted for form round-trips; JSON clients ignore it.
	_ = ctx.PostForm("next")

	// Permission gate comes before validation and before any I/O.
	if !c.policy.CanAdd(user) {
		ctx.JSON(http.StatusOK, gin.H{"success": false, "reason": "insufficient permissions"})
		return
	}

	appLabel := strings.ToLower(ctx.Param("app_label"))
	modelName := strings.ToLower(ctx.Param("model_name"))
	entity, ok := c.resolveEntity(ctx, appLabel, modelName, ctx.Param("pk"))
	if !ok {
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	var formErrors []string
	if err != nil {
		formErrors = append(formErrors, "file: this field is required")
	} else {
		defer file.Close()
	}
	labels, tagErrs := parseTags(ctx.PostForm("tags"))
	formErrors = append(formErrors, tagErrs...)
	if len(formErrors) > 0 {
		utils.Sugar.Warnw("attachment form validation failed",
			"entity", entity.EntityType(),
			"object_id", entity.EntityID(),
			"errors", formErrors,
		)
		ctx.JSON(http.StatusOK, gin.H{"success": false, "reason": "invalid form"})
		return
	}

	// Per owner-object folder, mirroring the storage layout the clients
	// already link against.
	key := fmt.Sprintf("attachments/%s_%s/%d/%s",
		appLabel, modelName, entity.EntityID(), filepath.Base(header.Filename))
	storedKey, err := c.store.Store(key, file)
	if err != nil {
		if err == storage.ErrFileTooLarge {
			utils.Sugar.Warnw("attachment rejected: file too large", "key", key)
			ctx.JSON(http.StatusOK, gin.H{"success": false, "reason": "invalid form"})
			return
		}
		utils.Sugar.Errorf("attachment store failed for %s: %v", key, err)
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to store file")
		return
	}

	name := truncateRunes(utils.SanitizeLabel(ctx.PostForm("name")), 150)

	var attachment models.Attachment
	err = c.db.Transaction(func(tx *gorm.DB) error {
		tags, err := models.FindOrCreateTags(tx, labels)
		if err != nil {
			return err
		}
		creatorID := user.ID
		attachment = models.Attachment{
			ContentType: entity.EntityType(),
			ObjectID:    entity.EntityID(),
			CreatorID:   &creatorID,
			FilePath:    storedKey,
			Name:        name,
			Tags:        tags,
		}
		return tx.Create(&attachment).Error
	})
	if err != nil {
		// The record never existed; drop the stored bytes again.
		_ = c.store.Remove(storedKey)
		utils.Sugar.Errorf("attachment create failed for %s: %v", key, err)
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create attachment")
		return
	}

	icon := c.iconFor(attachment.Tags)

	var html strings.Builder
	if err := attachmentFragment.Execute(&html, gin.H{"Attachment": &attachment, "Icon": icon}); err != nil {
		utils.Sugar.Errorf("attachment fragment render failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to render attachment")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "html": html.String()})
}

// List returns the attachments pinned to one entity, newest first.
func (c *AttachmentController) List(ctx *gin.Context) {
	appLabel := strings.ToLower(ctx.Param("app_label"))
	modelName := strings.ToLower(ctx.Param("model_name"))
	entity, ok := c.resolveEntity(ctx, appLabel, modelName, ctx.Param("pk"))
	if !ok {
		return
	}

	attachments, err := models.NewAttachments(c.db).For(entity)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to list attachments")
		return
	}
	utils.Success(ctx, gin.H{"attachments": attachments})
}

// Delete handles DELETE /attachments/:id. Removal is granted to the creator
// holding delete_attachment, or to anyone holding delete_foreign_attachments.
func (c *AttachmentController) Delete(ctx *gin.Context) {
	user := currentUser(ctx, c.db)
	if user == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.NotFound(ctx, 40402, "attachment not found")
		return
	}

	attachment, err := models.NewAttachments(c.db).Get(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(ctx, 40402, "attachment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to load attachment")
		return
	}

	if !c.policy.CanDeleteOwn(user, attachment) && !c.policy.CanDeleteForeign(user) {
		ctx.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	// Select(Associations) clears the attachment_tags join rows with the record.
	if err := c.db.Select(clause.Associations).Delete(attachment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to delete attachment")
		return
	}

	if c.deleteFromDisk {
		// Best-effort cleanup: a missing file is fine, anything else is only logged.
		if status := c.store.Remove(attachment.FilePath); status == storage.Failed {
			utils.Sugar.Errorf("failed to remove attachment file %s", attachment.FilePath)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// resolveEntity turns path parameters into a live entity or writes a 404.
func (c *AttachmentController) resolveEntity(ctx *gin.Context, appLabel, modelName, rawPK string) (models.Entity, bool) {
	pk, err := strconv.ParseUint(rawPK, 10, 32)
	if err != nil {
		utils.NotFound(ctx, 40403, "object not found")
		return nil, false
	}
	entity, err := c.registry.Resolve(c.db, appLabel, modelName, uint(pk))
	if err != nil {
		utils.NotFound(ctx, 40403, "object not found")
		return nil, false
	}
	return entity, true
}

// iconFor picks the display icon from the first tag's icon group. Lookups go
// through Redis when caching is enabled; only hits are cached.
func (c *AttachmentController) iconFor(tags []models.Tag) string {
	if len(tags) == 0 {
		return models.DefaultIcon
	}
	cacheKey := "attachd:icongroup:" + tags[0].Name
	if c.cacheIcons {
		if icon, ok := utils.CacheGetString(cacheKey); ok {
			return icon
		}
	}
	icon := models.IconFor(c.db, tags)
	if c.cacheIcons && icon != models.DefaultIcon {
		utils.CacheSetString(cacheKey, icon, 0)
	}
	return icon
}

// parseTags splits comma separated tag text into sanitized labels.
func parseTags(raw string) ([]string, []string) {
	var labels, errs []string
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		label := utils.SanitizeLabel(trimmed)
		if label == "" {
			errs = append(errs, fmt.Sprintf("tags: %q is not a valid tag", trimmed))
			continue
		}
		if len([]rune(label)) > maxTagLen {
			errs = append(errs, fmt.Sprintf("tags: %q exceeds %d characters", label, maxTagLen))
			continue
		}
		labels = append(labels, label)
	}
	return labels, errs
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
