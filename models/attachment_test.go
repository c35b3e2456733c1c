package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAttachmentName(t *testing.T) {
	db := setupTestDB(t)
	user := MockUser(t, db, "alice")
	post := MockPost(t, db, user, "first")

	t.Run("derived from filename stem before the first dot", func(t *testing.T) {
		require := require.New(t)
		a := MockAttachment(t, db, user, post, "attachments/forum_post/1/report.final.pdf")
		require.Equal("report", a.Name)
	})

	t.Run("derived name is truncated to 150 runes", func(t *testing.T) {
		require := require.New(t)
		long := strings.Repeat("x", 200)
		a := MockAttachment(t, db, user, post, "attachments/forum_post/1/"+long+".txt")
		require.Len([]rune(a.Name), 150)
		require.Equal(strings.Repeat("x", 150), a.Name)
	})

	t.Run("explicit name wins over derivation", func(t *testing.T) {
		require := require.New(t)
		a := MockAttachment(t, db, user, post, "attachments/forum_post/1/raw.bin", func(att *Attachment) {
			att.Name = "quarterly report"
		})
		require.Equal("quarterly report", a.Name)
	})

	t.Run("name is never auto-overwritten on later saves", func(t *testing.T) {
		require := require.New(t)
		a := MockAttachment(t, db, user, post, "attachments/forum_post/1/notes.txt")
		require.Equal("notes", a.Name)

		require.NoError(db.Save(a).Error)

		var reloaded Attachment
		require.NoError(db.First(&reloaded, a.ID).Error)
		require.Equal("notes", reloaded.Name)
	})
}

func TestAttachmentsFor(t *testing.T) {
	db := setupTestDB(t)
	user := MockUser(t, db, "bob")
	post := MockPost(t, db, user, "with files")
	other := MockPost(t, db, user, "without files")

	t.Run("entity with no attachments yields empty slice", func(t *testing.T) {
		require := require.New(t)
		got, err := NewAttachments(db).For(other)
		require.NoError(err)
		require.Empty(got)
	})

	t.Run("scoped to the owner pair and ordered newest first", func(t *testing.T) {
		require := require.New(t)
		oldest := MockAttachment(t, db, user, post, "attachments/forum_post/1/a.txt", func(a *Attachment) {
			a.CreatedAt = time.Now().Add(-2 * time.Hour)
		})
		newest := MockAttachment(t, db, user, post, "attachments/forum_post/1/b.txt")
		middle := MockAttachment(t, db, user, post, "attachments/forum_post/1/c.txt", func(a *Attachment) {
			a.CreatedAt = time.Now().Add(-1 * time.Hour)
		})
		// pinned to another owner, must not appear
		MockAttachment(t, db, user, other, "attachments/forum_post/2/d.txt")

		got, err := NewAttachments(db).For(post)
		require.NoError(err)
		require.Len(got, 3)
		require.Equal(newest.ID, got[0].ID)
		require.Equal(middle.ID, got[1].ID)
		require.Equal(oldest.ID, got[2].ID)
	})
}

func TestIconFor(t *testing.T) {
	db := setupTestDB(t)
	require := require.New(t)

	require.NoError(db.Create(&IconGroup{Name: "invoice", Icon: "fa-file-invoice"}).Error)

	tags, err := FindOrCreateTags(db, []string{"invoice", "scan"})
	require.NoError(err)

	t.Run("no tags falls back to the paperclip", func(t *testing.T) {
		require.Equal(DefaultIcon, IconFor(db, nil))
	})

	t.Run("first tag with a group picks its icon", func(t *testing.T) {
		require.Equal("fa-file-invoice", IconFor(db, tags))
	})

	t.Run("only the first tag is consulted", func(t *testing.T) {
		reversed := []Tag{tags[1], tags[0]}
		require.Equal(DefaultIcon, IconFor(db, reversed))
	})
}

func TestRegistry(t *testing.T) {
	db := setupTestDB(t)
	user := MockUser(t, db, "carol")
	post := MockPost(t, db, user, "lookup target")
	registry := DefaultRegistry()

	t.Run("resolves registered kinds case-insensitively", func(t *testing.T) {
		require := require.New(t)
		entity, err := registry.Resolve(db, "Forum", "Post", post.ID)
		require.NoError(err)
		require.Equal("forum.post", entity.EntityType())
		require.Equal(post.ID, entity.EntityID())
	})

	t.Run("unknown model is an error", func(t *testing.T) {
		require := require.New(t)
		_, err := registry.Resolve(db, "forum", "widget", 1)
		require.ErrorIs(err, ErrUnknownEntityType)
	})

	t.Run("missing row propagates record not found", func(t *testing.T) {
		require := require.New(t)
		_, err := registry.Resolve(db, "forum", "post", 9999)
		require.Error(err)
	})
}

func TestFindOrCreateTags(t *testing.T) {
	db := setupTestDB(t)
	require := require.New(t)

	first, err := FindOrCreateTags(db, []string{"red", "blue"})
	require.NoError(err)
	require.Len(first, 2)

	// Same labels resolve to the same rows, not duplicates.
	second, err := FindOrCreateTags(db, []string{"blue", "green"})
	require.NoError(err)
	require.Equal(first[1].ID, second[0].ID)

	var count int64
	require.NoError(db.Model(&Tag{}).Count(&count).Error)
	require.Equal(int64(3), count)
}
