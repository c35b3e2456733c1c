package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiskStore(t *testing.T) {
	t.Run("writes under the media root, creating directories", func(t *testing.T) {
		require := require.New(t)
		root := t.TempDir()
		disk := NewDisk(root, 0)

		key, err := disk.Store("attachments/forum_post/1/hello.txt", strings.NewReader("hi"))
		require.NoError(err)
		require.Equal("attachments/forum_post/1/hello.txt", key)

		data, err := os.ReadFile(filepath.Join(root, "attachments", "forum_post", "1", "hello.txt"))
		require.NoError(err)
		require.Equal("hi", string(data))
		require.True(disk.Exists(key))
	})

	t.Run("enforces the size limit and removes the partial file", func(t *testing.T) {
		require := require.New(t)
		disk := NewDisk(t.TempDir(), 4)

		_, err := disk.Store("big.bin", strings.NewReader("too large"))
		require.ErrorIs(err, ErrFileTooLarge)
		require.False(disk.Exists("big.bin"))
	})

	t.Run("rejects keys escaping the root", func(t *testing.T) {
		require := require.New(t)
		disk := NewDisk(t.TempDir(), 0)

		_, err := disk.Store("../outside.txt", strings.NewReader("x"))
		require.Error(err)
		_, err = disk.Store("/etc/passwd", strings.NewReader("x"))
		require.Error(err)
	})
}

func TestDiskRemove(t *testing.T) {
	require := require.New(t)
	disk := NewDisk(t.TempDir(), 0)

	key, err := disk.Store("a/b.txt", strings.NewReader("x"))
	require.NoError(err)

	require.Equal(Removed, disk.Remove(key))
	require.False(disk.Exists(key))
	// Second removal has nothing to delete.
	require.Equal(NotFound, disk.Remove(key))
}

func TestRemoveStatusString(t *testing.T) {
	require := require.New(t)
	require.Equal("removed", Removed.String())
	require.Equal("not_found", NotFound.String())
	require.Equal("failed", Failed.String())
}
