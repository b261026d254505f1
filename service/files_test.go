package service_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"filebox/files-api/model"
	"filebox/files-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*service.FileStore, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.File{}))

	store, err := service.NewFileStore(db, filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)

	return store, db
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)

	for range 50 {
		id, err := service.NewID()
		require.NoError(t, err)
		assert.Len(t, id, 16)
		assert.Regexp(t, "^[a-zA-Z0-9]+$", id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestFileStoreCreate(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	t.Run("Folder has no content", func(t *testing.T) {
		f, err := store.Create(ctx, "u1", &service.CreateRequest{Name: "docs", Type: "folder"})
		require.NoError(t, err)
		assert.Equal(t, "folder", f.Type)
		assert.Empty(t, f.LocalPath)
		assert.False(t, f.IsPublic)
	})

	t.Run("File content lands on disk", func(t *testing.T) {
		f, err := store.Create(ctx, "u1", &service.CreateRequest{
			Name: "hello.txt",
			Type: "file",
			Data: b64("Hello, world!"),
		})
		require.NoError(t, err)
		require.NotEmpty(t, f.LocalPath)

		data, err := os.ReadFile(f.LocalPath)
		require.NoError(t, err)
		assert.Equal(t, "Hello, world!", string(data))
	})

	t.Run("Missing name", func(t *testing.T) {
		_, err := store.Create(ctx, "u1", &service.CreateRequest{Type: "file", Data: b64("x")})
		assert.ErrorIs(t, err, service.ErrMissingName)
	})

	t.Run("Missing type", func(t *testing.T) {
		_, err := store.Create(ctx, "u1", &service.CreateRequest{Name: "x", Type: "archive"})
		assert.ErrorIs(t, err, service.ErrMissingType)
	})

	t.Run("Missing data for file", func(t *testing.T) {
		_, err := store.Create(ctx, "u1", &service.CreateRequest{Name: "x", Type: "file"})
		assert.ErrorIs(t, err, service.ErrMissingData)
	})

	t.Run("Parent must exist", func(t *testing.T) {
		_, err := store.Create(ctx, "u1", &service.CreateRequest{
			Name:     "x",
			Type:     "folder",
			ParentID: "missing",
		})
		assert.ErrorIs(t, err, service.ErrParentNotFound)
	})

	t.Run("Parent must be owned", func(t *testing.T) {
		theirs, err := store.Create(ctx, "u2", &service.CreateRequest{Name: "theirs", Type: "folder"})
		require.NoError(t, err)

		_, err = store.Create(ctx, "u1", &service.CreateRequest{
			Name:     "x",
			Type:     "folder",
			ParentID: theirs.ID,
		})
		assert.ErrorIs(t, err, service.ErrParentNotFound)
	})

	t.Run("Parent must be a folder", func(t *testing.T) {
		file, err := store.Create(ctx, "u1", &service.CreateRequest{
			Name: "not-a-folder.txt",
			Type: "file",
			Data: b64("x"),
		})
		require.NoError(t, err)

		_, err = store.Create(ctx, "u1", &service.CreateRequest{
			Name:     "x",
			Type:     "folder",
			ParentID: file.ID,
		})
		assert.ErrorIs(t, err, service.ErrParentNotFolder)
	})

	t.Run("Nested creation under an owned folder", func(t *testing.T) {
		folder, err := store.Create(ctx, "u1", &service.CreateRequest{Name: "photos", Type: "folder"})
		require.NoError(t, err)

		f, err := store.Create(ctx, "u1", &service.CreateRequest{
			Name:     "inside.txt",
			Type:     "file",
			ParentID: folder.ID,
			Data:     b64("x"),
		})
		require.NoError(t, err)
		assert.Equal(t, folder.ID, f.ParentID)
	})
}

func TestFileStoreVisibility(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	private, err := store.Create(ctx, "owner", &service.CreateRequest{
		Name: "private.txt",
		Type: "file",
		Data: b64("secret"),
	})
	require.NoError(t, err)

	public, err := store.Create(ctx, "owner", &service.CreateRequest{
		Name:     "public.txt",
		Type:     "file",
		IsPublic: true,
		Data:     b64("open"),
	})
	require.NoError(t, err)

	t.Run("Owner reads own private entity", func(t *testing.T) {
		f, err := store.Get(ctx, private.ID, "owner")
		require.NoError(t, err)
		assert.Equal(t, private.ID, f.ID)
	})

	t.Run("Non-owner private read masks as not found", func(t *testing.T) {
		_, err := store.Get(ctx, private.ID, "stranger")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("Non-owner reads public entity", func(t *testing.T) {
		f, err := store.Get(ctx, public.ID, "stranger")
		require.NoError(t, err)
		assert.True(t, f.IsPublic)
	})

	t.Run("Anonymous reads public entity", func(t *testing.T) {
		f, err := store.Get(ctx, public.ID, "")
		require.NoError(t, err)
		assert.Equal(t, public.ID, f.ID)
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := store.Get(ctx, "nope", "owner")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)

	for i := range 25 {
		require.NoError(t, db.Create(&model.File{
			ID:        fmt.Sprintf("f%02d", i),
			UserID:    "u1",
			Name:      fmt.Sprintf("file%02d", i),
			Type:      "folder",
			CreatedAt: int64(i),
		}).Error)
	}

	t.Run("First page is full and in creation order", func(t *testing.T) {
		files, err := store.List(ctx, "u1", "", 0)
		require.NoError(t, err)
		require.Len(t, files, 20)
		assert.Equal(t, "f00", files[0].ID)
		assert.Equal(t, "f19", files[19].ID)
	})

	t.Run("Second page holds the rest", func(t *testing.T) {
		files, err := store.List(ctx, "u1", "", 1)
		require.NoError(t, err)
		require.Len(t, files, 5)
		assert.Equal(t, "f20", files[0].ID)
	})

	t.Run("Out of range page is empty, not an error", func(t *testing.T) {
		files, err := store.List(ctx, "u1", "", 2)
		require.NoError(t, err)
		assert.Empty(t, files)

		files, err = store.List(ctx, "u1", "", -1)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("Filtered by owner", func(t *testing.T) {
		files, err := store.List(ctx, "u2", "", 0)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("Filtered by parent", func(t *testing.T) {
		require.NoError(t, db.Create(&model.File{
			ID:        "nested",
			UserID:    "u1",
			Name:      "nested",
			Type:      "folder",
			ParentID:  "f00",
			CreatedAt: time.Now().UnixMilli(),
		}).Error)

		files, err := store.List(ctx, "u1", "f00", 0)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "nested", files[0].ID)
	})
}

func TestFileStoreSetPublic(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	f, err := store.Create(ctx, "owner", &service.CreateRequest{Name: "x", Type: "folder"})
	require.NoError(t, err)

	t.Run("Publish twice stays public", func(t *testing.T) {
		got, err := store.SetPublic(ctx, f.ID, "owner", true)
		require.NoError(t, err)
		assert.True(t, got.IsPublic)

		got, err = store.SetPublic(ctx, f.ID, "owner", true)
		require.NoError(t, err)
		assert.True(t, got.IsPublic)
	})

	t.Run("Unpublish flips back", func(t *testing.T) {
		got, err := store.SetPublic(ctx, f.ID, "owner", false)
		require.NoError(t, err)
		assert.False(t, got.IsPublic)
	})

	t.Run("Non-owner is forbidden", func(t *testing.T) {
		_, err := store.SetPublic(ctx, f.ID, "stranger", true)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("Unknown id is not found", func(t *testing.T) {
		_, err := store.SetPublic(ctx, "nope", "owner", true)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestFileStoreReadData(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	f, err := store.Create(ctx, "owner", &service.CreateRequest{
		Name: "hello.txt",
		Type: "file",
		Data: b64("Hello, world!"),
	})
	require.NoError(t, err)

	t.Run("Owner reads content", func(t *testing.T) {
		data, got, err := store.ReadData(ctx, f.ID, "owner", "")
		require.NoError(t, err)
		assert.Equal(t, "Hello, world!", string(data))
		assert.Equal(t, f.ID, got.ID)
	})

	t.Run("Non-owner private read is not found", func(t *testing.T) {
		_, _, err := store.ReadData(ctx, f.ID, "stranger", "")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("Folder has no content", func(t *testing.T) {
		folder, err := store.Create(ctx, "owner", &service.CreateRequest{Name: "d", Type: "folder"})
		require.NoError(t, err)

		_, _, err = store.ReadData(ctx, folder.ID, "owner", "")
		assert.ErrorIs(t, err, service.ErrFolderNoContent)
	})

	t.Run("Unwritten thumbnail is not found", func(t *testing.T) {
		_, _, err := store.ReadData(ctx, f.ID, "owner", "500")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("Unknown size is rejected", func(t *testing.T) {
		_, _, err := store.ReadData(ctx, f.ID, "owner", "123")
		assert.ErrorIs(t, err, service.ErrInvalidSize)
	})

	t.Run("Generated thumbnail is served", func(t *testing.T) {
		require.NoError(t, os.WriteFile(f.LocalPath+"_500", []byte("thumb"), 0o600))

		data, _, err := store.ReadData(ctx, f.ID, "owner", "500")
		require.NoError(t, err)
		assert.Equal(t, "thumb", string(data))
	})
}
