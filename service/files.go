package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"filebox/files-api/model"
	"filebox/files-api/pkg/util"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// PageSize is the fixed number of entities per listing page
const PageSize = 20

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ThumbnailWidths are the derived image sizes the worker generates
var ThumbnailWidths = []int{500, 250, 100}

// NewID returns a fresh 16-character alphanumeric identifier, used for
// both users and entities
func NewID() (string, error) {
	return gonanoid.Generate(idCharset, 16)
}

// CreateRequest carries the fields of a new entity. Data holds
// base64-encoded content and is required for files and images.
type CreateRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// FileStore owns entity CRUD, the visibility rule and the disk blobs
// under Root
type FileStore struct {
	DB   *gorm.DB
	Root string
}

func NewFileStore(db *gorm.DB, root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage folder, %w", err)
	}

	return &FileStore{DB: db, Root: root}, nil
}

// Create validates and persists a new entity owned by userID. File and
// image content is decoded and written to a fresh disk path before the
// record is stored.
func (s *FileStore) Create(ctx context.Context, userID string, req *CreateRequest) (*model.File, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}

	switch req.Type {
	case model.TypeFolder, model.TypeFile, model.TypeImage:
	default:
		return nil, ErrMissingType
	}

	if req.Type != model.TypeFolder && req.Data == "" {
		return nil, ErrMissingData
	}

	if req.ParentID != "" {
		var parent model.File

		err := s.DB.WithContext(ctx).
			Where("id = ? AND user_id = ?", req.ParentID, userID).
			First(&parent).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}

		if parent.Type != model.TypeFolder {
			return nil, ErrParentNotFolder
		}
	}

	id, err := NewID()
	if err != nil {
		return nil, err
	}

	file := model.File{
		ID:        id,
		UserID:    userID,
		Name:      req.Name,
		Type:      req.Type,
		ParentID:  req.ParentID,
		IsPublic:  req.IsPublic,
		CreatedAt: time.Now().UnixMilli(),
	}

	if req.Type != model.TypeFolder {
		data, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, ErrInvalidData
		}

		localPath := filepath.Join(s.Root, util.RandStr(20))
		if err := os.WriteFile(localPath, data, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write content to disk, %w", err)
		}

		file.LocalPath = localPath
	}

	if err := s.DB.WithContext(ctx).Create(&file).Error; err != nil {
		return nil, err
	}

	return &file, nil
}

// Get returns an entity if requesterID may read it. Private entities of
// other users come back as ErrNotFound, never ErrForbidden.
func (s *FileStore) Get(ctx context.Context, id, requesterID string) (*model.File, error) {
	file, err := s.visible(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	return file, nil
}

// List returns the userID-owned entities under parentID (empty for the
// root), PageSize per page in creation order. Pages past the end are an
// empty slice.
func (s *FileStore) List(ctx context.Context, userID, parentID string, page int) ([]model.File, error) {
	files := []model.File{}

	if page < 0 {
		return files, nil
	}

	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND parent_id = ?", userID, parentID).
		Order("created_at asc").
		Offset(page * PageSize).
		Limit(PageSize).
		Find(&files).
		Error
	if err != nil {
		return nil, err
	}

	return files, nil
}

// SetPublic toggles the public flag. Only the owner may do this, and
// repeating a value is a no-op.
func (s *FileStore) SetPublic(ctx context.Context, id, requesterID string, public bool) (*model.File, error) {
	var file model.File

	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if file.UserID != requesterID {
		return nil, ErrForbidden
	}

	if file.IsPublic == public {
		return &file, nil
	}

	err = s.DB.WithContext(ctx).
		Model(&file).
		Update("is_public", public).
		Error
	if err != nil {
		return nil, err
	}

	return &file, nil
}

// ReadData returns the raw content of an entity, or of one of its
// thumbnails when size names a generated width. A thumbnail that hasn't
// been written yet is ErrNotFound; callers retry.
func (s *FileStore) ReadData(ctx context.Context, id, requesterID, size string) ([]byte, *model.File, error) {
	file, err := s.visible(ctx, id, requesterID)
	if err != nil {
		return nil, nil, err
	}

	if file.Type == model.TypeFolder {
		return nil, nil, ErrFolderNoContent
	}

	p := file.LocalPath
	if size != "" {
		if !validThumbnailSize(size) {
			return nil, nil, ErrInvalidSize
		}
		p = p + "_" + size
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	return data, file, nil
}

func (s *FileStore) Alive(ctx context.Context) bool {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return false
	}

	return sqlDB.PingContext(ctx) == nil
}

// visible is the one shared authorization check every read path goes
// through: readable by the owner unconditionally, by anyone else only
// when public. Anything else is ErrNotFound.
func (s *FileStore) visible(ctx context.Context, id, requesterID string) (*model.File, error) {
	var file model.File

	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if file.UserID != requesterID && !file.IsPublic {
		return nil, ErrNotFound
	}

	return &file, nil
}

func validThumbnailSize(size string) bool {
	for _, w := range ThumbnailWidths {
		if size == fmt.Sprintf("%d", w) {
			return true
		}
	}
	return false
}
