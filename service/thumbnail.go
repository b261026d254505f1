package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"filebox/files-api/model"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileJobHandler builds the handler the file queue worker pool runs:
// it derives the three fixed-width thumbnails next to the source blob.
func (s *FileStore) FileJobHandler() JobHandler {
	return func(ctx context.Context, j *Job) error {
		// The job only carries identifiers. The file is re-fetched by
		// id and owner so a delete or ownership change that raced the
		// queue can't be trusted from a stale snapshot.
		if j.FileID == "" {
			return errors.New("Missing fileId")
		}

		if j.UserID == "" {
			return errors.New("Missing userId")
		}

		var file model.File
		err := s.DB.WithContext(ctx).
			Where("id = ? AND user_id = ?", j.FileID, j.UserID).
			First(&file).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("File not found")
			}
			return err
		}

		now := time.Now()

		for _, width := range ThumbnailWidths {
			if err := ctx.Err(); err != nil {
				return err
			}

			if err := generateThumbnail(file.LocalPath, width); err != nil {
				return fmt.Errorf("failed to generate %d thumbnail, %w", width, err)
			}
		}

		zap.L().Debug("Thumbnails generated",
			zap.String("file_id", file.ID),
			zap.Duration("took", time.Since(now)))

		return nil
	}
}

// generateThumbnail scales the image at path to fit inside a
// width x width box, keeping aspect ratio, and writes it to
// <path>_<width>. Rerunning overwrites the same path, so redelivered
// jobs are safe.
func generateThumbnail(path string, width int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode image, %w", err)
	}

	outFormat, err := imaging.FormatFromExtension(format)
	if err != nil {
		outFormat = imaging.JPEG
	}

	thumb := imaging.Fit(img, width, width, imaging.Lanczos)

	out, err := os.Create(fmt.Sprintf("%s_%d", path, width))
	if err != nil {
		return err
	}
	defer out.Close()

	return imaging.Encode(out, thumb, outFormat)
}
