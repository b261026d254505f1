package service

import (
	"context"
	"errors"
	"fmt"

	"filebox/files-api/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserJobHandler builds the handler for welcome jobs. There is no real
// delivery channel, the notification is log-only.
func UserJobHandler(db *gorm.DB) JobHandler {
	return func(ctx context.Context, j *Job) error {
		if j.UserID == "" {
			return errors.New("Missing userId")
		}

		var user model.User
		err := db.WithContext(ctx).Where("id = ?", j.UserID).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("User not found")
			}
			return err
		}

		zap.L().Info(fmt.Sprintf("Welcome %s!", user.Email))
		return nil
	}
}
