package service

import (
	"context"

	"filebox/files-api/model"

	"gorm.io/gorm"
)

// StatsReporter answers read-only cardinality questions for the
// liveness endpoints
type StatsReporter struct {
	DB *gorm.DB
}

func NewStatsReporter(db *gorm.DB) *StatsReporter {
	return &StatsReporter{DB: db}
}

func (s *StatsReporter) NbUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&model.User{}).Count(&n).Error
	return n, err
}

func (s *StatsReporter) NbFiles(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&model.File{}).Count(&n).Error
	return n, err
}
