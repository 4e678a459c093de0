// Package database persists completed analyses in SQLite through gorm.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skinscan/models"
)

var ErrNotFound = errors.New("analysis not found")

// Store is the analysis history.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite file at path, creating its directory, and
// migrates the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s, err := New(db)
	if err != nil {
		return nil, err
	}
	slog.Debug("database connected and migrated", "path", path)
	return s, nil
}

// New wraps an open connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.Analysis{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Create(ctx context.Context, a *models.Analysis) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("save analysis %s: %w", a.ID, err)
	}
	return nil
}

// List returns one page of analyses, newest first, and the total count.
func (s *Store) List(ctx context.Context, limit, offset int) ([]models.Analysis, int64, error) {
	var (
		analyses []models.Analysis
		total    int64
	)
	db := s.db.WithContext(ctx)
	if err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&analyses).Error; err != nil {
		return nil, 0, fmt.Errorf("fetch analyses: %w", err)
	}
	if err := db.Model(&models.Analysis{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count analyses: %w", err)
	}
	return analyses, total, nil
}

// All returns every analysis, oldest first.
func (s *Store) All(ctx context.Context) ([]models.Analysis, error) {
	var analyses []models.Analysis
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&analyses).Error; err != nil {
		return nil, fmt.Errorf("fetch analyses: %w", err)
	}
	return analyses, nil
}

func (s *Store) Get(ctx context.Context, id string) (models.Analysis, error) {
	var a models.Analysis
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Analysis{}, ErrNotFound
	}
	if err != nil {
		return models.Analysis{}, fmt.Errorf("fetch analysis %s: %w", id, err)
	}
	return a, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Analysis{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete analysis %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type Statistics struct {
	TotalAnalyses int64            `json:"total_analyses"`
	ByPrimaryType map[string]int64 `json:"by_primary_type"`
	BySeverity    map[string]int64 `json:"by_severity"`
	AvgConfidence float64          `json:"avg_confidence"`
}

func (s *Store) Statistics(ctx context.Context) (Statistics, error) {
	db := s.db.WithContext(ctx)
	stats := Statistics{
		ByPrimaryType: map[string]int64{},
		BySeverity:    map[string]int64{},
	}

	if err := db.Model(&models.Analysis{}).Count(&stats.TotalAnalyses).Error; err != nil {
		return Statistics{}, fmt.Errorf("count analyses: %w", err)
	}

	var groups []struct {
		Name  string
		Count int64
	}
	if err := db.Model(&models.Analysis{}).Select("primary_type AS name, COUNT(*) AS count").Group("primary_type").Scan(&groups).Error; err != nil {
		return Statistics{}, fmt.Errorf("group by type: %w", err)
	}
	for _, g := range groups {
		stats.ByPrimaryType[g.Name] = g.Count
	}

	groups = nil
	if err := db.Model(&models.Analysis{}).Select("severity AS name, COUNT(*) AS count").Group("severity").Scan(&groups).Error; err != nil {
		return Statistics{}, fmt.Errorf("group by severity: %w", err)
	}
	for _, g := range groups {
		stats.BySeverity[g.Name] = g.Count
	}

	var avg *float64
	if err := db.Model(&models.Analysis{}).Select("AVG(confidence)").Scan(&avg).Error; err != nil {
		return Statistics{}, fmt.Errorf("average confidence: %w", err)
	}
	if avg != nil {
		stats.AvgConfidence = *avg
	}
	return stats, nil
}
