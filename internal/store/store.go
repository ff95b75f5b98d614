package store

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Nate0911/FancyKarma-Backend/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (must be: sqlite, postgres)", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto migrate
	if err := db.AutoMigrate(&models.VerificationLog{}); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Ping verifies database connectivity
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases the underlying database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateVerificationLog inserts a single audit row
func (s *Store) CreateVerificationLog(entry *models.VerificationLog) error {
	return s.db.Create(entry).Error
}

// CreateVerificationLogBatch inserts audit rows in one statement
func (s *Store) CreateVerificationLogBatch(entries []*models.VerificationLog) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.Create(entries).Error
}

// VerificationLogFilters contains filter criteria for querying audit rows
type VerificationLogFilters struct {
	Status    models.VerdictStatus
	Username  string
	StartTime time.Time
	EndTime   time.Time
}

// GetVerificationLogsPaginated retrieves audit rows with pagination and filtering,
// newest first
func (s *Store) GetVerificationLogsPaginated(
	params PaginationParams,
	filters VerificationLogFilters,
) ([]models.VerificationLog, PaginationResult, error) {
	filtered := func() *gorm.DB {
		query := s.db.Model(&models.VerificationLog{})
		if filters.Status != "" {
			query = query.Where("status = ?", filters.Status)
		}
		if filters.Username != "" {
			query = query.Where("username = ?", filters.Username)
		}
		if !filters.StartTime.IsZero() {
			query = query.Where("timestamp >= ?", filters.StartTime)
		}
		if !filters.EndTime.IsZero() {
			query = query.Where("timestamp <= ?", filters.EndTime)
		}
		if params.Search != "" {
			query = query.Where("username LIKE ?", "%"+params.Search+"%")
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	pagination := CalculatePagination(total, params.Page, params.PageSize)

	var logs []models.VerificationLog
	err := filtered().
		Order("timestamp DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PageSize).
		Limit(pagination.PageSize).
		Find(&logs).Error
	if err != nil {
		return nil, PaginationResult{}, err
	}

	return logs, pagination, nil
}

// VerificationLogStats aggregates verdict counts over a time window
type VerificationLogStats struct {
	Total  int64 `json:"total"`
	Passed int64 `json:"passed"`
	Failed int64 `json:"failed"`
	Banned int64 `json:"banned"`
}

// GetVerificationLogStats returns verdict counts between startTime and endTime
func (s *Store) GetVerificationLogStats(
	startTime, endTime time.Time,
) (VerificationLogStats, error) {
	var stats VerificationLogStats

	window := func() *gorm.DB {
		return s.db.Model(&models.VerificationLog{}).
			Where("timestamp >= ? AND timestamp <= ?", startTime, endTime)
	}

	if err := window().Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := window().Where("status = ?", models.VerdictPass).
		Count(&stats.Passed).Error; err != nil {
		return stats, err
	}
	if err := window().Where("status = ?", models.VerdictFail).
		Count(&stats.Failed).Error; err != nil {
		return stats, err
	}
	if err := window().Where("status = ?", models.VerdictBanned).
		Count(&stats.Banned).Error; err != nil {
		return stats, err
	}

	return stats, nil
}

// DeleteOldVerificationLogs removes audit rows older than cutoffTime and
// returns the number of deleted rows
func (s *Store) DeleteOldVerificationLogs(cutoffTime time.Time) (int64, error) {
	result := s.db.Where("timestamp < ?", cutoffTime).Delete(&models.VerificationLog{})
	return result.RowsAffected, result.Error
}
