package storage

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lanbeam/lanbeam/models"
)

// History is the append-only transfer history backed by an embedded sqlite
// database. Rows are never deleted; the only mutation ever applied is a
// status update on an originating upload row.
type History struct {
	db *gorm.DB
}

// OpenHistory opens (creating if needed) the history database at path and
// migrates the transfer_history table.
func OpenHistory(path string, logLevel string) (*History, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(logLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dsn := fmt.Sprintf("%s?_busy_timeout=15000&_journal_mode=WAL", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gLogger})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.AutoMigrate(&models.HistoryEntry{}); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &History{db: db}, nil
}

// Append inserts one history row.
func (h *History) Append(entry *models.HistoryEntry) error {
	return h.db.Create(entry).Error
}

// UpdateStatus updates the status column of the row with the given id.
// A missing row is not an error.
func (h *History) UpdateStatus(id, status string) error {
	return h.db.Model(&models.HistoryEntry{}).Where("id = ?", id).Update("status", status).Error
}

// ListAll returns every row ordered by (timestamp, id) ascending.
func (h *History) ListAll() ([]models.HistoryEntry, error) {
	var rows []models.HistoryEntry
	err := h.db.Order("timestamp ASC, id ASC").Find(&rows).Error
	return rows, err
}

// ListByDevice returns the rows attributed to one device, ordered by
// (timestamp, id) ascending.
func (h *History) ListByDevice(deviceID string) ([]models.HistoryEntry, error) {
	var rows []models.HistoryEntry
	err := h.db.Where("device_id = ?", deviceID).Order("timestamp ASC, id ASC").Find(&rows).Error
	return rows, err
}

// GetByID returns the row with the given id, or (nil, nil) when absent.
func (h *History) GetByID(id string) (*models.HistoryEntry, error) {
	var row models.HistoryEntry
	err := h.db.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Close releases the underlying database handle.
func (h *History) Close() error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// toGormLogLevel maps the application log level to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}
