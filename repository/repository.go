// Package repository implements data access for the generation history ledger
package repository

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"contentagent.app/errors"
	"contentagent.app/models"
)

const defaultHistoryLimit = 20

// GenerationRepository records completed generation runs
type GenerationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository creates a repository backed by the given database
func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Create persists a completed run. The ID and timestamp are assigned here.
func (r *GenerationRepository) Create(generation *models.Generation) error {
	if generation.Topic == "" {
		return errors.NewValidationError("generation topic cannot be empty")
	}

	if generation.ID == "" {
		generation.ID = uuid.New().String()
	}
	if generation.CreatedAt.IsZero() {
		generation.CreatedAt = time.Now()
	}

	if result := r.db.Create(generation); result.Error != nil {
		slog.Error("failed to record generation", "topic", generation.Topic, "error", result.Error)
		return errors.NewDatabaseError("failed to record generation", result.Error)
	}

	slog.Debug("generation recorded", "id", generation.ID, "topic", generation.Topic)
	return nil
}

// ListRecent returns the most recent runs, newest first. A non-positive
// limit falls back to the default.
func (r *GenerationRepository) ListRecent(limit int) ([]models.Generation, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	var generations []models.Generation
	result := r.db.Order("created_at DESC").Limit(limit).Find(&generations)
	if result.Error != nil {
		return nil, errors.NewDatabaseError("failed to list generations", result.Error)
	}

	return generations, nil
}
