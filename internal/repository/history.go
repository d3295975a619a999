package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Subasree2717/agropredictor/internal/models"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryStore persists recommendations and chat exchanges
type HistoryStore interface {
	SavePrediction(ctx context.Context, p *models.Prediction) error
	ListPredictions(ctx context.Context, filter models.HistoryFilter) ([]models.Prediction, error)
	SaveChat(ctx context.Context, m *models.ChatMessage) error
	ListChats(ctx context.Context, filter models.HistoryFilter) ([]models.ChatMessage, error)
}

// HistoryRepository is the GORM implementation of HistoryStore
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) SavePrediction(ctx context.Context, p *models.Prediction) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

func (r *HistoryRepository) ListPredictions(ctx context.Context, filter models.HistoryFilter) ([]models.Prediction, error) {
	var out []models.Prediction
	if err := page(r.db.WithContext(ctx), filter).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return out, nil
}

func (r *HistoryRepository) SaveChat(ctx context.Context, m *models.ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

func (r *HistoryRepository) ListChats(ctx context.Context, filter models.HistoryFilter) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	if err := page(r.db.WithContext(ctx), filter).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list chat history: %w", err)
	}
	return out, nil
}

// bounds clamps a filter to a usable limit and a non-negative offset
func bounds(filter models.HistoryFilter) (limit, offset int) {
	limit = filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return limit, max(filter.Offset, 0)
}

// page applies limit, offset and newest-first ordering
func page(q *gorm.DB, filter models.HistoryFilter) *gorm.DB {
	limit, offset := bounds(filter)
	q = q.Limit(limit)
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q.Order("created_at DESC")
}
