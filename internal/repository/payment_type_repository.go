package repository

import (
	"context"
	"fmt"

	"github.com/ZerkerEOD/paytypes-backend/internal/models"
	"gorm.io/gorm"
)

// PaymentTypeRepository handles database operations for payment types
type PaymentTypeRepository struct {
	db *gorm.DB
}

// NewPaymentTypeRepository creates a new payment type repository
func NewPaymentTypeRepository(db *gorm.DB) *PaymentTypeRepository {
	return &PaymentTypeRepository{db: db}
}

// List returns every payment type projected to its name and image, oldest first
func (r *PaymentTypeRepository) List(ctx context.Context) ([]models.PaymentTypeSummary, error) {
	var summaries []models.PaymentTypeSummary
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentType{}).
		Select("name", "image").
		Order("id ASC").
		Find(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment types: %w", err)
	}

	if summaries == nil {
		summaries = []models.PaymentTypeSummary{}
	}
	return summaries, nil
}

// Create inserts a new payment type. The generated ID is set on paymentType.
func (r *PaymentTypeRepository) Create(ctx context.Context, paymentType *models.PaymentType) error {
	if err := r.db.WithContext(ctx).Create(paymentType).Error; err != nil {
		return fmt.Errorf("failed to create payment type: %w", err)
	}
	return nil
}
