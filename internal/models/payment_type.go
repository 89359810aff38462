package models

import (
	"time"
)

// PaymentType is a named, image-illustrated category of payment method
type PaymentType struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for PaymentType
func (PaymentType) TableName() string {
	return "payment_types"
}

// PaymentTypeSummary is the public projection of a payment type
type PaymentTypeSummary struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CreatePaymentTypeRequest carries the text fields of a create request
type CreatePaymentTypeRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}
