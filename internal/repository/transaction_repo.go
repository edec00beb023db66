package repository

import (
	"context"
	"time"

	"foodbank-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	FindAll(ctx context.Context) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	FindSince(ctx context.Context, since time.Time) ([]model.Transaction, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// withLines preloads lines in the order they were written, plus each line's
// product (soft deleted products included so history still renders).
func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lines.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

// Create stores the movement and its lines in one statement batch
func (r *transactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindAll returns transactions newest first
func (r *transactionRepo) FindAll(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := withLines(r.db.WithContext(ctx)).Order("created_at DESC, id ASC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := withLines(r.db.WithContext(ctx)).First(&transaction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) FindSince(ctx context.Context, since time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := withLines(r.db.WithContext(ctx)).
		Where("created_at >= ?", since.UTC()).
		Order("created_at ASC, id ASC").
		Find(&transactions).Error
	return transactions, err
}
