package repository

import (
	"context"

	"foodbank-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	FindAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindByNameKey(ctx context.Context, key string) (*model.Category, error)
	LockByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

// withProducts preloads live products in insertion order
func withProducts(db *gorm.DB) *gorm.DB {
	return db.Preload("Products", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	category.NameKey = model.CategoryNameKey(category.Name)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error; err != nil {
		return err
	}
	category.Products = []model.Product{}
	category.IndexProducts()
	return nil
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := withProducts(r.db.WithContext(ctx)).Order("created_at ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].IndexProducts()
	}
	return categories, nil
}

func (r *categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := withProducts(r.db.WithContext(ctx)).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	category.IndexProducts()
	return &category, nil
}

func (r *categoryRepo) FindByNameKey(ctx context.Context, key string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, "name_key = ?", key).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// LockByID loads the bare category row with FOR UPDATE (a no-op on SQLite).
// Must run inside Store.Transaction.
func (r *categoryRepo) LockByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes the row for good so the name can be reused
func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&model.Category{}, "id = ?", id).Error
}
