package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodbank-inventory/internal/model"
	"foodbank-inventory/internal/repository"
	"foodbank-inventory/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryService interface {
	CreateCategory(ctx context.Context, req *CreateCategoryRequest, actor string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID, actor string) (*model.Category, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)

	CreateProduct(ctx context.Context, req *CreateProductRequest, actor string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor string) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor string) (*model.Product, error)
	GetProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProductByName(ctx context.Context, name string) (*model.Product, error)
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

type CreateProductRequest struct {
	Name        string     `json:"name" validate:"notblank,max=255"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	Quantity    *int       `json:"quantity" validate:"omitnil,gte=0"` // Optional, defaults to 1
	CategoryID  *uuid.UUID `json:"category_id"`
}

// UpdateProductRequest is a partial patch: nil fields keep the stored value
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitnil,notblank,max=255"`
	Description *string `json:"description"`
	Quantity    *int    `json:"quantity" validate:"omitnil,gte=0"`
}

type inventoryService struct {
	store *repository.Store
	log   *logger.Logger
}

func NewInventoryService(store *repository.Store, log *logger.Logger) InventoryService {
	return &inventoryService{
		store: store,
		log:   log.With("service", "inventory"),
	}
}

func (s *inventoryService) CreateCategory(ctx context.Context, req *CreateCategoryRequest, actor string) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	duplicate := &ValidationError{Field: "name", Reason: fmt.Sprintf("category %q already exists", req.Name)}
	_, err := s.store.Categories.FindByNameKey(ctx, model.CategoryNameKey(req.Name))
	if err == nil {
		return nil, duplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check category name: %w", err)
	}

	category := &model.Category{Name: req.Name}
	category.CreatedBy = actor
	category.UpdatedBy = actor
	if err := s.store.Categories.Create(ctx, category); err != nil {
		// Lost a race with a concurrent create of the same name
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicate
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info("category created", "category_id", category.ID, "name", category.Name, "by", actor)
	return category, nil
}

// DeleteCategory refuses to delete a category that still holds products.
// A missing id yields (nil, nil).
func (s *inventoryService) DeleteCategory(ctx context.Context, id uuid.UUID, actor string) (*model.Category, error) {
	var deleted *model.Category
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		category, err := tx.Categories.LockByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}

		count, err := tx.Products.CountByCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("count category products: %w", err)
		}
		if count > 0 {
			return &ValidationError{Field: "category", Reason: fmt.Sprintf("%q still has %d products", category.Name, count)}
		}

		if err := tx.Categories.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		category.Products = []model.Product{}
		category.IndexProducts()
		deleted = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	if deleted != nil {
		s.log.Info("category deleted", "category_id", id, "by", actor)
	}
	return deleted, nil
}

func (s *inventoryService) GetCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.store.Categories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns (nil, nil) when the id does not resolve
func (s *inventoryService) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.store.Categories.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// CreateProduct stores the product and, when a category is given, links it.
// The category row is locked for the duration so it cannot be deleted midway.
func (s *inventoryService) CreateProduct(ctx context.Context, req *CreateProductRequest, actor string) (*model.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Quantity:    model.DefaultProductQuantity,
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	product.CreatedBy = actor
	product.UpdatedBy = actor

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if req.CategoryID != nil {
			categoryID := *req.CategoryID
			if _, err := tx.Categories.LockByID(ctx, categoryID); err != nil {
				return notFoundOr(err, "category", categoryID.String(), "load category")
			}
			product.CategoryID = &categoryID
		}
		if err := tx.Products.Create(ctx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("product created", "product_id", product.ID, "name", product.Name, "quantity", product.Quantity, "by", actor)
	return product, nil
}

// UpdateProduct applies only the fields present in req. The category link is
// not touched here.
func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor string) (*model.Product, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Quantity != nil {
		fields["quantity"] = *req.Quantity
	}
	if len(fields) > 0 {
		fields["updated_by"] = actor
	}

	product, err := s.store.Products.Update(ctx, id, fields)
	if err != nil {
		return nil, notFoundOr(err, "product", id.String(), "update product")
	}

	s.log.Info("product updated", "product_id", id, "fields", len(fields), "by", actor)
	return product, nil
}

// DeleteProduct returns the product as it was before deletion, or (nil, nil)
// when there was nothing to delete.
func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID, actor string) (*model.Product, error) {
	var snapshot *model.Product
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		product, err := tx.Products.FindByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load product: %w", err)
		}
		if err := tx.Products.Delete(ctx, id, actor); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		snapshot = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	if snapshot != nil {
		s.log.Info("product deleted", "product_id", id, "by", actor)
	}
	return snapshot, nil
}

func (s *inventoryService) GetProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.Products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProduct returns (nil, nil) when the id does not resolve
func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.store.Products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (s *inventoryService) GetProductByName(ctx context.Context, name string) (*model.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	product, err := s.store.Products.FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by name: %w", err)
	}
	return product, nil
}
