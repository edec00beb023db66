package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"foodbank-inventory/internal/aggregate"
	"foodbank-inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxMovementDays bounds the stock movement window
const MaxMovementDays = 366

type DashboardService interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
	GetTransactions(ctx context.Context) ([]aggregate.Row, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*aggregate.Row, error)
	GetStockMovement(ctx context.Context, days int) ([]aggregate.DayMovement, error)
}

// Dashboard is what the admin landing page renders
type Dashboard struct {
	Stats        aggregate.DashboardStats `json:"stats"`
	Transactions []aggregate.Row          `json:"transactions"`
}

type dashboardService struct {
	store *repository.Store
	loc   *time.Location
	now   func() time.Time
}

func NewDashboardService(store *repository.Store, loc *time.Location) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{store: store, loc: loc, now: time.Now}
}

func (s *dashboardService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	products, err := s.store.Products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	categories, err := s.store.Categories.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	transactions, err := s.store.Transactions.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	rows := slices.Collect(aggregate.Rows(transactions))
	if rows == nil {
		rows = []aggregate.Row{}
	}
	return &Dashboard{
		Stats:        aggregate.Summarize(products, categories, transactions),
		Transactions: rows,
	}, nil
}

func (s *dashboardService) GetTransactions(ctx context.Context) ([]aggregate.Row, error) {
	transactions, err := s.store.Transactions.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	rows := slices.Collect(aggregate.Rows(transactions))
	if rows == nil {
		rows = []aggregate.Row{}
	}
	return rows, nil
}

// GetTransaction returns one movement row, or nil when the id is unknown
func (s *dashboardService) GetTransaction(ctx context.Context, id uuid.UUID) (*aggregate.Row, error) {
	transaction, err := s.store.Transactions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	row := aggregate.NewRow(transaction)
	return &row, nil
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]aggregate.DayMovement, error) {
	if days <= 0 || days > MaxMovementDays {
		return nil, &ValidationError{Field: "days", Reason: fmt.Sprintf("must be between 1 and %d", MaxMovementDays)}
	}
	end := s.now().In(s.loc)
	start := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, -(days - 1))

	transactions, err := s.store.Transactions.FindSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return aggregate.Movement(transactions, end, days, s.loc), nil
}
