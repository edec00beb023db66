package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories that share one *gorm.DB handle
type Store struct {
	db           *gorm.DB
	Users        UserRepository
	Categories   CategoryRepository
	Products     ProductRepository
	Transactions TransactionRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Users:        NewUserRepo(db),
		Categories:   NewCategoryRepo(db),
		Products:     NewProductRepo(db),
		Transactions: NewTransactionRepo(db),
	}
}

// Transaction runs fn against a Store bound to a single database transaction.
// Everything inside fn must go through tx, never the outer Store.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
