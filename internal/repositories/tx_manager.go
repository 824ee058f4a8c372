package repositories

import (
	"context"

	"gorm.io/gorm"
)

// TxRepos exposes repositories bound to one transaction.
type TxRepos interface {
	Products() ProductRepository
	Categories() CategoryRepository
	Brands() BrandRepository
}

// TransactionManager runs fn in a transaction. It commits when fn returns nil
// and rolls back when fn returns an error or panics.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}

type gormTxRepos struct {
	products   ProductRepository
	categories CategoryRepository
	brands     BrandRepository
}

func (r *gormTxRepos) Products() ProductRepository    { return r.products }
func (r *gormTxRepos) Categories() CategoryRepository { return r.categories }
func (r *gormTxRepos) Brands() BrandRepository        { return r.brands }

// GORMTxManager is a GORM implementation of TransactionManager.
type GORMTxManager struct {
	db *gorm.DB
}

func NewGORMTxManager(db *gorm.DB) *GORMTxManager {
	return &GORMTxManager{db: db}
}

func (m *GORMTxManager) WithinTx(ctx context.Context, fn func(r TxRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepos{
			products:   NewGORMProductRepository(tx),
			categories: NewGORMCategoryRepository(tx),
			brands:     NewGORMBrandRepository(tx),
		})
	})
}
