package repository

import (
	"go-shoplist/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSummary aggregates the caller's list for the summary endpoint.
type CartSummary struct {
	TotalProducts int64           `json:"total_products"`
	InCart        int64           `json:"in_cart"`
	CartTotal     decimal.Decimal `json:"cart_total"`
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindPage(userID uuid.UUID, page, perPage int) ([]model.Product, int64, error)
	FindByID(userID, id uuid.UUID) (*model.Product, error)
	UpdateWithLock(userID, id uuid.UUID, apply func(product *model.Product) error) (*model.Product, error)
	Summary(userID uuid.UUID) (*CartSummary, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

// FindPage returns one page of the user's products (newest first) plus the
// total row count so the caller can derive total_pages.
func (r *productRepo) FindPage(userID uuid.UUID, page, perPage int) ([]model.Product, int64, error) {
	var total int64
	if err := r.db.Model(&model.Product{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []model.Product
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) FindByID(userID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateWithLock loads the product under a FOR UPDATE row lock, applies the
// mutation, and persists the result, all inside one transaction. Concurrent
// callers serialize on the lock.
func (r *productRepo) UpdateWithLock(userID, id uuid.UUID, apply func(product *model.Product) error) (*model.Product, error) {
	var product model.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return err
		}
		if err := apply(&product); err != nil {
			return err
		}
		return tx.Save(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Summary(userID uuid.UUID) (*CartSummary, error) {
	var summary CartSummary
	if err := r.db.Model(&model.Product{}).Where("user_id = ?", userID).Count(&summary.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Where("user_id = ? AND added_cart = ?", userID, true).Count(&summary.InCart).Error; err != nil {
		return nil, err
	}

	var total struct {
		Total decimal.Decimal
	}
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(price * amount), 0) AS total").
		Where("user_id = ? AND added_cart = ?", userID, true).
		Scan(&total).Error
	if err != nil {
		return nil, err
	}
	summary.CartTotal = total.Total
	return &summary, nil
}
