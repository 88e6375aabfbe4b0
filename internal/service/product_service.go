package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"go-shoplist/internal/model"
	"go-shoplist/internal/repository"
	"go-shoplist/internal/ws"
	"go-shoplist/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPage     = errors.New("page number must be at least 1")
)

// ProductService carries the full field set on both create and edit. There is
// no partial update: edit always replaces every field, including Image (nil
// clears a previously stored image).
type ProductService interface {
	CreateProduct(userID uuid.UUID, product *model.Product) (*model.Product, error)
	EditProduct(userID, productID uuid.UUID, product *model.Product) (*model.Product, error)
	GetProduct(userID, productID uuid.UUID) (*model.Product, error)
	ListProducts(userID uuid.UUID, page, perPage int) ([]model.Product, *model.Pagination, error)
	ToggleCart(userID, productID uuid.UUID) (*model.Product, error)
	Summary(userID uuid.UUID) (*repository.CartSummary, error)
}

type productService struct {
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
}

func NewProductService(repo repository.ProductRepository, hub *ws.Hub) ProductService {
	return &productService{
		productRepo: repo,
		wsHub:       hub,
	}
}

func (s *productService) CreateProduct(userID uuid.UUID, product *model.Product) (*model.Product, error) {
	product.UserID = userID
	normalize(product)

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	go s.wsHub.BroadcastEvent(ws.EventProductCreated, map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	return product, nil
}

func (s *productService) EditProduct(userID, productID uuid.UUID, product *model.Product) (*model.Product, error) {
	product.UserID = userID
	normalize(product)

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	updated, err := s.productRepo.UpdateWithLock(userID, productID, func(existing *model.Product) error {
		// Full-record replacement. A nil Image clears the stored URL; there is
		// no "leave unchanged" at this boundary.
		existing.Name = product.Name
		existing.Amount = product.Amount
		existing.AmountType = product.AmountType
		existing.Price = product.Price
		existing.Observations = product.Observations
		existing.Image = product.Image
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	go s.wsHub.BroadcastEvent(ws.EventProductUpdated, map[string]interface{}{
		"product_id": updated.ID,
		"name":       updated.Name,
	})

	return updated, nil
}

func (s *productService) GetProduct(userID, productID uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(userID, productID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *productService) ListProducts(userID uuid.UUID, page, perPage int) ([]model.Product, *model.Pagination, error) {
	if page < 1 {
		return nil, nil, ErrInvalidPage
	}
	if perPage < 1 {
		perPage = 10
	}

	products, total, err := s.productRepo.FindPage(userID, page, perPage)
	if err != nil {
		return nil, nil, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	return products, &model.Pagination{
		CurrentPage: page,
		TotalItems:  total,
		TotalPages:  totalPages,
	}, nil
}

// ToggleCart flips added_cart under the repository's row lock. The mutation is
// a pure toggle: it carries no target value, so concurrent calls serialize on
// the lock and each one inverts whatever the previous writer left.
func (s *productService) ToggleCart(userID, productID uuid.UUID) (*model.Product, error) {
	toggled, err := s.productRepo.UpdateWithLock(userID, productID, func(existing *model.Product) error {
		existing.AddedCart = !existing.AddedCart
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	go s.wsHub.BroadcastEvent(ws.EventCartToggled, map[string]interface{}{
		"product_id": toggled.ID,
		"added_cart": toggled.AddedCart,
	})

	return toggled, nil
}

func (s *productService) Summary(userID uuid.UUID) (*repository.CartSummary, error) {
	return s.productRepo.Summary(userID)
}

// validateProduct runs the model's tag rules plus the bounds the tags cannot
// express. Lengths are counted in characters to match the column semantics.
func validateProduct(p *model.Product) error {
	if errs := validator.ValidateStruct(p); len(errs) > 0 {
		return errs[0]
	}
	if p.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	if p.Observations != nil && utf8.RuneCountInString(*p.Observations) > 1000 {
		return errors.New("observations must not exceed 1000 characters")
	}
	return nil
}

func normalize(p *model.Product) {
	p.Name = strings.TrimSpace(p.Name)
	if p.AmountType == "" {
		p.AmountType = model.AmountTypeUnit
	}
	if p.Observations != nil {
		trimmed := strings.TrimSpace(*p.Observations)
		if trimmed == "" {
			p.Observations = nil
		} else {
			p.Observations = &trimmed
		}
	}
}
