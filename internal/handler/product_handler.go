package handler

import (
	"strconv"
	"strings"

	"go-shoplist/internal/model"
	"go-shoplist/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// Helper to read the user id set by RequireAuth
func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("user_id").(string)
	return uuid.Parse(raw)
}

func bearerToken(c *fiber.Ctx) string {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// ListProductsRequest carries page parameters as strings, matching the wire
// contract consumed by the clients.
type ListProductsRequest struct {
	CurrentPage string `json:"p_current_page"`
	ItemsPage   string `json:"p_items_page"`
}

// ProductFieldsRequest is the full field set sent on create and edit.
type ProductFieldsRequest struct {
	ProductID    string          `json:"p_product_id,omitempty"`
	Name         string          `json:"p_name"`
	Amount       int             `json:"p_amount"`
	AmountType   string          `json:"p_amount_type"`
	Price        decimal.Decimal `json:"p_price"`
	Observations *string         `json:"p_observations"`
	Image        *string         `json:"p_image"`
}

// ProductIDRequest addresses a single product.
type ProductIDRequest struct {
	ProductID string `json:"p_product_id"`
}

func (r *ProductFieldsRequest) toModel() *model.Product {
	return &model.Product{
		Name:         r.Name,
		Amount:       r.Amount,
		AmountType:   r.AmountType,
		Price:        r.Price,
		Observations: r.Observations,
		Image:        r.Image,
	}
}

// List returns one page of the caller's products
// POST /api/v1/products/list
func (h *ProductHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(model.Fail("Unauthorized"))
	}

	var req ListProductsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(model.Fail("Invalid JSON"))
	}

	page, err := strconv.Atoi(req.CurrentPage)
	if err != nil || page < 1 {
		return c.Status(400).JSON(model.Fail("p_current_page must be a positive integer"))
	}
	perPage, err := strconv.Atoi(req.ItemsPage)
	if err != nil || perPage < 1 {
		return c.Status(400).JSON(model.Fail("p_items_page must be a positive integer"))
	}

	products, pagination, err := h.service.ListProducts(userID, page, perPage)
	if err != nil {
		return c.Status(500).JSON(model.Fail("Failed to fetch products"))
	}

	return c.JSON(model.Response{
		Status:     true,
		Message:    "Products fetched",
		Data:       products,
		Pagination: pagination,
	})
}

// Create adds a product to the caller's list
// POST /api/v1/products/create
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(model.Fail("Unauthorized"))
	}

	var req ProductFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(model.Fail("Invalid JSON"))
	}

	product, err := h.service.CreateProduct(userID, req.toModel())
	if err != nil {
		return c.Status(400).JSON(model.Fail(err.Error()))
	}

	return c.Status(201).JSON(model.OK("Product created", product))
}

// Edit replaces the full field set of one product. p_image null clears the
// stored image; the key is always present on the wire.
// POST /api/v1/products/edit
func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(model.Fail("Unauthorized"))
	}

	var req ProductFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(model.Fail("Invalid JSON"))
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return c.Status(400).JSON(model.Fail("Invalid product ID"))
	}

	product, err := h.service.EditProduct(userID, productID, req.toModel())
	if err != nil {
		if err == service.ErrProductNotFound {
			return c.Status(404).JSON(model.Fail(err.Error()))
		}
		return c.Status(400).JSON(model.Fail(err.Error()))
	}

	return c.JSON(model.OK("Product updated", product))
}

// Get fetches one product by id
// POST /api/v1/products/get
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(model.Fail("Unauthorized"))
	}

	var req ProductIDRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(model.Fail("Invalid JSON"))
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return c.Status(400).JSON(model.Fail("Invalid product ID"))
	}

	product, err := h.service.GetProduct(userID, productID)
	if err != nil {
		return c.Status(404).JSON(model.Fail("Product not found"))
	}

	return c.JSON(model.OK("Product fetched", product))
}

// ToggleCart flips the added_cart flag of one product. Pure toggle: the body
// carries only the product id, never a target value.
// POST /api/v1/products/toggle-cart
func (h *ProductHandler) ToggleCart(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(model.Fail("Unauthorized"))
	}

	var req ProductIDRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(model.Fail("Invalid JSON"))
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return c.Status(400).JSON(model.Fail("Invalid product ID"))
	}

	product, err := h.service.ToggleCart(userID, productID)
	if err != nil {
		if err == service.ErrProductNotFound {
			return c.Status(404).JSON(model.Fail(err.Error()))
		}
		return c.Status(500).JSON(model.Fail("Failed to update cart"))
	}

	return c.JSON(model.OK("Cart updated", product))
}

// Summary aggregates the caller's list for the home header
// GET /api/v1/cart/summary
func (h *ProductHandler) Summary(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(model.Fail("Unauthorized"))
	}

	summary, err := h.service.Summary(userID)
	if err != nil {
		return c.Status(500).JSON(model.Fail("Failed to compute summary"))
	}

	return c.JSON(model.OK("Summary computed", summary))
}
