package client

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Product mirrors the data endpoint's read model. The id is opaque and
// assigned by the server at creation time.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Amount       int             `json:"amount"`
	AmountType   string          `json:"amount_type"`
	Price        decimal.Decimal `json:"price"`
	Observations *string         `json:"observations"`
	Image        *string         `json:"image"`
	AddedCart    bool            `json:"added_cart"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ProductFields is the full field set carried by both mutations. Image is a
// pointer without omitempty: nil marshals as an explicit null, which on edit
// means "remove", never "no change".
type ProductFields struct {
	Name         string          `json:"p_name"`
	Amount       int             `json:"p_amount"`
	AmountType   string          `json:"p_amount_type"`
	Price        decimal.Decimal `json:"p_price"`
	Observations *string         `json:"p_observations"`
	Image        *string         `json:"p_image"`
}

// ProductPage is one page of the listing plus its pagination block.
type ProductPage struct {
	Items      []Product
	Pagination Pagination
}

// ProductsAPI is the data-endpoint surface consumed by the controllers.
type ProductsAPI interface {
	List(ctx context.Context, page, perPage int) (*ProductPage, error)
	Create(ctx context.Context, fields ProductFields) (*Product, error)
	Edit(ctx context.Context, productID string, fields ProductFields) (*Product, error)
	Get(ctx context.Context, productID string) (*Product, error)
	ToggleCart(ctx context.Context, productID string) error
}

// ProductsClient implements ProductsAPI over the RPC endpoints. Every call
// requires a session from the injected provider.
type ProductsClient struct {
	c       *Client
	session SessionProvider
}

func NewProductsClient(c *Client, session SessionProvider) *ProductsClient {
	return &ProductsClient{c: c, session: session}
}

func (p *ProductsClient) token(ctx context.Context) (string, error) {
	session, err := p.session.Current(ctx)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}

type listRequest struct {
	CurrentPage string `json:"p_current_page"`
	ItemsPage   string `json:"p_items_page"`
}

func (p *ProductsClient) List(ctx context.Context, page, perPage int) (*ProductPage, error) {
	token, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	env, err := p.c.postJSON(ctx, "/api/v1/products/list", token, listRequest{
		CurrentPage: strconv.Itoa(page),
		ItemsPage:   strconv.Itoa(perPage),
	})
	if err != nil {
		return nil, err
	}

	result := &ProductPage{}
	if err := env.decodeData(&result.Items); err != nil && err != errNoData {
		return nil, err
	}
	if env.Pagination != nil {
		result.Pagination = *env.Pagination
	}
	return result, nil
}

func (p *ProductsClient) Create(ctx context.Context, fields ProductFields) (*Product, error) {
	token, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	env, err := p.c.postJSON(ctx, "/api/v1/products/create", token, fields)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := env.decodeData(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

type editRequest struct {
	ProductID string `json:"p_product_id"`
	ProductFields
}

func (p *ProductsClient) Edit(ctx context.Context, productID string, fields ProductFields) (*Product, error) {
	token, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	env, err := p.c.postJSON(ctx, "/api/v1/products/edit", token, editRequest{
		ProductID:     productID,
		ProductFields: fields,
	})
	if err != nil {
		return nil, err
	}

	var product Product
	if err := env.decodeData(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

type productIDRequest struct {
	ProductID string `json:"p_product_id"`
}

func (p *ProductsClient) Get(ctx context.Context, productID string) (*Product, error) {
	token, err := p.token(ctx)
	if err != nil {
		return nil, err
	}

	env, err := p.c.postJSON(ctx, "/api/v1/products/get", token, productIDRequest{ProductID: productID})
	if err != nil {
		return nil, err
	}

	var product Product
	if err := env.decodeData(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ToggleCart is a pure toggle: no target value crosses the wire.
func (p *ProductsClient) ToggleCart(ctx context.Context, productID string) error {
	token, err := p.token(ctx)
	if err != nil {
		return err
	}

	_, err = p.c.postJSON(ctx, "/api/v1/products/toggle-cart", token, productIDRequest{ProductID: productID})
	return err
}
