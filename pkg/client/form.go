package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Field bounds enforced before any network call. The name bound is 255
// everywhere, matching the stored column.
const (
	MaxNameLength  = 255
	MaxNotesLength = 1000
	MaxAmount      = 32767
	AmountTypeUnit = "unit"
)

// DefaultSuccessDelay keeps the success state visible before OnSuccess fires.
const DefaultSuccessDelay = 1500 * time.Millisecond

// ErrSubmitInFlight means Submit was called while a previous submission from
// the same form had not settled.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// ValidationError is a local precondition failure. It never reaches the
// network and is always fixable by correcting the named field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UploadError marks a failed image upload. The dependent write was never
// attempted.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("image upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// ImageFile is a pending image attachment, validated at attach time.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ProductForm drives the create/edit submission pipeline: local validation,
// optional image upload, then the dependent create-or-edit call. Inputs stay
// strings, the way form fields arrive; parsing happens during validation.
type ProductForm struct {
	api      ProductsAPI
	uploader Uploader

	productID string // empty in create mode

	Name       string
	Quantity   string
	AmountType string
	Price      string
	Notes      string

	// SuccessDelay and OnSuccess model the post-success transition: the
	// callback fires after the delay so a success message stays visible.
	SuccessDelay time.Duration
	OnSuccess    func()

	mu              sync.Mutex
	busy            bool
	image           *ImageFile
	currentImageURL *string // edit mode: URL persisted on the entity
	imageRemoved    bool    // edit mode: user cleared the image
}

// NewCreateForm builds a form for a new product.
func NewCreateForm(api ProductsAPI, uploader Uploader) *ProductForm {
	return &ProductForm{
		api:          api,
		uploader:     uploader,
		AmountType:   AmountTypeUnit,
		SuccessDelay: DefaultSuccessDelay,
	}
}

// NewEditForm builds a form bound to an existing product. Call Load before
// rendering so the fields are seeded from the persisted record.
func NewEditForm(api ProductsAPI, uploader Uploader, productID string) *ProductForm {
	f := NewCreateForm(api, uploader)
	f.productID = productID
	return f
}

// Load seeds every field from the persisted record, including the image
// preview URL. A missing product or absent session terminates the edit view
// before any form is shown.
func (f *ProductForm) Load(ctx context.Context) error {
	if f.productID == "" {
		return &ValidationError{Field: "product_id", Message: "no product id provided"}
	}

	product, err := f.api.Get(ctx, f.productID)
	if err != nil {
		return err
	}

	f.Name = product.Name
	f.Quantity = strconv.Itoa(product.Amount)
	f.AmountType = product.AmountType
	f.Price = product.Price.String()
	if product.Observations != nil {
		f.Notes = *product.Observations
	} else {
		f.Notes = ""
	}

	f.mu.Lock()
	f.image = nil
	f.imageRemoved = false
	f.currentImageURL = product.Image
	f.mu.Unlock()

	return nil
}

// AttachImage validates and stages an image. Rejections happen locally,
// before any upload is attempted.
func (f *ProductForm) AttachImage(name, contentType string, data []byte) error {
	if !strings.HasPrefix(contentType, "image/") {
		return &ValidationError{Field: "image", Message: "selected file is not an image"}
	}
	if len(data) > MaxImageSize {
		return &ValidationError{Field: "image", Message: "image must not exceed 5MB"}
	}

	f.mu.Lock()
	f.image = &ImageFile{Name: name, ContentType: contentType, Data: data}
	f.imageRemoved = false
	f.mu.Unlock()
	return nil
}

// RemoveImage clears any staged image. In edit mode it also marks the
// persisted image for removal: the write payload carries an explicit null
// rather than omitting the field.
func (f *ProductForm) RemoveImage() {
	f.mu.Lock()
	f.image = nil
	if f.currentImageURL != nil {
		f.imageRemoved = true
	}
	f.mu.Unlock()
}

// ImagePreviewURL returns the persisted image URL, if the entity has one and
// it has not been removed or replaced.
func (f *ProductForm) ImagePreviewURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.imageRemoved || f.currentImageURL == nil {
		return ""
	}
	return *f.currentImageURL
}

// validate enforces the precondition order and short-circuits on the first
// failure.
func (f *ProductForm) validate() (*ProductFields, *ValidationError) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "product name is required"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, &ValidationError{Field: "name", Message: fmt.Sprintf("product name must not exceed %d characters", MaxNameLength)}
	}

	amount, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
	if err != nil || amount <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must be a positive whole number"}
	}
	if amount > MaxAmount {
		return nil, &ValidationError{Field: "quantity", Message: fmt.Sprintf("quantity must not exceed %d", MaxAmount)}
	}

	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil || price.IsNegative() {
		return nil, &ValidationError{Field: "price", Message: "price must be a non-negative number"}
	}

	if utf8.RuneCountInString(f.Notes) > MaxNotesLength {
		return nil, &ValidationError{Field: "notes", Message: fmt.Sprintf("observations must not exceed %d characters", MaxNotesLength)}
	}

	fields := &ProductFields{
		Name:       name,
		Amount:     amount,
		AmountType: f.AmountType,
		Price:      price,
	}
	if fields.AmountType == "" {
		fields.AmountType = AmountTypeUnit
	}
	if notes := strings.TrimSpace(f.Notes); notes != "" {
		fields.Observations = &notes
	}
	return fields, nil
}

// Submit runs the pipeline: validate, upload the staged image if any, then
// issue the create or edit call. The upload must succeed before the dependent
// write is attempted; an upload failure aborts the submission and surfaces as
// an UploadError. One submission per form may be in flight at a time.
func (f *ProductForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.busy = true
	image := f.image
	currentImageURL := f.currentImageURL
	imageRemoved := f.imageRemoved
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	edit := f.productID != ""

	fields, verr := f.validate()
	if verr != nil {
		return verr
	}

	// Resolve the image field. Order matters: a requested upload must settle
	// successfully before the write call is built.
	switch {
	case image != nil:
		uploaded, err := f.uploader.Upload(ctx, image.Name, image.ContentType, image.Data)
		if err != nil {
			return &UploadError{Err: err}
		}
		fields.Image = &uploaded.PublicURL
	case edit && imageRemoved:
		fields.Image = nil // explicit null: remove, not "no change"
	case edit:
		fields.Image = currentImageURL
	}

	var err error
	if edit {
		_, err = f.api.Edit(ctx, f.productID, *fields)
	} else {
		_, err = f.api.Create(ctx, *fields)
	}
	if err != nil {
		return err
	}

	if f.OnSuccess != nil {
		time.AfterFunc(f.SuccessDelay, f.OnSuccess)
	}
	return nil
}

// Busy reports whether a submission is in flight; a submit control should be
// inert while it is.
func (f *ProductForm) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}
