package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Amount types offered by the list. Only "unit" exists today.
const (
	AmountTypeUnit = "unit"
)

// Product is a shopping-list entry owned by a single user.
type Product struct {
	BaseModel
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id" validate:"uuid_required"`
	User       *User           `gorm:"foreignKey:UserID" json:"-" validate:"-"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Amount     int             `gorm:"type:smallint;not null" json:"amount" validate:"required,gt=0,lte=32767"`
	AmountType string          `gorm:"type:varchar(20);not null;default:'unit'" json:"amount_type" validate:"required,oneof=unit"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`

	// Optional fields are nullable so "absent" round-trips as JSON null.
	Observations *string `gorm:"type:varchar(1000)" json:"observations"`
	Image        *string `gorm:"type:text" json:"image"`

	// The only field with its own single-purpose mutation (toggle).
	AddedCart bool `gorm:"default:false" json:"added_cart"`
}
