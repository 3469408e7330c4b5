package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID    uuid.UUID `gorm:"primaryKey"           json:"id"`
	Name  string    `gorm:"not null"             json:"name"`
	Slug  string    `gorm:"uniqueIndex;not null" json:"slug"`
	Image string    `json:"image"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type SubCategory struct {
	ID         uuid.UUID `gorm:"primaryKey"           json:"id"`
	Name       string    `gorm:"not null"             json:"name"`
	Slug       string    `gorm:"uniqueIndex;not null" json:"slug"`
	Image      string    `json:"image"`
	CategoryID uuid.UUID `gorm:"index;not null"       json:"category_id"`
}

func (s *SubCategory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID            uuid.UUID       `gorm:"primaryKey"           json:"id"`
	Name          string          `gorm:"not null"             json:"name"`
	Slug          string          `gorm:"uniqueIndex;not null" json:"slug"`
	CategoryID    uuid.UUID       `gorm:"index;not null"       json:"category_id"`
	SubCategoryID uuid.UUID       `gorm:"index;not null"       json:"sub_category_id"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Image         string          `json:"image"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type CartEntry struct {
	ID        uuid.UUID `gorm:"primaryKey"                             json:"id"`
	BuyerID   uuid.UUID `gorm:"uniqueIndex:idx_buyer_product;not null" json:"buyer_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_buyer_product;not null" json:"product_id"`
	Quantity  uint      `gorm:"not null;check:quantity>0"              json:"quantity"`
}

func (e *CartEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (CartEntry) TableName() string {
	return "cart_entries"
}
