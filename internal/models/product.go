package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID          gocql.UUID `json:"id" db:"product_id"`
	Name        string     `json:"name" db:"name"`
	Slug        string     `json:"slug" db:"slug"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	SalePrice   *float64   `json:"sale_price,omitempty" db:"sale_price"`
	CategoryID  gocql.UUID `json:"category_id" db:"category_id"`
	ImageURLs   []string   `json:"image_urls" db:"image_urls"`
	Tags        []string   `json:"tags" db:"tags"`
	IsFeatured  bool       `json:"is_featured" db:"is_featured"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	HasVariants bool       `json:"has_variants" db:"has_variants"`
	CreatedAt   *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// ProductVariant est une déclinaison achetable d'un produit.
// L'unicité (size, unit, flavor) est garantie par la clé de clustering
// de la table product_variants — flavor vide signifie "sans arôme".
type ProductVariant struct {
	ID        gocql.UUID `json:"id"`
	ProductID gocql.UUID `json:"product_id"`
	Size      string     `json:"size"`
	Unit      string     `json:"unit"`
	Flavor    string     `json:"flavor,omitempty"`
	Price     float64    `json:"price"`
	SalePrice *float64   `json:"sale_price,omitempty"`
	Stock     int        `json:"stock"`
	SKU       string     `json:"sku,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
