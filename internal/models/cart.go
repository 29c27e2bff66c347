package models

import (
	"time"

	"github.com/gocql/gocql"
)

// NoVariant est la valeur sentinelle pour "produit sans variante".
// La comparaison doit être exacte : l'absence de variante ne matche
// que l'absence de variante.
var NoVariant = gocql.UUID{}

// CartItem est une ligne du panier. La clé primaire de cart_items est
// ((user_id), product_id, variant_id) : il ne peut donc exister qu'une
// seule ligne par tuple, même sous requêtes concurrentes.
type CartItem struct {
	ItemID    gocql.UUID `json:"item_id"`
	UserID    string     `json:"user_id"`
	ProductID gocql.UUID `json:"product_id"`
	VariantID gocql.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity"`
	AddedAt   time.Time  `json:"added_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// HasVariant indique si la ligne référence une variante précise.
func (ci CartItem) HasVariant() bool {
	return ci.VariantID != NoVariant
}

// CartLine est une ligne de panier enrichie au moment de la lecture
// avec les données catalogue courantes (prix, stock, image). Le prix
// n'est figé qu'au checkout.
type CartLine struct {
	ItemID     gocql.UUID `json:"item_id"`
	ProductID  gocql.UUID `json:"product_id"`
	VariantID  gocql.UUID `json:"variant_id,omitempty"`
	Name       string     `json:"name"`
	Size       string     `json:"size,omitempty"`
	Unit       string     `json:"unit,omitempty"`
	Flavor     string     `json:"flavor,omitempty"`
	UnitPrice  float64    `json:"unit_price"`
	Quantity   int        `json:"quantity"`
	LineTotal  float64    `json:"line_total"`
	Stock      int        `json:"stock"`
	ImageURL   string     `json:"image_url,omitempty"`
	HasVariant bool       `json:"has_variant"`
}
