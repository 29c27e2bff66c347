package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de commande.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Statuts de paiement (axe indépendant du statut de commande).
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Modes de paiement.
const (
	PaymentMethodCOD  = "cod" // paiement à la livraison, marqué payé à la création
	PaymentMethodCard = "card"
)

type ShippingAddress struct {
	FullName string `json:"full_name,omitempty"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Complete vérifie que les champs obligatoires de livraison sont présents.
func (a ShippingAddress) Complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.Zip != ""
}

// Order est l'enregistrement durable d'un achat. Créée une seule fois
// au checkout, mutée uniquement par transitions de statut, jamais
// supprimée.
type Order struct {
	ID              gocql.UUID      `json:"id"`
	UserID          string          `json:"user_id"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty"`
	Subtotal        float64         `json:"subtotal"`
	Discount        float64         `json:"discount"`
	Shipping        float64         `json:"shipping"`
	Total           float64         `json:"total"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	AppliedOffer    *AppliedOffer   `json:"applied_offer,omitempty"`
	ItemsCount      int             `json:"items_count"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem fige une ligne de commande : le prix unitaire est celui
// constaté au moment de l'achat et n'est jamais re-dérivé du catalogue.
type OrderItem struct {
	OrderID   gocql.UUID `json:"order_id"`
	ItemNo    int        `json:"item_no"`
	ProductID gocql.UUID `json:"product_id"`
	VariantID gocql.UUID `json:"variant_id,omitempty"`
	Name      string     `json:"name"`
	Size      string     `json:"size,omitempty"`
	Flavor    string     `json:"flavor,omitempty"`
	Quantity  int        `json:"quantity"`
	UnitPrice float64    `json:"unit_price"`
}

// orderTransitions décrit la machine à états du statut de commande :
// pending → processing → shipped → delivered, avec cancelled et
// refunded en sorties latérales.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {OrderStatusRefunded},
	OrderStatusRefunded:   {},
}

// CanTransition indique si le passage from → to est autorisé.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidOrderStatus vérifie qu'un statut est connu.
func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}
