package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Types de réduction supportés par les codes promo.
const (
	OfferTypePercentage = "percentage"
	OfferTypeFixed      = "fixed"
)

// Offer est un code promo. Le code est stocké en majuscules et unique
// (table offers_by_code). StartsAt/ExpiresAt à nil = fenêtre ouverte.
type Offer struct {
	ID             gocql.UUID `json:"id"`
	Code           string     `json:"code"`
	Type           string     `json:"type"` // "percentage" | "fixed"
	Value          float64    `json:"value"`
	MinOrderAmount float64    `json:"min_order_amount"`
	MaxDiscount    *float64   `json:"max_discount,omitempty"` // plafond de réduction
	MaxUses        int        `json:"max_uses"`               // 0 = illimité
	UsedCount      int        `json:"used_count"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedBy      string     `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// OfferUsage trace chaque application d'un code à une commande.
// Clé primaire ((offer_id), order_id) + INSERT IF NOT EXISTS :
// l'application est idempotente, un retry ne compte jamais double.
type OfferUsage struct {
	OfferID gocql.UUID `json:"offer_id"`
	OrderID gocql.UUID `json:"order_id"`
	UserID  string     `json:"user_id"`
	UsedAt  time.Time  `json:"used_at"`
}

// AppliedOffer est l'instantané du code appliqué, persisté sur la
// commande : l'historique reste cohérent même si l'offre est modifiée
// ou supprimée après coup.
type AppliedOffer struct {
	ID             gocql.UUID `json:"id"`
	Code           string     `json:"code"`
	Type           string     `json:"type"`
	Value          float64    `json:"value"`
	DiscountAmount float64    `json:"discount_amount"`
}
