// Package pricing regroupe le calcul des prix du checkout : prix
// unitaire effectif, sous-total, frais de port, réduction et total
// final. Tout est recalculé côté serveur à partir des lignes lues en
// base — un total client hors tolérance fait échouer le checkout.
package pricing

import (
	"math"

	"nutriko_back_end/internal/models"
)

// Valeurs par défaut des frais de port, surchargées par les
// site_settings shipping_flat_fee et free_shipping_threshold.
const (
	DefaultShippingFlatFee       = 4.90
	DefaultFreeShippingThreshold = 50.0
)

// PriceTolerance est l'écart maximal accepté entre le total recalculé
// et le total annoncé par le client (arrondis flottants).
const PriceTolerance = 0.01

// Line est une ligne tarifée du panier au moment du checkout.
type Line struct {
	Quantity  int
	UnitPrice float64
}

// UnitPrice retourne le prix unitaire effectif d'une ligne :
// prix promo de la variante, sinon prix de la variante, sinon prix
// promo du produit, sinon prix de base.
func UnitPrice(p models.Product, v *models.ProductVariant) float64 {
	if v != nil {
		if v.SalePrice != nil && *v.SalePrice > 0 {
			return *v.SalePrice
		}
		return v.Price
	}
	if p.SalePrice != nil && *p.SalePrice > 0 {
		return *p.SalePrice
	}
	return p.Price
}

// Subtotal calcule Σ (prix unitaire × quantité).
func Subtotal(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.UnitPrice * float64(l.Quantity)
	}
	return total
}

// Shipping retourne les frais de port : offerts à partir du seuil,
// forfait fixe en dessous.
func Shipping(subtotal, threshold, flatFee float64) float64 {
	if subtotal >= threshold {
		return 0
	}
	return flatFee
}

// FinalTotal assemble subtotal - discount + shipping (taxe toujours à
// zéro) sans jamais descendre sous zéro.
func FinalTotal(subtotal, discount, shipping float64) float64 {
	total := subtotal - discount + shipping
	if total < 0 {
		return 0
	}
	return total
}

// Cents convertit un montant en euros vers des centimes entiers pour
// Stripe. Arrondi au plus proche: la troncature de int64(x*100)
// transforme 4.35 en 434 à cause de la représentation flottante.
func Cents(euros float64) int64 {
	return int64(math.Round(euros * 100))
}

// WithinTolerance compare un total client au total recalculé.
func WithinTolerance(client, computed float64) bool {
	diff := client - computed
	if diff < 0 {
		diff = -diff
	}
	return diff <= PriceTolerance
}
