package pricing

import "nutriko_back_end/internal/models"

// ResolveVariant retrouve la variante correspondant au choix
// (size, flavor) sur la fiche produit. Flavor vide ne matche que les
// variantes sans arôme.
func ResolveVariant(variants []models.ProductVariant, size, flavor string) *models.ProductVariant {
	for i := range variants {
		if variants[i].Size == size && variants[i].Flavor == flavor {
			return &variants[i]
		}
	}
	return nil
}

// DefaultVariant retourne la première combinaison en stock, ou la
// première variante si tout est épuisé. Nil si le produit n'a pas de
// variantes.
func DefaultVariant(variants []models.ProductVariant) *models.ProductVariant {
	if len(variants) == 0 {
		return nil
	}
	for i := range variants {
		if variants[i].Stock > 0 {
			return &variants[i]
		}
	}
	return &variants[0]
}
