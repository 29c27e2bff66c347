package cart

import (
	"testing"
	"time"

	"nutriko_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeLine_MemeTupleAdditionneLesQuantites(t *testing.T) {
	now := time.Now()
	productID := gocql.TimeUUID()
	variantID := gocql.TimeUUID()

	existing := models.CartItem{
		ItemID:   gocql.TimeUUID(),
		Quantity: 2,
		AddedAt:  now.Add(-time.Hour),
	}

	item, merged := mergeLine(existing, true, "user-1", productID, variantID, 3, now)

	assert.True(t, merged)
	assert.Equal(t, 5, item.Quantity)
	// La ligne existante est conservée, pas dupliquée
	assert.Equal(t, existing.ItemID, item.ItemID)
	assert.Equal(t, existing.AddedAt, item.AddedAt)
	assert.Equal(t, now, item.UpdatedAt)
}

func TestMergeLine_TupleAbsentCreeUneLigneNeuve(t *testing.T) {
	now := time.Now()
	productID := gocql.TimeUUID()

	item, merged := mergeLine(models.CartItem{}, false, "user-1", productID, models.NoVariant, 2, now)

	assert.False(t, merged)
	assert.Equal(t, 2, item.Quantity)
	assert.NotEqual(t, gocql.UUID{}, item.ItemID)
	assert.Equal(t, now, item.AddedAt)
}

// Deux ajouts du même (produit, variante) ne produisent qu'une seule
// ligne à quantité cumulée; un arôme différent produit une ligne à part.
func TestMergeLine_DeuxAjoutsMemeTupleUneSeuleLigne(t *testing.T) {
	now := time.Now()
	productID := gocql.TimeUUID()
	vanille := gocql.TimeUUID()
	chocolat := gocql.TimeUUID()

	type tuple struct{ product, variant gocql.UUID }
	partition := map[tuple]models.CartItem{}

	add := func(variantID gocql.UUID, qty int) {
		key := tuple{productID, variantID}
		existing, found := partition[key]
		item, _ := mergeLine(existing, found, "user-1", productID, variantID, qty, now)
		partition[key] = item
	}

	add(vanille, 1)
	add(vanille, 2)
	add(chocolat, 1)

	require.Len(t, partition, 2)
	assert.Equal(t, 3, partition[tuple{productID, vanille}].Quantity)
	assert.Equal(t, 1, partition[tuple{productID, chocolat}].Quantity)
}
