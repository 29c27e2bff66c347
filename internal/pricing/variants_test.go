package pricing

import (
	"testing"

	"nutriko_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogVariants = []models.ProductVariant{
	{Size: "500", Unit: "g", Flavor: "vanille", Stock: 0, Price: 24.90},
	{Size: "500", Unit: "g", Flavor: "chocolat", Stock: 12, Price: 24.90},
	{Size: "1", Unit: "kg", Flavor: "vanille", Stock: 3, Price: 44.90},
	{Size: "1", Unit: "kg", Flavor: "", Stock: 5, Price: 42.90},
}

func TestResolveVariant_ExactMatch(t *testing.T) {
	v := ResolveVariant(catalogVariants, "1", "vanille")

	require.NotNil(t, v)
	assert.Equal(t, 44.90, v.Price)
}

func TestResolveVariant_EmptyFlavorOnlyMatchesEmpty(t *testing.T) {
	v := ResolveVariant(catalogVariants, "1", "")

	require.NotNil(t, v)
	assert.Equal(t, 42.90, v.Price)

	assert.Nil(t, ResolveVariant(catalogVariants, "500", ""))
}

func TestResolveVariant_Unknown(t *testing.T) {
	assert.Nil(t, ResolveVariant(catalogVariants, "2", "fraise"))
	assert.Nil(t, ResolveVariant(nil, "500", "vanille"))
}

func TestDefaultVariant_FirstInStock(t *testing.T) {
	v := DefaultVariant(catalogVariants)

	require.NotNil(t, v)
	assert.Equal(t, "chocolat", v.Flavor) // la vanille 500g est épuisée
}

func TestDefaultVariant_AllOutOfStock(t *testing.T) {
	out := []models.ProductVariant{
		{Size: "500", Unit: "g", Stock: 0, Price: 19.90},
		{Size: "1", Unit: "kg", Stock: 0, Price: 34.90},
	}

	v := DefaultVariant(out)

	require.NotNil(t, v)
	assert.Equal(t, "500", v.Size)
}

func TestDefaultVariant_Empty(t *testing.T) {
	assert.Nil(t, DefaultVariant(nil))
}
