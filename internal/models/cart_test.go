package models

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItem_HasVariant(t *testing.T) {
	item := CartItem{ProductID: gocql.TimeUUID()}
	assert.False(t, item.HasVariant())

	item.VariantID = gocql.TimeUUID()
	assert.True(t, item.HasVariant())
}

func TestNoVariant_EstLaValeurZero(t *testing.T) {
	// Le sentinelle "sans variante" doit rester la valeur zéro UUID:
	// c'est ce qu'une colonne variant_id non renseignée contient.
	require.Equal(t, gocql.UUID{}, NoVariant)

	item := CartItem{VariantID: NoVariant}
	assert.False(t, item.HasVariant())
}
