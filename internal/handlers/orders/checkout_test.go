package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fl(v float64) *float64 { return &v }

func TestStaleClientTotal_RefuseHorsTolerance(t *testing.T) {
	// Un client qui affiche un prix périmé doit être refusé, jamais
	// facturé sur le total recalculé à son insu.
	assert.True(t, staleClientTotal(fl(84.00), 84.80))
	assert.True(t, staleClientTotal(fl(90.00), 84.80))
}

func TestStaleClientTotal_AccepteArrondisFlottants(t *testing.T) {
	assert.False(t, staleClientTotal(fl(84.80), 84.8000001))
	assert.False(t, staleClientTotal(fl(84.79), 84.80))
}

func TestStaleClientTotal_TotalAbsentJamaisRefuse(t *testing.T) {
	assert.False(t, staleClientTotal(nil, 84.80))
}
