package offers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Simule le compteur used_count côté base: le compare-and-set
// n'applique l'écriture que si la valeur n'a pas bougé entre-temps.
type fakeCounter struct {
	value     int
	casCalls  int
	readCalls int
	// valeur injectée par un "concurrent" juste avant le énième CAS
	interfereAt int
}

func (f *fakeCounter) read() (int, error) {
	f.readCalls++
	return f.value, nil
}

func (f *fakeCounter) cas(current, next int) (bool, error) {
	f.casCalls++
	if f.casCalls == f.interfereAt {
		// Une commande concurrente vient d'incrémenter
		f.value++
		return false, nil
	}
	if f.value != current {
		return false, nil
	}
	f.value = next
	return true, nil
}

func TestCasIncrement_Nominal(t *testing.T) {
	counter := &fakeCounter{value: 7}

	next, err := casIncrement(counter.read, counter.cas)

	require.NoError(t, err)
	assert.Equal(t, 8, next)
	assert.Equal(t, 8, counter.value)
}

// Deux commandes simultanées: le perdant du CAS relit et réessaie au
// lieu d'écraser l'incrément du gagnant.
func TestCasIncrement_ContentionRelitEtReessaie(t *testing.T) {
	counter := &fakeCounter{value: 4, interfereAt: 1}

	next, err := casIncrement(counter.read, counter.cas)

	require.NoError(t, err)
	// 4 → 5 (concurrent) → 6 (nous): aucun incrément perdu
	assert.Equal(t, 6, next)
	assert.Equal(t, 6, counter.value)
	assert.GreaterOrEqual(t, counter.readCalls, 2)
}

func TestCasIncrement_AbandonApresEpuisement(t *testing.T) {
	read := func() (int, error) { return 1, nil }
	cas := func(current, next int) (bool, error) { return false, nil }

	_, err := casIncrement(read, cas)

	assert.ErrorIs(t, err, errCounterContention)
}

func TestCasIncrement_ErreurDeLecturePropagee(t *testing.T) {
	boom := errors.New("lecture impossible")
	read := func() (int, error) { return 0, boom }
	cas := func(current, next int) (bool, error) { return true, nil }

	_, err := casIncrement(read, cas)

	assert.ErrorIs(t, err, boom)
}
