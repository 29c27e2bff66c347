package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFloatValue_Number(t *testing.T) {
	v, err := ParseFloatValue("4.9")

	require.NoError(t, err)
	assert.Equal(t, 4.9, v)
}

func TestParseFloatValue_QuotedString(t *testing.T) {
	v, err := ParseFloatValue(`"50"`)

	require.NoError(t, err)
	assert.Equal(t, 50.0, v)
}

func TestParseFloatValue_Invalid(t *testing.T) {
	_, err := ParseFloatValue(`{"oops": true}`)
	assert.Error(t, err)

	_, err = ParseFloatValue(`"pas-un-nombre"`)
	assert.Error(t, err)
}

func TestParseStringValue(t *testing.T) {
	assert.Equal(t, "dark", ParseStringValue(`"dark"`))
	// valeur historique stockée sans guillemets
	assert.Equal(t, "dark", ParseStringValue("dark"))
}
