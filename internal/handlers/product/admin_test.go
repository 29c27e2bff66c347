package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Whey Isolate 90", "whey-isolate-90"},
		{"BCAA 2:1:1", "bcaa-2-1-1"},
		{"  Omega 3 -- EPA/DHA  ", "omega-3-epa-dha"},
		{"multivitamines", "multivitamines"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.name), "nom: %q", tc.name)
	}
}

func TestSlugify_JamaisDeTiretsAuxExtremites(t *testing.T) {
	assert.Equal(t, "protein", Slugify("!protein!"))
	assert.Equal(t, "", Slugify("!!!"))
}
