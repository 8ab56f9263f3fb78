package mondialrelay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnaccent(t *testing.T) {
	assert.Equal(t, "Jose Muller", Unaccent("José Müller"))
	assert.Equal(t, "Francois Ca Va", Unaccent("François Ça Va"))
	assert.Equal(t, "plain", Unaccent("plain"))
	assert.Equal(t, "", Unaccent(""))
}

func TestFormatPhone(t *testing.T) {
	spain := &Country{Code: "ES", PhoneCode: "34"}

	assert.Equal(t, "+34666778899", FormatPhone(spain, "666 77 88 99"))
	assert.Equal(t, "+34666778899", FormatPhone(spain, "666-77.88/99"))
	assert.Equal(t, "+34666778899", FormatPhone(&Country{PhoneCode: "+34"}, "666778899"))
	assert.Equal(t, "666778899", FormatPhone(nil, "666 77 88 99"))
	assert.Equal(t, "666778899", FormatPhone(&Country{Code: "ES"}, "666 77 88 99"))
}

func TestConvertWeight(t *testing.T) {
	cases := []struct {
		value    float64
		from, to string
		want     float64
	}{
		{1000, "g", "kg", 1},
		{1000, "gr", "kg", 1},
		{1.5, "kg", "g", 1500},
		{1, "lb", "kg", 0.454},
		{2, "kg", "kg", 2},
	}
	for _, c := range cases {
		got, err := ConvertWeight(c.value, c.from, c.to)
		require.NoError(t, err, "%s->%s", c.from, c.to)
		assert.InDelta(t, c.want, got, 1e-9, "%v %s->%s", c.value, c.from, c.to)
	}

	_, err := ConvertWeight(1, "stone", "kg")
	assert.Error(t, err)
	_, err = ConvertWeight(1, "kg", "")
	assert.Error(t, err)
}

func TestResolveWeight(t *testing.T) {
	profile := testProfile()

	w, unit := resolveWeight(profile, 0, "")
	assert.Equal(t, 1.0, w)
	assert.Equal(t, "gr", unit)

	profile.WeightUnit = "kg"
	w, unit = resolveWeight(profile, 2, "")
	assert.Equal(t, 2.0, w)
	assert.Equal(t, "kg", unit)

	profile.WeightAPIUnit = "g"
	w, unit = resolveWeight(profile, 0, "kg")
	assert.Equal(t, 1000.0, w)
	assert.Equal(t, "gr", unit)

	profile.WeightAPIUnit = "kg"
	w, unit = resolveWeight(profile, 0.4, "g")
	assert.Equal(t, minWeight, w, "rounded conversion never yields zero")
	assert.Equal(t, "kg", unit)
}
