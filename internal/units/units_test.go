package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		from  string
		to    string
		want  float64
	}{
		{name: "kg to g", value: 1.5, from: "kg", to: "g", want: 1500},
		{name: "g to kg", value: 250, from: "g", to: "kg", want: 0.25},
		{name: "km to m", value: 5, from: "km", to: "m", want: 5000},
		{name: "m to km", value: 42195, from: "m", to: "km", want: 42.195},
		{name: "mile to km", value: 1, from: "mi", to: "km", want: 1.609344},
		{name: "hours to minutes", value: 1.5, from: "h", to: "min", want: 90},
		{name: "litres to ml", value: 2, from: "l", to: "ml", want: 2000},
		{name: "same unit", value: 7, from: "count", to: "count", want: 7},
		{name: "alias and case", value: 3, from: "Kilos", to: "grams", want: 3000},
		{name: "kj to kcal", value: 4.184, from: "kj", to: "kcal", want: 1},
		{name: "kJ upper case", value: 4.184, from: "kJ", to: "kcal", want: 1},
		{name: "small calories", value: 2500, from: "cal", to: "kcal", want: 2.5},
		{name: "calories alias", value: 1, from: "kcal", to: "calories", want: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.value, tt.from, tt.to)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConvertErrors(t *testing.T) {
	_, err := Convert(1, "kg", "km")
	assert.ErrorIs(t, err, ErrIncompatibleUnits)

	_, err = Convert(1, "furlong", "m")
	assert.ErrorIs(t, err, ErrUnknownUnit)

	_, err = Convert(1, "m", "parsec")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestRoundTrip(t *testing.T) {
	for _, group := range Units() {
		for _, a := range group {
			for _, b := range group {
				there, err := Convert(123.45, a.Symbol, b.Symbol)
				require.NoError(t, err)
				back, err := Convert(there, b.Symbol, a.Symbol)
				require.NoError(t, err)
				assert.InDelta(t, 123.45, back, 1e-6, "%s -> %s", a.Symbol, b.Symbol)
			}
		}
	}
}

func TestGroupAndCompatible(t *testing.T) {
	g, err := Group("lbs")
	require.NoError(t, err)
	assert.Equal(t, GroupMass, g)

	assert.True(t, Compatible("km", "ft"))
	assert.False(t, Compatible("km", "kg"))
	assert.False(t, Compatible("km", "nope"))
}

func TestUnitsSortedByFactor(t *testing.T) {
	mass := Units()[GroupMass]
	require.NotEmpty(t, mass)
	assert.Equal(t, "mg", mass[0].Symbol)
	for i := 1; i < len(mass); i++ {
		assert.LessOrEqual(t, mass[i-1].Factor, mass[i].Factor)
	}
}
