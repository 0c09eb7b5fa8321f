// Package units converts metric values between units of the same dimension.
//
// Every unit belongs to exactly one group and carries a linear factor to the
// group's base unit, so a conversion is value * from.factor / to.factor.
package units

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownUnit       = errors.New("unknown unit")
	ErrIncompatibleUnits = errors.New("incompatible units")
)

const (
	GroupMass     = "mass"
	GroupDistance = "distance"
	GroupDuration = "duration"
	GroupVolume   = "volume"
	GroupEnergy   = "energy"
	GroupCount    = "count"
	GroupPercent  = "percent"
)

type Unit struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Group  string  `json:"group"`
	Factor float64 `json:"factor"` // multiples of the group base unit
}

var table = map[string]Unit{
	// mass, base: gram
	"mg": {Symbol: "mg", Name: "milligram", Group: GroupMass, Factor: 0.001},
	"g":  {Symbol: "g", Name: "gram", Group: GroupMass, Factor: 1},
	"kg": {Symbol: "kg", Name: "kilogram", Group: GroupMass, Factor: 1000},
	"lb": {Symbol: "lb", Name: "pound", Group: GroupMass, Factor: 453.59237},
	"oz": {Symbol: "oz", Name: "ounce", Group: GroupMass, Factor: 28.349523125},

	// distance, base: metre
	"mm": {Symbol: "mm", Name: "millimetre", Group: GroupDistance, Factor: 0.001},
	"cm": {Symbol: "cm", Name: "centimetre", Group: GroupDistance, Factor: 0.01},
	"m":  {Symbol: "m", Name: "metre", Group: GroupDistance, Factor: 1},
	"km": {Symbol: "km", Name: "kilometre", Group: GroupDistance, Factor: 1000},
	"ft": {Symbol: "ft", Name: "foot", Group: GroupDistance, Factor: 0.3048},
	"mi": {Symbol: "mi", Name: "mile", Group: GroupDistance, Factor: 1609.344},

	// duration, base: second
	"s":   {Symbol: "s", Name: "second", Group: GroupDuration, Factor: 1},
	"min": {Symbol: "min", Name: "minute", Group: GroupDuration, Factor: 60},
	"h":   {Symbol: "h", Name: "hour", Group: GroupDuration, Factor: 3600},
	"d":   {Symbol: "d", Name: "day", Group: GroupDuration, Factor: 86400},

	// volume, base: millilitre
	"ml": {Symbol: "ml", Name: "millilitre", Group: GroupVolume, Factor: 1},
	"l":  {Symbol: "l", Name: "litre", Group: GroupVolume, Factor: 1000},

	// energy, base: kilocalorie
	"cal":  {Symbol: "cal", Name: "calorie", Group: GroupEnergy, Factor: 0.001},
	"kcal": {Symbol: "kcal", Name: "kilocalorie", Group: GroupEnergy, Factor: 1},
	"kj":   {Symbol: "kj", Name: "kilojoule", Group: GroupEnergy, Factor: 1 / 4.184},

	"count": {Symbol: "count", Name: "count", Group: GroupCount, Factor: 1},
	"%":     {Symbol: "%", Name: "percent", Group: GroupPercent, Factor: 1},
}

// aliases maps common spellings onto table symbols.
var aliases = map[string]string{
	"gram": "g", "grams": "g", "kilo": "kg", "kilos": "kg", "kgs": "kg", "lbs": "lb",
	"meter": "m", "meters": "m", "metre": "m", "metres": "m", "kms": "km", "miles": "mi", "feet": "ft",
	"sec": "s", "secs": "s", "mins": "min", "minute": "min", "minutes": "min", "hr": "h", "hrs": "h", "hour": "h", "hours": "h",
	"day": "d", "days": "d",
	"litre": "l", "liter": "l", "litres": "l", "liters": "l",
	"kcals": "kcal", "calories": "cal",
	"": "count", "x": "count", "times": "count", "reps": "count", "pcs": "count",
	"percent": "%", "pct": "%",
}

// Normalize returns the canonical symbol for unit, or ErrUnknownUnit.
func Normalize(unit string) (string, error) {
	u := strings.TrimSpace(unit)
	if _, ok := table[u]; ok {
		return u, nil
	}
	lower := strings.ToLower(u)
	if _, ok := table[lower]; ok {
		return lower, nil
	}
	if sym, ok := aliases[lower]; ok {
		return sym, nil
	}
	if sym, ok := aliases[u]; ok {
		return sym, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
}

func Lookup(unit string) (Unit, error) {
	sym, err := Normalize(unit)
	if err != nil {
		return Unit{}, err
	}
	return table[sym], nil
}

// Group returns the dimension a unit belongs to.
func Group(unit string) (string, error) {
	u, err := Lookup(unit)
	if err != nil {
		return "", err
	}
	return u.Group, nil
}

func Compatible(a, b string) bool {
	ua, err := Lookup(a)
	if err != nil {
		return false
	}
	ub, err := Lookup(b)
	if err != nil {
		return false
	}
	return ua.Group == ub.Group
}

// Convert scales value from one unit to another of the same group.
func Convert(value float64, from, to string) (float64, error) {
	uf, err := Lookup(from)
	if err != nil {
		return 0, err
	}
	ut, err := Lookup(to)
	if err != nil {
		return 0, err
	}
	if uf.Group != ut.Group {
		return 0, fmt.Errorf("%w: %s (%s) to %s (%s)", ErrIncompatibleUnits, uf.Symbol, uf.Group, ut.Symbol, ut.Group)
	}
	if uf.Symbol == ut.Symbol {
		return value, nil
	}
	return value * uf.Factor / ut.Factor, nil
}

// Units lists the conversion table grouped by dimension, smallest unit first.
func Units() map[string][]Unit {
	grouped := make(map[string][]Unit)
	for _, u := range table {
		grouped[u.Group] = append(grouped[u.Group], u)
	}
	for g := range grouped {
		sort.Slice(grouped[g], func(i, j int) bool {
			return grouped[g][i].Factor < grouped[g][j].Factor
		})
	}
	return grouped
}
