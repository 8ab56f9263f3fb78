package mondialrelay

import (
	"fmt"
	"math"
	"strings"
)

// minWeight is the smallest weight ConvertWeight can express
const minWeight = 0.001

// grams per unit
var unitFactors = map[string]float64{
	"g":  1,
	"kg": 1000,
	"lb": 453.59237,
	"oz": 28.349523125,
}

func canonicalUnit(symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if s == "gr" {
		return "g"
	}
	return s
}

func knownUnit(symbol string) bool {
	_, ok := unitFactors[canonicalUnit(symbol)]
	return ok
}

// ConvertWeight converts a weight between two unit symbols
func ConvertWeight(value float64, from, to string) (float64, error) {
	f, ok := unitFactors[canonicalUnit(from)]
	if !ok {
		return 0, fmt.Errorf("unknown weight unit %q", from)
	}
	t, ok := unitFactors[canonicalUnit(to)]
	if !ok {
		return 0, fmt.Errorf("unknown weight unit %q", to)
	}
	if f == t {
		return value, nil
	}
	return math.Round(value*f/t*1000) / 1000, nil
}

// unitLabel renders a unit symbol the way the carrier expects it
func unitLabel(symbol string) string {
	s := canonicalUnit(symbol)
	if s == "" || s == "g" {
		return "gr"
	}
	return s
}

// resolveWeight returns the weight and unit label to send for a shipment.
// The carrier rejects weightless parcels: a zero weight is sent as 1 and a
// conversion that rounds down to zero is sent as minWeight.
func resolveWeight(profile *Profile, weight float64, shipmentUnit string) (float64, string) {
	if weight == 0 {
		weight = 1
	}

	source := shipmentUnit
	if source == "" {
		source = profile.WeightUnit
	}

	if profile.WeightAPIUnit == "" || source == "" {
		return weight, unitLabel(source)
	}

	converted, err := ConvertWeight(weight, source, profile.WeightAPIUnit)
	if err != nil {
		return weight, unitLabel(source)
	}
	if converted <= 0 && weight > 0 {
		converted = minWeight
	}
	return converted, unitLabel(profile.WeightAPIUnit)
}
