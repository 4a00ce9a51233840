// Package units provides shared constants and conversion for angle units
package units

import "math"

// Unit constants
const (
	Degrees = "deg"
	Radians = "rad"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Degrees, Radians}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "deg, rad"
}

// ToRadians converts an angle from the given unit to radians.
// Angles are stored in radians throughout the module.
func ToRadians(angle float64, unit string) float64 {
	if unit == Degrees {
		return angle * math.Pi / 180
	}
	return angle
}

// ToDegrees converts an angle from the given unit to degrees
func ToDegrees(angle float64, unit string) float64 {
	if unit == Radians {
		return angle * 180 / math.Pi
	}
	return angle
}

// Convert converts an angle between the two units. Unknown units are treated
// as radians, the module's canonical unit.
func Convert(angle float64, from, to string) float64 {
	rad := ToRadians(angle, from)
	if to == Degrees {
		return rad * 180 / math.Pi
	}
	return rad
}
