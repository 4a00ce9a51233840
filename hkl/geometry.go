package hkl

import (
	"math"
)

// PositionFields lists the six diffractometer axis names in canonical order.
var PositionFields = []string{"mu", "delta", "nu", "eta", "chi", "phi"}

// Position holds the six diffractometer motor angles. The unit is whatever
// the producing context uses; reference bookkeeping converts between degrees
// and radians explicitly.
type Position struct {
	Mu    float64
	Delta float64
	Nu    float64
	Eta   float64
	Chi   float64
	Phi   float64
}

// Angles returns the six angles in canonical axis order.
func (p Position) Angles() [6]float64 {
	return [6]float64{p.Mu, p.Delta, p.Nu, p.Eta, p.Chi, p.Phi}
}

// InRadians returns the position with every angle converted from degrees to
// radians.
func (p Position) InRadians() Position {
	return p.scale(math.Pi / 180)
}

// InDegrees returns the position with every angle converted from radians to
// degrees.
func (p Position) InDegrees() Position {
	return p.scale(180 / math.Pi)
}

func (p Position) scale(factor float64) Position {
	return Position{
		Mu:    p.Mu * factor,
		Delta: p.Delta * factor,
		Nu:    p.Nu * factor,
		Eta:   p.Eta * factor,
		Chi:   p.Chi * factor,
		Phi:   p.Phi * factor,
	}
}

// AsMap returns the position as an axis name to angle mapping.
func (p Position) AsMap() map[string]float64 {
	return map[string]float64{
		"mu":    p.Mu,
		"delta": p.Delta,
		"nu":    p.Nu,
		"eta":   p.Eta,
		"chi":   p.Chi,
		"phi":   p.Phi,
	}
}

// PositionFromMap builds a position from an axis name to angle mapping.
// Missing axes default to zero; unknown keys are ignored.
func PositionFromMap(m map[string]float64) Position {
	return Position{
		Mu:    m["mu"],
		Delta: m["delta"],
		Nu:    m["nu"],
		Eta:   m["eta"],
		Chi:   m["chi"],
		Phi:   m["phi"],
	}
}
