// Package ub models the crystal under test: unit-cell parameters for the
// seven crystal systems, the reciprocal-space B matrix and lattice-plane
// queries, plus reference reflection and orientation bookkeeping.
package ub

import (
	"fmt"
	"math"
	"strings"

	"github.com/banshee-data/diffract"
	"github.com/banshee-data/diffract/units"
	"gonum.org/v1/gonum/mat"
)

// System identifies one of the seven crystal systems.
type System string

// The seven crystal systems.
const (
	Triclinic    System = "Triclinic"
	Monoclinic   System = "Monoclinic"
	Orthorhombic System = "Orthorhombic"
	Tetragonal   System = "Tetragonal"
	Hexagonal    System = "Hexagonal"
	Rhombohedral System = "Rhombohedral"
	Cubic        System = "Cubic"
)

// minimalParamCounts maps each system to the length of its minimal parameter
// set.
var minimalParamCounts = map[System]int{
	Triclinic:    6,
	Monoclinic:   4,
	Orthorhombic: 3,
	Tetragonal:   2,
	Hexagonal:    2,
	Rhombohedral: 2,
	Cubic:        1,
}

// inferredSystems maps a supplied parameter count to the only system with
// that minimal count. Count 2 is deliberately absent: Tetragonal, Hexagonal
// and Rhombohedral all take two parameters, so two-parameter construction
// requires an explicit system.
var inferredSystems = map[int]System{
	1: Cubic,
	3: Orthorhombic,
	4: Monoclinic,
	6: Triclinic,
}

// zeroTolerance is the threshold below which B matrix entries are rendered
// as zero.
const zeroTolerance = 1e-9

// Crystal holds the direct-cell parameters of the crystal under test and the
// B matrix calculated from them. Angles are stored in radians; the
// constructor, the minimal parameter tuple and the dictionary wire form all
// use degrees. A Crystal is immutable once built and safe to share.
type Crystal struct {
	name    string
	a, b, c float64
	alpha   float64
	beta    float64
	gamma   float64
	system  System
	bMatrix *mat.Dense
}

// NewCrystal builds a crystal lattice and calculates its B matrix.
//
// params is either the minimal parameter set for the system (lengths first,
// then angles in degrees, per the minimal tuples of LatticeParams) or the
// full six direct-cell parameters with angles in degrees. When system is
// empty it is inferred from the parameter count; two parameters are ambiguous
// between Tetragonal, Hexagonal and Rhombohedral and need the system named
// explicitly.
func NewCrystal(name string, system System, params ...float64) (*Crystal, error) {
	resolved, err := resolveSystem(system, len(params))
	if err != nil {
		return nil, err
	}

	cr := &Crystal{name: name, system: resolved}
	cr.a, cr.b, cr.c, cr.alpha, cr.beta, cr.gamma, err = expandCell(resolved, params)
	if err != nil {
		return nil, err
	}
	if err := cr.setReciprocalCell(); err != nil {
		return nil, err
	}
	return cr, nil
}

func resolveSystem(system System, supplied int) (System, error) {
	if system == "" {
		if supplied == 2 {
			return "", fmt.Errorf("2 parameters match Tetragonal, Hexagonal and Rhombohedral; "+
				"specify the crystal system explicitly: %w", diffract.ErrConfiguration)
		}
		resolved, ok := inferredSystems[supplied]
		if !ok {
			return "", fmt.Errorf("%d parameters were given, but no crystal system requires "+
				"this many: %w", supplied, diffract.ErrConfiguration)
		}
		return resolved, nil
	}

	minimal, ok := minimalParamCounts[system]
	if !ok {
		return "", fmt.Errorf("provided crystal system %q is invalid: %w",
			system, diffract.ErrConfiguration)
	}
	if supplied != minimal && supplied != 6 {
		return "", fmt.Errorf("%s system requires either exactly %d parameter(s) or 6 but "+
			"got %d: %w", system, minimal, supplied, diffract.ErrConfiguration)
	}
	return system, nil
}

// expandCell expands a minimal parameter set to the full six direct-cell
// parameters, converting supplied angles from degrees to radians. A
// six-element set overrides the per-system expansion.
func expandCell(system System, p []float64) (a, b, c, alpha, beta, gamma float64, err error) {
	const halfPi = math.Pi / 2
	rad := func(deg float64) float64 { return units.ToRadians(deg, units.Degrees) }
	if len(p) == 6 {
		return p[0], p[1], p[2], rad(p[3]), rad(p[4]), rad(p[5]), nil
	}
	switch system {
	case Monoclinic:
		return p[0], p[1], p[2], halfPi, rad(p[3]), halfPi, nil
	case Orthorhombic:
		return p[0], p[1], p[2], halfPi, halfPi, halfPi, nil
	case Tetragonal:
		return p[0], p[0], p[1], halfPi, halfPi, halfPi, nil
	case Hexagonal:
		return p[0], p[0], p[1], halfPi, halfPi, 2 * math.Pi / 3, nil
	case Rhombohedral:
		return p[0], p[0], p[0], rad(p[1]), rad(p[1]), rad(p[1]), nil
	case Cubic:
		return p[0], p[0], p[0], halfPi, halfPi, halfPi, nil
	default:
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("%s system requires all six parameters: %w",
			system, diffract.ErrConfiguration)
	}
}

// setReciprocalCell calculates the B matrix from the direct cell parameters.
// Reference: Busing and Levy (1967).
func (cr *Crystal) setReciprocalCell() error {
	a1, a2, a3 := cr.a, cr.b, cr.c
	alpha1, alpha2, alpha3 := cr.alpha, cr.beta, cr.gamma

	if math.Sin(alpha1) == 0 || math.Sin(alpha2) == 0 || math.Sin(alpha3) == 0 {
		return fmt.Errorf("error setting reciprocal cell: alpha, beta and gamma cannot be "+
			"multiples of 2 pi: %w", diffract.ErrConfiguration)
	}

	beta2 := math.Acos((math.Cos(alpha1)*math.Cos(alpha3) - math.Cos(alpha2)) /
		(math.Sin(alpha1) * math.Sin(alpha3)))
	beta3 := math.Acos((math.Cos(alpha1)*math.Cos(alpha2) - math.Cos(alpha3)) /
		(math.Sin(alpha1) * math.Sin(alpha2)))

	volume := a1 * a2 * a3 * math.Sqrt(1+
		2*math.Cos(alpha1)*math.Cos(alpha2)*math.Cos(alpha3)-
		math.Cos(alpha1)*math.Cos(alpha1)-
		math.Cos(alpha2)*math.Cos(alpha2)-
		math.Cos(alpha3)*math.Cos(alpha3))

	b1 := 2 * math.Pi * a2 * a3 * math.Sin(alpha1) / volume
	b2 := 2 * math.Pi * a1 * a3 * math.Sin(alpha2) / volume
	b3 := 2 * math.Pi * a1 * a2 * math.Sin(alpha3) / volume

	cr.bMatrix = mat.NewDense(3, 3, []float64{
		b1, b2 * math.Cos(beta3), b3 * math.Cos(beta2),
		0, b2 * math.Sin(beta3), -b3 * math.Sin(beta2) * math.Cos(alpha1),
		0, 0, 2 * math.Pi / a3,
	})
	return nil
}

// Name returns the crystal name.
func (cr *Crystal) Name() string { return cr.name }

// System returns the crystal system tag.
func (cr *Crystal) System() System { return cr.system }

// Lattice returns the six direct-cell parameters, angles in radians.
func (cr *Crystal) Lattice() (a, b, c, alpha, beta, gamma float64) {
	return cr.a, cr.b, cr.c, cr.alpha, cr.beta, cr.gamma
}

// BMatrix returns a copy of the B matrix.
func (cr *Crystal) BMatrix() *mat.Dense {
	return mat.DenseCopyOf(cr.bMatrix)
}

// LatticeParams returns the minimal non-redundant parameter set for the
// crystal system, angles in degrees. The result can be passed back to
// NewCrystal with the same system.
func (cr *Crystal) LatticeParams() []float64 {
	deg := func(rad float64) float64 { return units.ToDegrees(rad, units.Radians) }
	switch cr.system {
	case Triclinic:
		return []float64{cr.a, cr.b, cr.c, deg(cr.alpha), deg(cr.beta), deg(cr.gamma)}
	case Monoclinic:
		return []float64{cr.a, cr.b, cr.c, deg(cr.beta)}
	case Orthorhombic:
		return []float64{cr.a, cr.b, cr.c}
	case Tetragonal, Hexagonal:
		return []float64{cr.a, cr.c}
	case Rhombohedral:
		return []float64{cr.a, deg(cr.alpha)}
	case Cubic:
		return []float64{cr.a}
	default:
		return nil
	}
}

// HKLPlaneDistance calculates the distance between lattice planes at the
// given miller indices.
func (cr *Crystal) HKLPlaneDistance(hkl [3]float64) (float64, error) {
	var bReduced mat.Dense
	bReduced.Scale(1/(2*math.Pi), cr.bMatrix)

	var invB, invBT, bMT, invBMT mat.Dense
	if err := invB.Inverse(&bReduced); err != nil {
		return 0, fmt.Errorf("inverting reduced B matrix: %w", err)
	}
	if err := invBT.Inverse(bReduced.T()); err != nil {
		return 0, fmt.Errorf("inverting transposed reduced B matrix: %w", err)
	}
	bMT.Mul(&invB, &invBT)
	if err := invBMT.Inverse(&bMT); err != nil {
		return 0, fmt.Errorf("inverting metric tensor: %w", err)
	}

	v := mat.NewVecDense(3, []float64{hkl[0], hkl[1], hkl[2]})
	var mv mat.VecDense
	mv.MulVec(&invBMT, v)
	return 1 / math.Sqrt(mat.Dot(v, &mv)), nil
}

// HKLPlaneAngle calculates the angle in radians between two lattice planes.
func (cr *Crystal) HKLPlaneAngle(hkl1, hkl2 [3]float64) float64 {
	var n1, n2 mat.VecDense
	n1.MulVec(cr.bMatrix, mat.NewVecDense(3, []float64{hkl1[0], hkl1[1], hkl1[2]}))
	n2.MulVec(cr.bMatrix, mat.NewVecDense(3, []float64{hkl2[0], hkl2[1], hkl2[2]}))

	cos := mat.Dot(&n1, &n2) / (mat.Norm(&n1, 2) * mat.Norm(&n2, 2))
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

// AsDict serialises the crystal into a JSON compatible mapping. Angles are
// given in degrees so the mapping can be fed to NewCrystalFromDict as is.
func (cr *Crystal) AsDict() map[string]any {
	return map[string]any{
		"name":   cr.name,
		"a":      cr.a,
		"b":      cr.b,
		"c":      cr.c,
		"alpha":  units.ToDegrees(cr.alpha, units.Radians),
		"beta":   units.ToDegrees(cr.beta, units.Radians),
		"gamma":  units.ToDegrees(cr.gamma, units.Radians),
		"system": string(cr.system),
	}
}

// NewCrystalFromDict reconstructs a crystal from the mapping produced by
// AsDict. Angles in the mapping are degrees.
func NewCrystalFromDict(m map[string]any) (*Crystal, error) {
	name, _ := m["name"].(string)
	system, _ := m["system"].(string)

	var params []float64
	for _, key := range []string{"a", "b", "c"} {
		v, ok := toFloat(m[key])
		if !ok {
			return nil, fmt.Errorf("missing or non-numeric lattice parameter %q: %w",
				key, diffract.ErrConfiguration)
		}
		params = append(params, v)
	}
	for _, key := range []string{"alpha", "beta", "gamma"} {
		v, ok := toFloat(m[key])
		if !ok {
			return nil, fmt.Errorf("missing or non-numeric lattice angle %q: %w",
				key, diffract.ErrConfiguration)
		}
		params = append(params, v)
	}
	return NewCrystal(name, System(system), params...)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// String renders the crystal lattice information as a fixed-width table.
func (cr *Crystal) String() string {
	const width = 13
	if cr.name == "" {
		return "   none specified"
	}

	alphaDeg := units.ToDegrees(cr.alpha, units.Radians)
	betaDeg := units.ToDegrees(cr.beta, units.Radians)
	gammaDeg := units.ToDegrees(cr.gamma, units.Radians)

	var lines []string
	lines = append(lines, fmt.Sprintf("%-*s%9s", width, "   name:", cr.name))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("%-*s% 9.5f        % 9.5f        % 9.5f",
		width, "   a, b, c:", cr.a, cr.b, cr.c))
	lines = append(lines, fmt.Sprintf("%s  %9.5f  %9.5f  %9.5f  %s",
		strings.Repeat(" ", width), alphaDeg, betaDeg, gammaDeg, cr.system))
	lines = append(lines, "")

	label := fmt.Sprintf("%-*s", width, "   B matrix:")
	for i := 0; i < 3; i++ {
		prefix := strings.Repeat(" ", width)
		if i == 0 {
			prefix = label
		}
		lines = append(lines, fmt.Sprintf("%s% 9.5f % 9.5f % 9.5f", prefix,
			zeroRound(cr.bMatrix.At(i, 0)),
			zeroRound(cr.bMatrix.At(i, 1)),
			zeroRound(cr.bMatrix.At(i, 2))))
	}
	return strings.Join(lines, "\n")
}

// zeroRound flushes floating noise to zero for display.
func zeroRound(v float64) float64 {
	if math.Abs(v) < zeroTolerance {
		return 0
	}
	return v
}
