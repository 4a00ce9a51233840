package hkl

import "github.com/banshee-data/diffract"

// Combination tables for the closed-form trigonometric solutions the angle
// solver implements. These encode exact diffractometer kinematics and must
// not be re-derived.
var (
	// Three sample constraints: the active sample triple must match exactly.
	implementedSampleTriples = [][]string{
		{"chi", "phi", "eta"},
		{"chi", "phi", "mu"},
		{"chi", "eta", "mu"},
		{"phi", "eta", "mu"},
	}

	// Two sample constraints with one reference constraint.
	implementedReferencePairs = [][]string{
		{"chi", "phi"},
		{"chi", "eta"},
		{"chi", "mu"},
		{"mu", "eta"},
		{"mu", "phi"},
		{"eta", "phi"},
	}

	// Two sample constraints with one detector constraint.
	implementedDetectorPairs = [][]string{
		{"chi", "phi"},
		{"mu", "eta"},
		{"mu", "phi"},
		{"mu", "chi"},
		{"eta", "phi"},
		{"eta", "chi"},
		{"mu", "bisect"},
		{"eta", "bisect"},
		{"omega", "bisect"},
	}
)

// IsCurrentModeImplemented reports whether the current fully constrained
// combination has a closed-form solution. It returns ErrNotFullyConstrained
// when fewer than three constraints are active.
func (c *Constraints) IsCurrentModeImplemented() (bool, error) {
	if !c.IsFullyConstrained() {
		return false, diffract.ErrNotFullyConstrained
	}
	return c.modeImplemented(), nil
}

func (c *Constraints) modeImplemented() bool {
	sample := Sample
	reference := Reference
	detector := Detector
	sampleNames := c.activeNames(&sample)
	countSample := len(sampleNames)
	countReference := c.activeCount(&reference)
	countDetector := c.activeCount(&detector)

	active := make(map[string]bool, countSample)
	for _, name := range sampleNames {
		active[name] = true
	}

	if countSample == 3 {
		for _, triple := range implementedSampleTriples {
			if active[triple[0]] && active[triple[1]] && active[triple[2]] {
				return true
			}
		}
		return false
	}

	if countSample == 1 {
		return !active["omega"] && !active["bisect"]
	}

	if countReference == 1 {
		return anyPairActive(implementedReferencePairs, active)
	}

	if countDetector == 1 {
		return anyPairActive(implementedDetectorPairs, active)
	}

	return false
}

func anyPairActive(pairs [][]string, active map[string]bool) bool {
	for _, pair := range pairs {
		if active[pair[0]] && active[pair[1]] {
			return true
		}
	}
	return false
}
