// Package diffract computes the relationship between a crystal's lattice
// geometry and the angular degrees of freedom of an x-ray diffractometer.
//
// The hkl package manages the set of angle constraints that select a
// diffractometer operating mode and classifies whether a fully constrained
// combination has a closed-form solution. The ub package models the crystal
// under test: unit-cell parameters for the seven crystal systems, the
// reciprocal-space B matrix (Busing & Levy convention) and lattice-plane
// queries, plus reference reflection and orientation bookkeeping.
//
// This package itself only carries the error kinds shared across the module.
package diffract
