package diffract

import "errors"

// ErrConfiguration marks validation failures on caller-supplied data: unknown
// constraint names, value/flag type mismatches, unsatisfiable category quotas,
// unknown or mismatched crystal systems, and degenerate lattice angles.
// Callers are expected to correct the input and resubmit; there is nothing
// transient to retry.
var ErrConfiguration = errors.New("invalid configuration")

// ErrNotFullyConstrained is returned when mode classification is requested
// with fewer than three active constraints.
var ErrNotFullyConstrained = errors.New("three constraints required")
