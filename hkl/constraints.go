// Package hkl manages the angle constraints that select a diffractometer
// operating mode.
//
// Three constraints are required before miller indices can be mapped to
// diffractometer positions. Allowed configurations hold at most one detector
// constraint, at most one reference constraint and up to three sample
// constraints. Whether a fully constrained combination has a closed-form
// solution is reported by Constraints.IsCurrentModeImplemented.
package hkl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/banshee-data/diffract"
	"github.com/banshee-data/diffract/units"
)

// Category groups constraints by the degrees of freedom they restrict.
// Each category has a fixed capacity of simultaneously active constraints.
type Category int

const (
	// Detector constraints fix the detector arm geometry (cap 1).
	Detector Category = iota
	// Reference constraints fix the reference vector geometry (cap 1).
	Reference
	// Sample constraints fix sample circle angles (cap 3).
	Sample
)

// String returns the category name used in rendered tables.
func (c Category) String() string {
	switch c {
	case Detector:
		return "DET"
	case Reference:
		return "REF"
	case Sample:
		return "SAMP"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Kind distinguishes constraints holding a numeric angle from boolean mode
// flags.
type Kind int

const (
	// KindValue constraints hold an angle.
	KindValue Kind = iota
	// KindVoid constraints are boolean flags: active or absent, no value.
	KindVoid
)

// categoryCaps is the maximum number of active constraints per category.
var categoryCaps = map[Category]int{
	Detector:  1,
	Reference: 1,
	Sample:    3,
}

// slotDefs is the closed table of the 17 constraint slots in declaration
// order. Category and kind are fixed at definition time; declaration order is
// the order used for export and rendering.
var slotDefs = [...]struct {
	name     string
	category Category
	kind     Kind
}{
	{"delta", Detector, KindValue},
	{"nu", Detector, KindValue},
	{"qaz", Detector, KindValue},
	{"naz", Detector, KindValue},

	{"a_eq_b", Reference, KindVoid},
	{"alpha", Reference, KindValue},
	{"beta", Reference, KindValue},
	{"psi", Reference, KindValue},
	{"bin_eq_bout", Reference, KindVoid},
	{"betain", Reference, KindValue},
	{"betaout", Reference, KindValue},

	{"mu", Sample, KindValue},
	{"eta", Sample, KindValue},
	{"chi", Sample, KindValue},
	{"phi", Sample, KindValue},
	{"bisect", Sample, KindVoid},
	{"omega", Sample, KindValue},
}

// constraint is one slot of the table: identity plus current value. Value
// constraints store radians; void constraints carry no value beyond active.
type constraint struct {
	name     string
	category Category
	kind     Kind
	active   bool
	value    float64
}

// Entry is one element of the sequence form of a constraint set. A void
// constraint is represented by its bare name (Void true); a value constraint
// carries its angle in the set's configured unit.
type Entry struct {
	Name  string
	Angle float64
	Void  bool
}

// Constraints is the full fixed table of the 17 constraint slots.
//
// Mutation is not internally synchronised; callers sharing one instance
// across goroutines must serialise writers themselves.
type Constraints struct {
	slots     [len(slotDefs)]constraint
	inDegrees bool
}

// NewConstraints returns an empty constraint set interpreting angles as
// degrees.
func NewConstraints() *Constraints {
	c := &Constraints{inDegrees: true}
	for i, def := range slotDefs {
		c.slots[i] = constraint{name: def.name, category: def.category, kind: def.kind}
	}
	return c
}

// NewConstraintsFromMap builds a constraint set from a name to value mapping.
// Values must be angles (float64 or int) for value constraints or boolean
// true for void constraints. Entries are applied in slot declaration order so
// that replacement-within-category behaviour is deterministic.
func NewConstraintsFromMap(m map[string]any, indegrees bool) (*Constraints, error) {
	c := NewConstraints()
	c.inDegrees = indegrees
	if err := c.SetFromMap(m); err != nil {
		return nil, err
	}
	return c, nil
}

// NewConstraintsFromEntries builds a constraint set from the sequence form,
// applying entries in the given order.
func NewConstraintsFromEntries(entries []Entry, indegrees bool) (*Constraints, error) {
	c := NewConstraints()
	c.inDegrees = indegrees
	if err := c.SetFromEntries(entries); err != nil {
		return nil, err
	}
	return c, nil
}

// InDegrees reports whether angle values are imported and exported in
// degrees. Internal storage is always radians.
func (c *Constraints) InDegrees() bool { return c.inDegrees }

// AsDegrees returns a copy of the constraint set that imports and exports
// angles in degrees. The active set is unchanged.
func AsDegrees(c *Constraints) *Constraints {
	res := *c
	res.inDegrees = true
	return &res
}

// AsRadians returns a copy of the constraint set that imports and exports
// angles in radians. The active set is unchanged.
func AsRadians(c *Constraints) *Constraints {
	res := *c
	res.inDegrees = false
	return &res
}

func (c *Constraints) find(name string) (*constraint, error) {
	for i := range c.slots {
		if c.slots[i].name == name {
			return &c.slots[i], nil
		}
	}
	return nil, fmt.Errorf("invalid constraint name %q: %w", name, diffract.ErrConfiguration)
}

func (c *Constraints) unit() string {
	if c.inDegrees {
		return units.Degrees
	}
	return units.Radians
}

// activeNames returns the names of active constraints in declaration order,
// filtered by category when cat is non-nil.
func (c *Constraints) activeNames(cat *Category) []string {
	var names []string
	for i := range c.slots {
		s := &c.slots[i]
		if s.active && (cat == nil || s.category == *cat) {
			names = append(names, s.name)
		}
	}
	return names
}

func (c *Constraints) activeCount(cat *Category) int {
	return len(c.activeNames(cat))
}

// admit applies the category admission rule before a slot is stored: within
// category capacity and total below three the slot is admitted directly; a
// single blocking constraint in the same category is replaced atomically;
// otherwise the caller must un-constrain explicitly.
func (c *Constraints) admit(slot *constraint) error {
	canSet := !c.IsCategoryFullyConstrained(slot.category) && !c.IsFullyConstrained()
	if canSet {
		return nil
	}
	if c.activeCount(&slot.category) == 1 {
		for i := range c.slots {
			if c.slots[i].active && c.slots[i].category == slot.category {
				c.slots[i].active = false
				c.slots[i].value = 0
			}
		}
		return nil
	}
	active := c.activeNames(nil)
	sort.Strings(active)
	return fmt.Errorf("cannot set %s constraint, first un-constrain one of the angles %s: %w",
		slot.name, strings.Join(active, ", "), diffract.ErrConfiguration)
}

// SetAngle sets a value constraint to the given angle, expressed in the
// set's configured unit. Setting an already active constraint replaces its
// value. Admission follows the category capacity rules.
func (c *Constraints) SetAngle(name string, angle float64) error {
	slot, err := c.find(name)
	if err != nil {
		return err
	}
	if slot.kind == KindVoid {
		return fmt.Errorf("constraint %s requires boolean value: %w", name, diffract.ErrConfiguration)
	}
	if err := c.admit(slot); err != nil {
		return err
	}
	slot.active = true
	slot.value = units.ToRadians(angle, c.unit())
	return nil
}

// Activate turns on a void constraint. Admission follows the category
// capacity rules.
func (c *Constraints) Activate(name string) error {
	slot, err := c.find(name)
	if err != nil {
		return err
	}
	if slot.kind == KindValue {
		return fmt.Errorf("constraint %s requires numerical value: %w", name, diffract.ErrConfiguration)
	}
	if err := c.admit(slot); err != nil {
		return err
	}
	slot.active = true
	return nil
}

// set dispatches a dynamically typed value from the mapping form.
func (c *Constraints) set(name string, value any) error {
	switch v := value.(type) {
	case nil:
		return c.Unset(name)
	case bool:
		if !v {
			return c.Unset(name)
		}
		slot, err := c.find(name)
		if err != nil {
			return err
		}
		if slot.kind == KindValue {
			return fmt.Errorf("constraint %s requires numerical value, found %T: %w",
				name, value, diffract.ErrConfiguration)
		}
		return c.Activate(name)
	case float64:
		return c.setNumeric(name, v, value)
	case float32:
		return c.setNumeric(name, float64(v), value)
	case int:
		return c.setNumeric(name, float64(v), value)
	default:
		return fmt.Errorf("invalid constraint parameter type %T for %s: %w",
			value, name, diffract.ErrConfiguration)
	}
}

func (c *Constraints) setNumeric(name string, angle float64, raw any) error {
	slot, err := c.find(name)
	if err != nil {
		return err
	}
	if slot.kind == KindVoid {
		return fmt.Errorf("constraint %s requires boolean value, found %T: %w",
			name, raw, diffract.ErrConfiguration)
	}
	return c.SetAngle(name, angle)
}

// Unset clears a constraint to absent unconditionally.
func (c *Constraints) Unset(name string) error {
	slot, err := c.find(name)
	if err != nil {
		return err
	}
	slot.active = false
	slot.value = 0
	return nil
}

// Clear removes all constraints.
func (c *Constraints) Clear() {
	for i := range c.slots {
		c.slots[i].active = false
		c.slots[i].value = 0
	}
}

// SetFromMap clears the set and applies the mapping in slot declaration
// order. On error the set is left cleared plus whatever valid entries were
// applied first; callers must treat a failed import as indeterminate state.
func (c *Constraints) SetFromMap(m map[string]any) error {
	c.Clear()
	for name := range m {
		if _, err := c.find(name); err != nil {
			return err
		}
	}
	for i := range c.slots {
		value, ok := m[c.slots[i].name]
		if !ok || value == nil {
			continue
		}
		if err := c.set(c.slots[i].name, value); err != nil {
			return err
		}
	}
	return nil
}

// SetFromEntries clears the set and applies the sequence form in the given
// order. On error the set is left cleared plus whatever valid entries were
// applied first.
func (c *Constraints) SetFromEntries(entries []Entry) error {
	c.Clear()
	for _, e := range entries {
		if e.Void {
			if err := c.Activate(e.Name); err != nil {
				return err
			}
			continue
		}
		if err := c.SetAngle(e.Name, e.Angle); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the current value of a constraint: nil when absent, true for
// an active void constraint, or the angle in the set's configured unit.
func (c *Constraints) Get(name string) (any, error) {
	slot, err := c.find(name)
	if err != nil {
		return nil, err
	}
	return c.valueOf(slot), nil
}

func (c *Constraints) valueOf(slot *constraint) any {
	if !slot.active {
		return nil
	}
	if slot.kind == KindVoid {
		return true
	}
	return units.Convert(slot.value, units.Radians, c.unit())
}

// AsMap returns the active constraints as a name to value mapping, angles in
// the set's configured unit. The result round-trips through
// NewConstraintsFromMap.
func (c *Constraints) AsMap() map[string]any {
	m := make(map[string]any)
	for i := range c.slots {
		if c.slots[i].active {
			m[c.slots[i].name] = c.valueOf(&c.slots[i])
		}
	}
	return m
}

// AsEntries returns the active constraints in sequence form, in declaration
// order. The result round-trips through NewConstraintsFromEntries.
func (c *Constraints) AsEntries() []Entry {
	var entries []Entry
	for i := range c.slots {
		s := &c.slots[i]
		if !s.active {
			continue
		}
		if s.kind == KindVoid {
			entries = append(entries, Entry{Name: s.name, Void: true})
		} else {
			entries = append(entries, Entry{Name: s.name, Angle: units.Convert(s.value, units.Radians, c.unit())})
		}
	}
	return entries
}

// All returns every constraint name mapped to its current value, nil for
// inactive slots.
func (c *Constraints) All() map[string]any {
	m := make(map[string]any, len(c.slots))
	for i := range c.slots {
		m[c.slots[i].name] = c.valueOf(&c.slots[i])
	}
	return m
}

func (c *Constraints) categoryMap(cat Category) map[string]any {
	m := make(map[string]any)
	for i := range c.slots {
		if c.slots[i].active && c.slots[i].category == cat {
			m[c.slots[i].name] = c.valueOf(&c.slots[i])
		}
	}
	return m
}

// Detector returns the active detector constraints.
func (c *Constraints) Detector() map[string]any { return c.categoryMap(Detector) }

// Reference returns the active reference constraints.
func (c *Constraints) Reference() map[string]any { return c.categoryMap(Reference) }

// Sample returns the active sample constraints.
func (c *Constraints) Sample() map[string]any { return c.categoryMap(Sample) }

// Constrained returns the names of all active constraints in declaration
// order.
func (c *Constraints) Constrained() []string { return c.activeNames(nil) }

// IsFullyConstrained reports whether at least three constraints are active.
func (c *Constraints) IsFullyConstrained() bool {
	return c.activeCount(nil) >= 3
}

// IsCategoryFullyConstrained reports whether the category has reached its
// capacity of active constraints.
func (c *Constraints) IsCategoryFullyConstrained(cat Category) bool {
	return c.activeCount(&cat) >= categoryCaps[cat]
}
