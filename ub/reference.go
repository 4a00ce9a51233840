package ub

import (
	"fmt"
	"strings"

	"github.com/banshee-data/diffract"
	"github.com/banshee-data/diffract/hkl"
)

// Reflection is one reference reflection: miller indices, the diffractometer
// position it was observed at, the beam energy in keV and an identifying tag.
type Reflection struct {
	H      float64
	K      float64
	L      float64
	Pos    hkl.Position
	Energy float64
	Tag    string
}

// Orientation is one reference orientation: miller indices and the matching
// laboratory frame coordinates, with the diffractometer position and an
// identifying tag.
type Orientation struct {
	H   float64
	K   float64
	L   float64
	X   float64
	Y   float64
	Z   float64
	Pos hkl.Position
	Tag string
}

// ReflectionList holds the reference reflections used for orientation
// calculations. Indices are 1-based. In degrees mode positions are converted
// to radians on ingest and back to degrees on read.
type ReflectionList struct {
	reflections []Reflection
	inDegrees   bool
}

// NewReflectionList returns an empty list in degrees mode.
func NewReflectionList() *ReflectionList {
	return &ReflectionList{inDegrees: true}
}

// NewReflectionListFrom wraps existing reflections, whose positions must
// already be in radians.
func NewReflectionListFrom(reflections []Reflection, indegrees bool) *ReflectionList {
	return &ReflectionList{reflections: reflections, inDegrees: indegrees}
}

// Len returns the number of reference reflections in the list.
func (l *ReflectionList) Len() int { return len(l.reflections) }

// TagIndex returns the 1-based index of the reflection with the given tag.
func (l *ReflectionList) TagIndex(tag string) (int, error) {
	for i, ref := range l.reflections {
		if ref.Tag == tag {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("reflection with tag %q not found: %w", tag, diffract.ErrConfiguration)
}

func (l *ReflectionList) checkIndex(idx int) error {
	if idx < 1 || idx > len(l.reflections) {
		return fmt.Errorf("reflection index %d out of range: %w", idx, diffract.ErrConfiguration)
	}
	return nil
}

func (l *ReflectionList) ingest(pos hkl.Position) hkl.Position {
	if l.inDegrees {
		return pos.InRadians()
	}
	return pos
}

// Add appends a reference reflection.
func (l *ReflectionList) Add(miller [3]float64, pos hkl.Position, energy float64, tag string) {
	l.reflections = append(l.reflections, Reflection{
		H: miller[0], K: miller[1], L: miller[2],
		Pos: l.ingest(pos), Energy: energy, Tag: tag,
	})
}

// Edit replaces the reference reflection at the given index.
func (l *ReflectionList) Edit(idx int, miller [3]float64, pos hkl.Position, energy float64, tag string) error {
	if err := l.checkIndex(idx); err != nil {
		return err
	}
	l.reflections[idx-1] = Reflection{
		H: miller[0], K: miller[1], L: miller[2],
		Pos: l.ingest(pos), Energy: energy, Tag: tag,
	}
	return nil
}

// Get returns the reference reflection at the given index, with the position
// in the list's configured unit.
func (l *ReflectionList) Get(idx int) (Reflection, error) {
	if err := l.checkIndex(idx); err != nil {
		return Reflection{}, err
	}
	ref := l.reflections[idx-1]
	if l.inDegrees {
		ref.Pos = ref.Pos.InDegrees()
	}
	return ref, nil
}

// Remove deletes the reference reflection at the given index.
func (l *ReflectionList) Remove(idx int) error {
	if err := l.checkIndex(idx); err != nil {
		return err
	}
	l.reflections = append(l.reflections[:idx-1], l.reflections[idx:]...)
	return nil
}

// Swap exchanges the reflections at the two indices.
func (l *ReflectionList) Swap(idx1, idx2 int) error {
	if err := l.checkIndex(idx1); err != nil {
		return err
	}
	if err := l.checkIndex(idx2); err != nil {
		return err
	}
	l.reflections[idx1-1], l.reflections[idx2-1] = l.reflections[idx2-1], l.reflections[idx1-1]
	return nil
}

// String renders the reflection list as a fixed-width table.
func (l *ReflectionList) String() string {
	if len(l.reflections) == 0 {
		return "   <<< none specified >>>"
	}

	var lines []string
	header := fmt.Sprintf("     %6s %5s %5s %5s  ", "ENERGY", "H", "K", "L")
	for _, axis := range hkl.PositionFields {
		header += fmt.Sprintf("%8s ", strings.ToUpper(axis))
	}
	lines = append(lines, header+" TAG")

	for n := 1; n <= len(l.reflections); n++ {
		ref, _ := l.Get(n)
		row := fmt.Sprintf("  %2d %6.3f % 4.2f % 4.2f % 4.2f  ", n, ref.Energy, ref.H, ref.K, ref.L)
		for _, angle := range ref.Pos.Angles() {
			row += fmt.Sprintf("% 8.4f ", angle)
		}
		lines = append(lines, row+" "+ref.Tag)
	}
	return strings.Join(lines, "\n")
}

// OrientationList holds the reference orientations given in the external
// diffractometer coordinate system. Indices are 1-based. In degrees mode
// positions are converted to radians on ingest and back to degrees on read.
type OrientationList struct {
	orientations []Orientation
	inDegrees    bool
}

// NewOrientationList returns an empty list in degrees mode.
func NewOrientationList() *OrientationList {
	return &OrientationList{inDegrees: true}
}

// NewOrientationListFrom wraps existing orientations, whose positions must
// already be in radians.
func NewOrientationListFrom(orientations []Orientation, indegrees bool) *OrientationList {
	return &OrientationList{orientations: orientations, inDegrees: indegrees}
}

// Len returns the number of reference orientations in the list.
func (l *OrientationList) Len() int { return len(l.orientations) }

// TagIndex returns the 1-based index of the orientation with the given tag.
func (l *OrientationList) TagIndex(tag string) (int, error) {
	for i, orient := range l.orientations {
		if orient.Tag == tag {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("orientation with tag %q not found: %w", tag, diffract.ErrConfiguration)
}

func (l *OrientationList) checkIndex(idx int) error {
	if idx < 1 || idx > len(l.orientations) {
		return fmt.Errorf("orientation index %d out of range: %w", idx, diffract.ErrConfiguration)
	}
	return nil
}

func (l *OrientationList) ingest(pos hkl.Position) hkl.Position {
	if l.inDegrees {
		return pos.InRadians()
	}
	return pos
}

// Add appends a reference orientation.
func (l *OrientationList) Add(miller, xyz [3]float64, pos hkl.Position, tag string) {
	l.orientations = append(l.orientations, Orientation{
		H: miller[0], K: miller[1], L: miller[2],
		X: xyz[0], Y: xyz[1], Z: xyz[2],
		Pos: l.ingest(pos), Tag: tag,
	})
}

// Edit replaces the reference orientation at the given index.
func (l *OrientationList) Edit(idx int, miller, xyz [3]float64, pos hkl.Position, tag string) error {
	if err := l.checkIndex(idx); err != nil {
		return err
	}
	l.orientations[idx-1] = Orientation{
		H: miller[0], K: miller[1], L: miller[2],
		X: xyz[0], Y: xyz[1], Z: xyz[2],
		Pos: l.ingest(pos), Tag: tag,
	}
	return nil
}

// Get returns the reference orientation at the given index, with the
// position in the list's configured unit.
func (l *OrientationList) Get(idx int) (Orientation, error) {
	if err := l.checkIndex(idx); err != nil {
		return Orientation{}, err
	}
	orient := l.orientations[idx-1]
	if l.inDegrees {
		orient.Pos = orient.Pos.InDegrees()
	}
	return orient, nil
}

// Remove deletes the reference orientation at the given index.
func (l *OrientationList) Remove(idx int) error {
	if err := l.checkIndex(idx); err != nil {
		return err
	}
	l.orientations = append(l.orientations[:idx-1], l.orientations[idx:]...)
	return nil
}

// Swap exchanges the orientations at the two indices.
func (l *OrientationList) Swap(idx1, idx2 int) error {
	if err := l.checkIndex(idx1); err != nil {
		return err
	}
	if err := l.checkIndex(idx2); err != nil {
		return err
	}
	l.orientations[idx1-1], l.orientations[idx2-1] = l.orientations[idx2-1], l.orientations[idx1-1]
	return nil
}

// String renders the orientation list as a fixed-width table.
func (l *OrientationList) String() string {
	if len(l.orientations) == 0 {
		return "   <<< none specified >>>"
	}

	var lines []string
	header := fmt.Sprintf("     %5s %5s %5s   %5s %5s %5s  ", "H", "K", "L", "X", "Y", "Z")
	for _, axis := range hkl.PositionFields {
		header += fmt.Sprintf("%8s ", strings.ToUpper(axis))
	}
	lines = append(lines, header+" TAG")

	for n := 1; n <= len(l.orientations); n++ {
		orient, _ := l.Get(n)
		row := fmt.Sprintf("  %2d % 4.2f % 4.2f % 4.2f  % 4.2f % 4.2f % 4.2f  ",
			n, orient.H, orient.K, orient.L, orient.X, orient.Y, orient.Z)
		for _, angle := range orient.Pos.Angles() {
			row += fmt.Sprintf("% 8.4f ", angle)
		}
		lines = append(lines, row+" "+orient.Tag)
	}
	return strings.Join(lines, "\n")
}
