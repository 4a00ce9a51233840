package hkl

import (
	"fmt"
	"strings"
)

// String renders the constraint set as the fixed three-column table followed
// by the list of constrained angle names and values.
func (c *Constraints) String() string {
	var lines []string
	lines = append(lines, c.displayTableLines()...)
	lines = append(lines, "")
	lines = append(lines, c.reportLines()...)
	lines = append(lines, "")
	if c.IsFullyConstrained() && !c.modeImplemented() {
		lines = append(lines, "    Sorry, this constraint combination is not implemented.")
	}
	return strings.Join(lines, "\n")
}

// displayTableLines builds the three-column slot table. Active slots are
// marked with a directional arrow.
func (c *Constraints) displayTableLines() []string {
	columns := [3][]*constraint{}
	maxNameWidth := 0
	for i := range c.slots {
		s := &c.slots[i]
		columns[s.category] = append(columns[s.category], s)
		if len(s.name) > maxNameWidth {
			maxNameWidth = len(s.name)
		}
	}

	var rows [][]string

	header := []string{
		"    " + pad("DET", maxNameWidth),
		"    " + pad("REF", maxNameWidth),
		"    SAMP",
	}
	rows = append(rows, header)

	underline := "    " + strings.Repeat("-", maxNameWidth)
	rows = append(rows, []string{underline, underline, underline})

	height := 0
	for _, col := range columns {
		if len(col) > height {
			height = len(col)
		}
	}
	for i := 0; i < height; i++ {
		var cells []string
		for _, col := range columns {
			var s *constraint
			if i < len(col) {
				s = col[i]
			}
			if s == nil || !s.active {
				cells = append(cells, "   ")
			} else {
				cells = append(cells, "-->")
			}
			name := ""
			if s != nil {
				name = s.name
			}
			cells = append(cells, pad(name, maxNameWidth))
		}
		rows = append(rows, cells)
	}

	lines := make([]string, 0, len(rows))
	for _, cells := range rows {
		lines = append(lines, strings.TrimRight(strings.Join(cells, " "), " "))
	}
	return lines
}

// reportLines lists how many constraints are still required, then one line
// per active constraint with its value to four decimal places.
func (c *Constraints) reportLines() []string {
	var lines []string
	required := 3 - c.activeCount(nil)
	switch {
	case required == 1:
		lines = append(lines, "!   1 more constraint required")
	case required > 1:
		lines = append(lines, fmt.Sprintf("!   %d more constraints required", required))
	}
	for i := range c.slots {
		s := &c.slots[i]
		if !s.active {
			continue
		}
		if s.kind == KindVoid {
			lines = append(lines, "    "+s.name)
		} else {
			lines = append(lines, fmt.Sprintf("    %s: %.4f", pad(s.name, 5), c.valueOf(s)))
		}
	}
	return lines
}

func pad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}
