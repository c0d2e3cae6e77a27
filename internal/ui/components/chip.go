package components

import (
	"strings"

	"github.com/abhisek/examreview/internal/ui/theme"
)

// Chips renders tags as inline badges. The tag equal to active is
// highlighted.
func Chips(tags []string, active string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == active {
			parts = append(parts, theme.ChipActive.Render("#"+t))
		} else {
			parts = append(parts, theme.ChipInactive.Render("#"+t))
		}
	}
	return strings.Join(parts, " ")
}

// ContentWidth returns the inner width used for question cards so that
// stacked boxes line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 90 {
		w = 90
	}
	if w < 20 {
		w = 20
	}
	return w
}
