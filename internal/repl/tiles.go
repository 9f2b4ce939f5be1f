package repl

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stacklok/wordfinder/internal/filtering"
)

var (
	greenColor  = lipgloss.Color("#6AAA64")
	yellowColor = lipgloss.Color("#C9B458")
	greyColor   = lipgloss.Color("#787C7E")
	whiteColor  = lipgloss.Color("#FFFFFF")
)

// tileStyles renders letters as coloured tiles
type tileStyles struct {
	label    lipgloss.Style
	included lipgloss.Style
	excluded lipgloss.Style
	wildcard lipgloss.Style
}

func newTileStyles(r *lipgloss.Renderer) tileStyles {
	tile := r.NewStyle().
		Bold(true).
		Foreground(whiteColor).
		Padding(0, 1).
		MarginRight(1)

	return tileStyles{
		label:    r.NewStyle().Width(10),
		included: tile.Background(greenColor),
		excluded: tile.Background(yellowColor),
		wildcard: tile.Background(greyColor),
	}
}

// row renders one tile per letter, or a dash when there are none
func (s tileStyles) row(label, letters string, style func(rune) lipgloss.Style) string {
	if letters == "" {
		return s.label.Render(label) + "-"
	}

	tiles := make([]string, 0, len(letters))
	for _, letter := range letters {
		tiles = append(tiles, style(letter).Render(string(letter)))
	}
	return s.label.Render(label) + lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

// render draws the engine state: included letters green, excluded letters
// yellow, pattern literals green and wildcards grey
func (s tileStyles) render(state filtering.State, remaining int) string {
	var b strings.Builder

	b.WriteString(s.row("Included", state.Included, func(rune) lipgloss.Style { return s.included }))
	b.WriteString("\n")
	b.WriteString(s.row("Excluded", state.Excluded, func(rune) lipgloss.Style { return s.excluded }))
	b.WriteString("\n")
	b.WriteString(s.row("Pattern", state.Pattern, func(r rune) lipgloss.Style {
		if r == filtering.Wildcard {
			return s.wildcard
		}
		return s.included
	}))
	b.WriteString("\n")
	b.WriteString(s.label.Render("Words"))
	b.WriteString(strconv.Itoa(remaining))
	b.WriteString("\n")

	return b.String()
}
