package menu

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/ansi"
	"github.com/rivo/uniseg"

	"github.com/nish-sh/nish/pkg/complete"
)

// Options controls how Render lays out the visible window.
type Options struct {
	ShowHeaders        bool
	ShowTypeIndicators bool
	MultiColumn        bool
	HighlightSelection bool
	// MaxRows caps the rendered height; zero means unlimited.
	MaxRows int
	// Width is the terminal width driving the column count.
	Width           int
	SelectionPrefix string
	SelectionSuffix string
	// FuzzyFilter is a reserved extension point and is currently ignored.
	FuzzyFilter string
}

// DefaultOptions returns the layout used by the shell's menu keybinding.
func DefaultOptions(width int) Options {
	return Options{
		ShowHeaders:        true,
		ShowTypeIndicators: true,
		MultiColumn:        true,
		HighlightSelection: true,
		Width:              width,
		SelectionPrefix:    "> ",
	}
}

// Stats describes the layout Render produced, for the display layer's cursor
// math.
type Stats struct {
	ItemsRendered   int
	RowsUsed        int
	ColumnsUsed     int
	CategoriesShown int
	Truncated       bool
}

const (
	minColumnWidth = 8
	columnGap      = 2
)

var (
	headerStyle      = lipgloss.NewStyle().Bold(true)
	selectedStyle    = lipgloss.NewStyle().Reverse(true)
	descriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// categoryRun is one contiguous slice of same-typed items inside the visible
// window. Runs exist per window, not per result set: scrolling may expose
// only part of a category.
type categoryRun struct {
	kind  complete.CandidateType
	start int // absolute index into the result
	items []complete.Candidate
}

// Render formats the menu's visible window. It never touches items outside
// the window, so its cost is bounded regardless of result size, and it never
// mutates the model.
func Render(m *Model, opts Options) (string, Stats) {
	var stats Stats
	if m == nil || !m.active || m.result == nil || m.result.Len() == 0 {
		return "", stats
	}

	items := m.result.Items()
	end := m.firstVisible + m.visibleCount
	if end > len(items) {
		end = len(items)
	}
	window := items[m.firstVisible:end]
	if len(window) == 0 {
		return "", stats
	}

	hasDescriptions := false
	maxLabel := 0
	for i := range window {
		if window[i].Description != "" {
			hasDescriptions = true
		}
		if w := uniseg.StringWidth(label(window[i], opts)); w > maxLabel {
			maxLabel = w
		}
	}
	if maxLabel < minColumnWidth {
		maxLabel = minColumnWidth
	}

	prefixWidth := ansi.PrintableRuneWidth(opts.SelectionPrefix)
	cellWidth := maxLabel + prefixWidth + ansi.PrintableRuneWidth(opts.SelectionSuffix)

	// Descriptions force a single column so they stay aligned.
	columns := 1
	if opts.MultiColumn && !hasDescriptions && opts.Width > 0 {
		columns = opts.Width / (cellWidth + columnGap)
		if columns < 1 {
			columns = 1
		}
		if columns > len(window) {
			columns = len(window)
		}
	}
	stats.ColumnsUsed = columns

	var b strings.Builder
	for _, run := range windowRuns(window, m.firstVisible) {
		if opts.MaxRows > 0 && stats.RowsUsed >= opts.MaxRows {
			stats.Truncated = true
			break
		}
		if opts.ShowHeaders {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(headerStyle.Render(run.kind.String()))
			stats.RowsUsed++
		}
		stats.CategoriesShown++

		rows := (len(run.items) + columns - 1) / columns
		for r := 0; r < rows; r++ {
			if opts.MaxRows > 0 && stats.RowsUsed >= opts.MaxRows {
				stats.Truncated = true
				break
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			for c := 0; c < columns; c++ {
				i := c*rows + r
				if i >= len(run.items) {
					continue
				}
				selected := run.start+i == m.selected
				cell := renderCell(run.items[i], selected, maxLabel, prefixWidth, opts)
				if c < columns-1 {
					cell = padTo(cell, cellWidth+columnGap)
				}
				b.WriteString(cell)
				stats.ItemsRendered++
			}
			stats.RowsUsed++
		}
	}

	return b.String(), stats
}

// windowRuns splits the visible window into contiguous type runs.
func windowRuns(window []complete.Candidate, offset int) []categoryRun {
	var runs []categoryRun
	for i := range window {
		if len(runs) == 0 || runs[len(runs)-1].kind != window[i].Type {
			runs = append(runs, categoryRun{kind: window[i].Type, start: offset + i})
		}
		last := &runs[len(runs)-1]
		last.items = append(last.items, window[i])
	}
	return runs
}

func label(c complete.Candidate, opts Options) string {
	if opts.ShowTypeIndicators {
		return c.Type.Indicator() + " " + c.Text
	}
	return c.Text
}

func renderCell(c complete.Candidate, selected bool, maxLabel, prefixWidth int, opts Options) string {
	text := runewidth.Truncate(label(c, opts), maxLabel, "…")

	var cell string
	switch {
	case selected && opts.HighlightSelection:
		cell = opts.SelectionPrefix + selectedStyle.Render(text) + opts.SelectionSuffix
	case selected:
		cell = opts.SelectionPrefix + text + opts.SelectionSuffix
	default:
		cell = strings.Repeat(" ", prefixWidth) + text
	}

	if c.Description != "" {
		padding := maxLabel - uniseg.StringWidth(text) + columnGap
		cell += strings.Repeat(" ", padding) + descriptionStyle.Render(c.Description)
	}
	return cell
}

// padTo pads a cell to the column width, measuring printable width so the
// selection's ANSI styling does not skew alignment.
func padTo(cell string, width int) string {
	if w := ansi.PrintableRuneWidth(cell); w < width {
		return cell + strings.Repeat(" ", width-w)
	}
	return cell + strings.Repeat(" ", columnGap)
}
