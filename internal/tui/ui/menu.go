package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Menu displays keyboard shortcut hints in columns of at most perColumn rows.
type Menu struct {
	*tview.TextView
	theme     *Theme
	perColumn int
}

// NewMenu creates a new menu hint panel.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{
		TextView:  tv,
		theme:     theme,
		perColumn: 5,
	}
}

// Update renders menu hints, filling columns top to bottom.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()

	cells := make([]string, len(hints))
	for i, h := range hints {
		kc := ColorName(m.theme.MenuKeyColor)
		if h.Numeric {
			kc = ColorName(m.theme.NumericKeyColor)
		}
		cells[i] = fmt.Sprintf("[%s::b]%-8s[-:-:-] %-14s", kc, "<"+h.Key+">", h.Description)
	}

	for row := 0; row < m.perColumn; row++ {
		for i := row; i < len(cells); i += m.perColumn {
			_, _ = fmt.Fprint(m, cells[i])
		}
		_, _ = fmt.Fprintln(m)
	}
}
