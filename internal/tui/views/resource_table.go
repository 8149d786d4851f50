package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/padesk/internal/tui/ui"
	"github.com/rivo/tview"
)

// ResourceTable renders one record list. Rows are pre-formatted by the caller;
// the first cell of each row is the record id and is not shown.
type ResourceTable struct {
	*tview.Table
	theme   *ui.Theme
	title   string
	hints   []ui.MenuHint
	headers []string
	rows    [][]string
	visible [][]string
	filter  string
	footer  string
	loading bool
	errMsg  string
}

// NewResourceTable creates an empty table with the given column headers.
func NewResourceTable(theme *ui.Theme, title string, headers []string, hints []ui.MenuHint) *ResourceTable {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitleColor(theme.TitleColor)

	rt := &ResourceTable{
		Table:   table,
		theme:   theme,
		title:   title,
		hints:   hints,
		headers: headers,
	}
	rt.render()
	return rt
}

// Name implements Component.
func (rt *ResourceTable) Name() string { return rt.title }

// Hints implements Component.
func (rt *ResourceTable) Hints() []ui.MenuHint { return rt.hints }

// Update replaces the rows and request state. footer is appended to the title,
// e.g. pagination or a balance.
func (rt *ResourceTable) Update(rows [][]string, footer string, loading bool, errMsg string) {
	rt.rows = rows
	rt.footer = footer
	rt.loading = loading
	rt.errMsg = errMsg
	rt.render()
}

// SetFilter narrows the visible rows to those containing filter in any cell.
func (rt *ResourceTable) SetFilter(filter string) {
	rt.filter = filter
	rt.render()
}

// SelectedID returns the id of the highlighted row.
func (rt *ResourceTable) SelectedID() string {
	row, _ := rt.GetSelection()
	if row < 1 || row > len(rt.visible) {
		return ""
	}
	return rt.visible[row-1][0]
}

func (rt *ResourceTable) render() {
	rt.Clear()

	for col, h := range rt.headers {
		rt.SetCell(0, col, tview.NewTableCell(" "+h).
			SetSelectable(false).
			SetTextColor(rt.theme.TableHeaderFg).
			SetBackgroundColor(rt.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(1))
	}

	rt.visible = rt.visible[:0]
	for _, r := range rt.rows {
		if rt.filter != "" && !matchesFilter(rt.filter, r[1:]...) {
			continue
		}
		rt.visible = append(rt.visible, r)
	}
	for i, r := range rt.visible {
		for col, v := range r[1:] {
			rt.SetCell(i+1, col, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(v))).
				SetExpansion(1).
				SetTextColor(rt.theme.FgColor))
		}
	}

	title := listTitle(rt.title, len(rt.visible), len(rt.rows), rt.filter, rt.loading, rt.errMsg)
	if rt.footer != "" {
		title += tview.Escape(rt.footer) + " "
	}
	rt.SetTitle(title)
}
