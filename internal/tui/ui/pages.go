package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rivo/tview"
)

// Pages is a stack-based page manager wrapping tview.Pages.
type Pages struct {
	*tview.Pages
	stack    []string
	onChange func(stack []string)
}

// NewPages creates a new stack-based page manager.
func NewPages() *Pages {
	return &Pages{
		Pages: tview.NewPages(),
	}
}

// SetOnChange sets a callback that fires when the stack changes.
func (p *Pages) SetOnChange(fn func(stack []string)) {
	p.onChange = fn
}

// Push shows name on top of the stack. A page already on the stack is
// returned to by unwinding everything above it.
func (p *Pages) Push(name string) {
	if i := slices.Index(p.stack, name); i >= 0 {
		for _, n := range p.stack[i+1:] {
			p.HidePage(n)
		}
		p.stack = p.stack[:i+1]
	} else {
		if len(p.stack) > 0 {
			p.HidePage(p.stack[len(p.stack)-1])
		}
		p.stack = append(p.stack, name)
	}
	p.ShowPage(name)
	p.SendToFront(name)
	p.notify()
}

// Pop removes the top page and shows the previous one. The root page is never
// popped. Returns the popped page name, or empty.
func (p *Pages) Pop() string {
	if len(p.stack) < 2 {
		return ""
	}
	top := p.stack[len(p.stack)-1]
	p.HidePage(top)
	p.stack = p.stack[:len(p.stack)-1]
	current := p.stack[len(p.stack)-1]
	p.ShowPage(current)
	p.SendToFront(current)
	p.notify()
	return top
}

// Current returns the name of the current (top) page.
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// Stack returns a copy of the current page stack.
func (p *Pages) Stack() []string {
	return slices.Clone(p.stack)
}

// Reset clears the stack and shows only the given page.
func (p *Pages) Reset(name string) {
	for _, n := range p.stack {
		p.HidePage(n)
	}
	p.stack = []string{name}
	p.ShowPage(name)
	p.SendToFront(name)
	p.notify()
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}

// Crumbs is a breadcrumb bar showing the page stack.
type Crumbs struct {
	*tview.TextView
	theme *Theme
}

// NewCrumbs creates a new breadcrumb bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &Crumbs{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the trail; the last entry is the active page.
func (c *Crumbs) Update(trail []string) {
	c.Clear()
	parts := make([]string, 0, len(trail))
	for i, name := range trail {
		fg, bg, attr := c.theme.CrumbInactiveFg, c.theme.CrumbInactiveBg, ""
		if i == len(trail)-1 {
			fg, bg, attr = c.theme.CrumbActiveFg, c.theme.CrumbActiveBg, "b"
		}
		parts = append(parts, fmt.Sprintf("[%s:%s:%s] %s [-:-:-]", ColorName(fg), ColorName(bg), attr, tview.Escape(name)))
	}
	_, _ = fmt.Fprint(c, strings.Join(parts, " "))
}
