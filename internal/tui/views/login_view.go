package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/padesk/internal/tui/ui"
	"github.com/rivo/tview"
)

// LoginView is the sign-in form shown whenever the session is expired.
type LoginView struct {
	*tview.Flex
	theme    *ui.Theme
	form     *tview.Form
	status   *tview.TextView
	busy     bool
	onSubmit func(email, password string)
}

// NewLoginView creates a new login form.
func NewLoginView(theme *ui.Theme) *LoginView {
	lv := &LoginView{theme: theme}

	form := tview.NewForm().
		AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil).
		AddButton("Sign in", lv.submit)
	form.SetBackgroundColor(theme.BgColor)
	form.SetFieldBackgroundColor(theme.BgColor)
	form.SetFieldTextColor(theme.FgColor)
	form.SetLabelColor(theme.MenuKeyColor)
	form.SetButtonBackgroundColor(theme.TableCursorBg)
	form.SetButtonTextColor(theme.TableCursorFg)
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetTitle(" Sign in required ")
	form.SetTitleColor(theme.TitleColor)

	status := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	status.SetBackgroundColor(theme.BgColor)

	lv.form = form
	lv.status = status
	lv.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(form, 60, 0, true).
			AddItem(nil, 0, 1, false), 9, 0, true).
		AddItem(status, 2, 0, false).
		AddItem(nil, 0, 1, false)
	return lv
}

// Name implements Component.
func (lv *LoginView) Name() string { return "Sign in" }

// Hints implements Component.
func (lv *LoginView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl-C", Description: "Quit"},
	}
}

// SetOnSubmit sets the callback invoked with the entered credentials.
func (lv *LoginView) SetOnSubmit(fn func(email, password string)) {
	lv.onSubmit = fn
}

func (lv *LoginView) submit() {
	if lv.busy || lv.onSubmit == nil {
		return
	}
	email := strings.TrimSpace(lv.form.GetFormItemByLabel("Email").(*tview.InputField).GetText())
	password := lv.form.GetFormItemByLabel("Password").(*tview.InputField).GetText()
	if email == "" || password == "" {
		lv.ShowError("Email and password are required")
		return
	}
	lv.busy = true
	lv.ShowMessage("Signing in…")
	lv.onSubmit(email, password)
}

// Done re-enables the form after a sign-in attempt; a successful attempt
// also clears the password.
func (lv *LoginView) Done(ok bool) {
	lv.busy = false
	if ok {
		lv.form.GetFormItemByLabel("Password").(*tview.InputField).SetText("")
		lv.status.Clear()
	}
}

// Form returns the form (for focus management).
func (lv *LoginView) Form() *tview.Form {
	return lv.form
}

// ShowMessage displays a status line under the form.
func (lv *LoginView) ShowMessage(msg string) {
	lv.status.Clear()
	_, _ = fmt.Fprintf(lv.status, "[%s]%s[-]", ui.ColorName(lv.theme.FgColor), tview.Escape(msg))
}

// ShowError displays an error line under the form.
func (lv *LoginView) ShowError(msg string) {
	lv.status.Clear()
	_, _ = fmt.Fprintf(lv.status, "[%s]%s[-]", ui.ColorName(lv.theme.FlashErrColor), tview.Escape(msg))
}
