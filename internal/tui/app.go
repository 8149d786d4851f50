package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/padesk/internal/apiclient"
	"github.com/matheus3301/padesk/internal/auth"
	"github.com/matheus3301/padesk/internal/bus"
	"github.com/matheus3301/padesk/internal/chat"
	"github.com/matheus3301/padesk/internal/logging"
	"github.com/matheus3301/padesk/internal/reqcache"
	"github.com/matheus3301/padesk/internal/resource"
	"github.com/matheus3301/padesk/internal/tui/keys"
	"github.com/matheus3301/padesk/internal/tui/ui"
	"github.com/matheus3301/padesk/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	pageConversations = "conversations"
	pageThread        = "thread"
	pageDetails       = "details"
	pageHelp          = "help"
	pageLogin         = "login"

	lastScreenKey = "last_screen"
)

// UIStore persists small UI checkpoints across runs.
type UIStore interface {
	SetUIState(key, value string) error
	UIState(key string) (string, error)
}

// Deps are the running dashboard's components.
type Deps struct {
	Profile   string
	APIBase   string
	Session   *auth.Session
	Resources *resource.Set
	Engine    *chat.Engine
	Poller    *chat.Poller
	Bus       *bus.Bus
	Store     UIStore
	Logger    *zap.Logger
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	deps     Deps
	logger   *zap.Logger
	theme    *ui.Theme
	registry *keys.Registry

	root     *tview.Flex
	pages    *ui.Pages
	crumbs   *ui.Crumbs
	menu     *ui.Menu
	info     *ui.ProfileInfo
	flash    *ui.FlashModel
	flashBar *ui.FlashBar
	prompt   *ui.Prompt

	convList *views.ConversationList
	thread   *views.MessageThread
	details  *views.ConversationInfo
	help     *views.HelpView
	login    *views.LoginView

	screens    []*screen
	wallet     *walletScreen
	components map[string]ui.Component

	lastSync time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(d Deps) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:        tview.NewApplication(),
		deps:       d,
		logger:     logging.OrNop(d.Logger).Named("tui"),
		theme:      theme,
		registry:   keys.NewRegistry(),
		pages:      ui.NewPages(),
		crumbs:     ui.NewCrumbs(theme),
		menu:       ui.NewMenu(theme),
		info:       ui.NewProfileInfo(theme),
		flash:      ui.NewFlashModel(),
		flashBar:   ui.NewFlashBar(theme),
		prompt:     ui.NewPrompt(theme),
		convList:   views.NewConversationList(theme),
		thread:     views.NewMessageThread(theme),
		details:    views.NewConversationInfo(theme),
		help:       views.NewHelpView(theme),
		login:      views.NewLoginView(theme),
		components: make(map[string]ui.Component),
		ctx:        ctx,
		cancel:     cancel,
	}
	a.screens, a.wallet = buildScreens(theme, d.Resources)

	a.setupPages()
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupPages() {
	add := func(name string, p tview.Primitive, c ui.Component) {
		a.pages.AddPage(name, p, true, false)
		a.components[name] = c
	}
	add(pageConversations, a.convList, a.convList)
	add(pageThread, a.thread, a.thread)
	add(pageDetails, a.details, a.details)
	add(pageHelp, a.help, a.help)
	add(pageLogin, a.login, a.login)
	for _, s := range a.screens {
		add(s.page, s.table, s.table)
	}

	a.pages.SetOnChange(func(stack []string) {
		names := make([]string, 0, len(stack))
		for _, p := range stack {
			names = append(names, a.components[p].Name())
		}
		a.crumbs.Update(names)
		if c, ok := a.components[a.pages.Current()]; ok {
			a.menu.Update(c.Hints())
		}
	})
}

func (a *App) setupBindings() {
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: 'q', Description: "quit", Handler: a.Stop})
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: ':', Description: "command", Handler: func() { a.showPrompt(ui.PromptCommand) }})
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: '/', Description: "filter", Handler: func() { a.showPrompt(ui.PromptFilter) }})
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: '?', Description: "help", Handler: func() { a.pages.Push(pageHelp) }})
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: 'c', Description: "conversations", Handler: a.showConversations})
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: 'r', Description: "reload", Handler: a.reload})
	for _, s := range a.screens {
		s := s
		a.registry.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: s.key, Description: s.table.Name(), Handler: func() { a.showScreen(s) }})
	}

	a.registry.AddView(pageThread, &keys.Action{Key: tcell.KeyRune, Rune: 'i', Description: "compose", Handler: func() {
		a.app.SetFocus(a.thread.Composer())
	}})
	a.registry.AddView(pageThread, &keys.Action{Key: tcell.KeyRune, Rune: 'd', Description: "details", Handler: a.showDetails})
}

func (a *App) setupCallbacks() {
	a.convList.SetSelectedFunc(func(row, _ int) {
		if conv, ok := a.convList.ByIndex(row); ok {
			a.openConversation(conv)
		}
	})

	a.thread.SetOnSend(func(text string, done func(ok bool)) {
		convID := a.thread.Conversation().ID
		go func() {
			_, err := a.deps.Engine.SendMessage(a.ctx, convID, text)
			a.app.QueueUpdateDraw(func() { done(err == nil) })
		}()
	})

	a.login.SetOnSubmit(func(email, password string) {
		go func() {
			err := a.deps.Session.SignIn(a.ctx, email, password)
			a.app.QueueUpdateDraw(func() {
				a.login.Done(err == nil)
				if err != nil {
					a.login.ShowError(apiclient.Classify(err).Message)
					return
				}
				a.restoreLastScreen()
			})
		}()
	})

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptFilter {
			a.applyFilter(text)
			return
		}
		if text != "" {
			a.runCommand(ParseCommand(text))
		}
	})
	a.prompt.SetOnCancel(a.hidePrompt)
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		AddItem(ui.NewLogo(a.theme), 22, 0, false).
		AddItem(a.info, 0, 1, false).
		AddItem(a.menu, 0, 2, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 6, 0, false).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.flashBar, 1, 0, false)
	a.root.SetBackgroundColor(a.theme.BgColor)

	a.app.SetRoot(a.root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		current := a.pages.Current()

		// The login form owns every key.
		if current == pageLogin {
			return event
		}

		if _, ok := a.app.GetFocus().(*tview.InputField); ok {
			if event.Key() == tcell.KeyEscape && a.app.GetFocus() == a.thread.Composer() {
				a.app.SetFocus(a.thread.Messages())
				return nil
			}
			return event
		}

		if event.Key() == tcell.KeyEscape {
			a.back()
			return nil
		}

		if a.registry.HandleEvent(current, event) {
			return nil
		}
		return event
	})
}

func (a *App) showPrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode)
	a.root.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	a.focusCurrent()
}

func (a *App) focusCurrent() {
	switch a.pages.Current() {
	case pageThread:
		a.app.SetFocus(a.thread.Messages())
	case pageLogin:
		a.app.SetFocus(a.login.Form())
	default:
		_, p := a.pages.GetFrontPage()
		if p != nil {
			a.app.SetFocus(p)
		}
	}
}

func (a *App) back() {
	switch a.pages.Pop() {
	case pageThread:
		a.deps.Poller.SetActive("")
	case "":
		return
	}
	a.focusCurrent()
}

func (a *App) showConversations() {
	a.pages.Reset(pageConversations)
	a.deps.Poller.SetActive("")
	a.remember(pageConversations)
	a.focusCurrent()
}

func (a *App) showScreen(s *screen) {
	a.pages.Reset(pageConversations)
	a.pages.Push(s.page)
	a.deps.Poller.SetActive("")
	a.remember(s.page)
	a.focusCurrent()
	go a.load(s, s.reload)
}

func (a *App) openConversation(conv chat.Conversation) {
	a.thread.Open(conv)
	a.renderThread()
	a.pages.Push(pageThread)
	a.deps.Poller.SetActive(conv.ID)
	a.focusCurrent()
}

func (a *App) showDetails() {
	conv := a.thread.Conversation()
	a.details.Update(conv, len(a.deps.Engine.Messages(conv.ID)))
	a.pages.Push(pageDetails)
	a.focusCurrent()
}

func (a *App) showLogin(reason string) {
	a.pages.Reset(pageLogin)
	a.deps.Poller.SetActive("")
	if reason != "" {
		a.login.ShowMessage("Session ended: " + reason)
	}
	a.focusCurrent()
}

func (a *App) reload() {
	switch current := a.pages.Current(); current {
	case pageConversations, pageThread, pageDetails:
		a.deps.Poller.Trigger()
	default:
		if s := a.screen(current); s != nil {
			go a.load(s, s.reload)
		}
	}
}

func (a *App) applyFilter(filter string) {
	if current := a.pages.Current(); current == pageConversations {
		a.convList.SetFilter(filter)
	} else if s := a.screen(current); s != nil {
		s.table.SetFilter(filter)
	}
}

func (a *App) screen(page string) *screen {
	for _, s := range a.screens {
		if s.page == page {
			return s
		}
	}
	return nil
}

// load runs fn off the UI goroutine. The table itself follows the cache, so
// only the notification is handled here.
func (a *App) load(s *screen, fn func(context.Context) error) {
	if err := fn(a.ctx); err != nil {
		a.notifyErr("Failed to load "+s.table.Name(), err)
	}
}

// runCommand executes a : command on the UI goroutine; remote work moves to
// a goroutine and reports through the bus.
func (a *App) runCommand(cmd Command) {
	current := a.screen(a.pages.Current())

	switch cmd.Name {
	case "q", "quit":
		a.Stop()
	case "h", "help":
		a.pages.Push(pageHelp)
	case "logout":
		a.deps.Session.SignOut()
	case "c", "conversations", "chats":
		a.showConversations()
	case "status":
		if current == nil || current.setStatus == nil || cmd.Args == "" {
			a.flash.Warn("status: select a record on a table that supports it")
			return
		}
		if id := current.table.SelectedID(); id != "" {
			a.async("Status update failed", func(ctx context.Context) error { return current.setStatus(ctx, id, cmd.Args) },
				fmt.Sprintf("%s set to %s", id, cmd.Args))
		}
	case "delete":
		if current == nil || current.remove == nil {
			a.flash.Warn("delete: not supported here")
			return
		}
		if id := current.table.SelectedID(); id != "" {
			a.async("Delete failed", func(ctx context.Context) error { return current.remove(ctx, id) }, id+" deleted")
		}
	case "fund", "withdraw":
		amount, err := cmd.Amount()
		if err != nil {
			a.flash.Warn(err.Error())
			return
		}
		withdraw := cmd.Name == "withdraw"
		a.showScreen(a.wallet.screen)
		a.async("Wallet "+cmd.Name+" failed", func(ctx context.Context) error { return a.wallet.move(ctx, withdraw, amount) },
			fmt.Sprintf("wallet %s of %.2f accepted", cmd.Name, amount))
	case "page":
		n, err := cmd.Page()
		if err != nil || current == nil {
			a.flash.Warn("page: open a table and give a page number")
			return
		}
		go a.load(current, func(ctx context.Context) error { return current.goTo(ctx, n) })
	default:
		for _, s := range a.screens {
			if cmd.Name == s.page {
				a.showScreen(s)
				return
			}
		}
		a.flash.Warn("unknown command: " + cmd.Name)
	}
}

func (a *App) async(title string, fn func(context.Context) error, success string) {
	go func() {
		if err := fn(a.ctx); err != nil {
			a.notifyErr(title, err)
			return
		}
		a.deps.Bus.Notify(bus.KindNotifyInfo, success, "")
	}()
}

func (a *App) notifyErr(title string, err error) {
	if errors.Is(err, reqcache.ErrRetired) || errors.Is(err, context.Canceled) {
		return
	}
	a.logger.Warn(title, zap.Error(err))
	a.deps.Bus.Notify(bus.KindNotifyError, title, apiclient.Classify(err).Message)
}

func (a *App) remember(page string) {
	if a.deps.Store == nil {
		return
	}
	if err := a.deps.Store.SetUIState(lastScreenKey, page); err != nil {
		a.logger.Warn("save last screen", zap.Error(err))
	}
}

// restoreLastScreen opens the screen saved by a previous run, falling back
// to the conversations list.
func (a *App) restoreLastScreen() {
	a.deps.Poller.Trigger()
	page := ""
	if a.deps.Store != nil {
		page, _ = a.deps.Store.UIState(lastScreenKey)
	}
	if s := a.screen(page); s != nil {
		a.showScreen(s)
		return
	}
	a.showConversations()
}

func (a *App) renderConversations() {
	a.convList.Update(a.deps.Engine.Conversations(), a.deps.Engine.ConversationsLoading(), a.deps.Engine.ConversationsError())
	if !a.deps.Engine.ConversationsLoading() && a.deps.Engine.ConversationsError() == "" {
		a.lastSync = time.Now()
	}
}

func (a *App) renderThread() {
	id := a.thread.Conversation().ID
	if id == "" {
		return
	}
	a.thread.Update(a.deps.Engine.Messages(id), a.deps.Engine.MessagesError(id))
}

func (a *App) renderHeader() {
	s := a.deps.Session
	a.info.Update(ui.ProfileData{
		Profile:       a.deps.Profile,
		User:          s.Subject(),
		Session:       string(s.State()),
		ExpiresAt:     s.ExpiresAt(),
		APIBase:       a.deps.APIBase,
		Conversations: len(a.deps.Engine.Conversations()),
		LastSync:      a.lastSync,
	}, time.Now())
	a.flashBar.Update(a.flash.Current())
}

// watch feeds bus events and cache changes into the views until Stop.
func (a *App) watch() {
	notify, unsubNotify := a.deps.Bus.Subscribe("notify.", 16)
	session, unsubSession := a.deps.Bus.Subscribe("session.", 16)
	ticker := time.NewTicker(time.Second)

	go func() {
		defer unsubNotify()
		defer unsubSession()
		defer ticker.Stop()
		for {
			select {
			case evt := <-notify:
				a.flash.FromEvent(evt)
				a.app.QueueUpdateDraw(a.renderHeader)
			case evt := <-session:
				a.app.QueueUpdateDraw(func() {
					if evt.Kind == bus.KindSessionLogout {
						reason := ""
						if le, ok := evt.Payload.(auth.LogoutEvent); ok {
							reason = le.Reason
						}
						a.showLogin(reason)
					}
					a.renderHeader()
				})
			case <-a.deps.Engine.Changes():
				a.app.QueueUpdateDraw(func() {
					a.renderConversations()
					a.renderThread()
				})
			case <-ticker.C:
				a.app.QueueUpdateDraw(a.renderHeader)
			case <-a.ctx.Done():
				return
			}
		}
	}()

	for _, s := range a.screens {
		s := s
		go func() {
			for {
				select {
				case <-s.changes:
					a.app.QueueUpdateDraw(s.render)
				case <-a.ctx.Done():
					return
				}
			}
		}()
	}
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	a.watch()

	a.renderConversations()
	a.renderHeader()
	if a.deps.Session.State() == auth.Expired {
		a.showLogin("")
	} else {
		a.restoreLastScreen()
	}

	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
