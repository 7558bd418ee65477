package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/tally/internal/browser"
	"github.com/naveenspark/tally/pkg/client"
	"github.com/naveenspark/tally/pkg/session"
)

type view int

const (
	viewLogin view = iota
	viewDashboard
	viewTransactions
	viewReports
	viewCategories
	viewProfile
	viewForm
)

// Option configures an App.
type Option func(*App)

// WithWebURL sets the web dashboard link offered in the help overlay.
func WithWebURL(u string) Option {
	return func(a *App) { a.webURL = u }
}

// App is the root Bubbletea model.
type App struct {
	client       *client.Client
	store        *session.Store
	view         view
	login        loginModel
	dashboard    dashboardModel
	transactions transactionsModel
	form         formModel
	reports      reportsModel
	categories   categoriesModel
	profile      profileModel
	helpOpen     bool
	helpCursor   int
	helpItems    []helpItem
	webURL       string
	notice       string
	width        int
	height       int
	frame        int // logo shimmer animation frame
}

// NewApp creates a new TUI application. The first view is the dashboard
// when the store holds a session and the login view otherwise.
func NewApp(c *client.Client, store *session.Store, opts ...Option) App {
	a := App{
		client:       c,
		store:        store,
		login:        newLoginModel(c),
		dashboard:    newDashboardModel(c),
		transactions: newTransactionsModel(c),
		form:         newFormModel(c, nil),
		reports:      newReportsModel(c),
		categories:   newCategoriesModel(c),
		profile:      newProfileModel(c, store.User()),
		view:         viewDashboard,
	}
	for _, opt := range opts {
		opt(&a)
	}
	apiURL := ""
	if c != nil {
		apiURL = c.BaseURL()
	}
	a.helpItems = helpItemsFor(a.webURL, apiURL)
	if !store.IsAuthenticated() {
		a.view = viewLogin
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.initView())
}

func (a App) initView() tea.Cmd {
	switch a.view {
	case viewLogin:
		return a.login.Init()
	case viewDashboard:
		return a.dashboard.Init()
	case viewTransactions:
		return a.transactions.Init()
	case viewReports:
		return a.reports.Init()
	case viewCategories:
		return a.categories.Init()
	case viewProfile:
		return a.profile.Init()
	case viewForm:
		return a.form.Init()
	}
	return nil
}

// show switches to v. Protected views fall back to login while no session
// is held, and login forwards to the dashboard once one is.
func (a App) show(v view) (App, tea.Cmd) {
	authed := a.store.IsAuthenticated()
	switch {
	case v != viewLogin && !authed:
		v = viewLogin
	case v == viewLogin && authed:
		v = viewDashboard
	}
	if v == viewLogin && a.view != viewLogin {
		a.login = newLoginModel(a.client)
	}
	if v == viewProfile {
		a.profile = newProfileModel(a.client, a.store.User())
	}
	a.view = v
	return a, a.initView()
}

// signOut drops the session and every view holding its data.
func (a App) signOut(notice string) (App, tea.Cmd) {
	if err := a.store.Logout(); err != nil {
		notice = "logged out, but clearing saved session failed: " + err.Error()
	}
	a.notice = notice
	a.dashboard = newDashboardModel(a.client)
	a.transactions = newTransactionsModel(a.client)
	a.form = newFormModel(a.client, nil)
	a.reports = newReportsModel(a.client)
	a.categories = newCategoriesModel(a.client)
	a.profile = newProfileModel(a.client, nil)
	return a.show(viewLogin)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + status(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.login, _ = a.login.Update(bodyMsg)
		a.dashboard, _ = a.dashboard.Update(bodyMsg)
		a.transactions, _ = a.transactions.Update(bodyMsg)
		a.form, _ = a.form.Update(bodyMsg)
		a.reports, _ = a.reports.Update(bodyMsg)
		a.categories, _ = a.categories.Update(bodyMsg)
		a.profile, _ = a.profile.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionExpiredMsg:
		if a.view == viewLogin {
			// A rejected sign-in attempt; the login view shows the server message.
			return a, nil
		}
		return a.signOut("session expired, please log in again")

	case authDoneMsg:
		if msg.err != nil || msg.resp == nil {
			var cmd tea.Cmd
			a.login, cmd = a.login.Update(msg)
			return a, cmd
		}
		a.notice = ""
		if err := a.store.Login(msg.resp.User, msg.resp.Token); err != nil {
			if !a.store.IsAuthenticated() {
				a.login, _ = a.login.Update(authDoneMsg{err: err})
				return a, nil
			}
			a.notice = "signed in, but the session was not saved: " + err.Error()
		}
		return a.show(viewDashboard)

	case editTxMsg:
		a.form = newFormModel(a.client, a.categories.items)
		a.form.load(msg.tx)
		return a.show(viewForm)

	case txSavedMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			a.form, cmd = a.form.Update(msg)
			return a, cmd
		}
		a.notice = "saved " + msg.tx.Category + " " + msg.tx.Amount.String()
		a.form = newFormModel(a.client, a.categories.items)
		return a.show(viewTransactions)

	case categoriesLoadedMsg:
		// Both the category list and the form's category picker use these.
		a.form, _ = a.form.Update(msg)
		var cmd tea.Cmd
		a.categories, cmd = a.categories.Update(msg)
		return a, cmd

	case profileSavedMsg:
		switch {
		case msg.err != nil:
		case msg.user == nil:
			msg.user, msg.err = a.store.UpdateProfile(msg.patch)
		default:
			msg.err = a.store.SetUser(msg.user)
		}
		var cmd tea.Cmd
		a.profile, cmd = a.profile.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "h", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(a.helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				if a.helpCursor < len(a.helpItems) {
					if item := a.helpItems[a.helpCursor]; item.url != "" {
						browser.Open(item.url) //nolint:errcheck // best-effort browser open
					}
				}
			}
			return a, nil
		}

		// Global keys (only when not editing)
		if !a.isEditing() {
			a.notice = ""
			switch msg.String() {
			case "h":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q":
				return a, tea.Quit
			case "1":
				return a.switchTo(viewDashboard)
			case "2":
				return a.switchTo(viewTransactions)
			case "3":
				return a.switchTo(viewReports)
			case "4":
				return a.switchTo(viewCategories)
			case "5":
				return a.switchTo(viewProfile)
			case "n":
				a.form = newFormModel(a.client, a.categories.items)
				return a.show(viewForm)
			case "L":
				return a.signOut("logged out")
			}
		} else if msg.String() == "esc" && a.view == viewForm {
			return a.show(viewTransactions)
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewTransactions:
		a.transactions, cmd = a.transactions.Update(msg)
	case viewReports:
		a.reports, cmd = a.reports.Update(msg)
	case viewCategories:
		a.categories, cmd = a.categories.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	case viewForm:
		a.form, cmd = a.form.Update(msg)
	}

	// A rejected request clears the store; keep the login view in front
	// even when the redirect message has not arrived yet.
	if a.view != viewLogin && !a.store.IsAuthenticated() {
		var loginCmd tea.Cmd
		a, loginCmd = a.signOut("session expired, please log in again")
		return a, tea.Batch(cmd, loginCmd)
	}
	return a, cmd
}

func (a App) switchTo(v view) (App, tea.Cmd) {
	if a.view == v {
		return a, nil
	}
	return a.show(v)
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin, viewForm:
		return true
	case viewTransactions:
		return a.transactions.confirming
	case viewCategories:
		return a.categories.editing || a.categories.confirming
	case viewProfile:
		return a.profile.editing
	}
	return false
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)

	statsLine := dimStyle.Render("not signed in")
	if u := a.store.User(); u != nil {
		parts := []string{selectedStyle.Render(u.Name)}
		if u.Email != "" {
			parts = append(parts, metaStyle.Render(u.Email))
		}
		statsLine = strings.Join(parts, metaStyle.Render(" . "))
	}

	header := center(logo, a.width) + "\n" + center(statsLine, a.width)

	// Tab bar: equal-width columns spread across the terminal
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Dashboard", viewDashboard},
		{"2", "Transactions", viewTransactions},
		{"3", "Reports", viewReports},
		{"4", "Categories", viewCategories},
		{"5", "Profile", viewProfile},
	}

	var tabBar strings.Builder
	if a.view != viewLogin {
		colWidth := a.width / len(tabs)
		for _, t := range tabs {
			active := t.v == a.view || (t.v == viewTransactions && a.view == viewForm)
			var label string
			if active {
				label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
			} else {
				label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
			}
			labelWidth := lipgloss.Width(label)
			leftPad := (colWidth - labelWidth) / 2
			if leftPad < 0 {
				leftPad = 0
			}
			rightPad := colWidth - labelWidth - leftPad
			if rightPad < 0 {
				rightPad = 0
			}
			tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
		}
	}

	var body, help string
	nav := helpEntry("1-5", "tabs") + "  " + helpEntry("n", "new") + "  "
	tail := helpEntry("L", "logout") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	switch a.view {
	case viewLogin:
		body = a.login.View()
		help = " " + a.login.helpKeys()
	case viewDashboard:
		body = a.dashboard.View()
		help = " " + nav + helpEntry("r", "refresh") + "  " + tail
	case viewTransactions:
		body = a.transactions.View()
		help = " " + nav + a.transactions.helpKeys() + "  " + tail
	case viewReports:
		body = a.reports.View()
		help = " " + nav + a.reports.helpKeys() + "  " + tail
	case viewCategories:
		body = a.categories.View()
		help = " " + helpEntry("1-5", "tabs") + "  " + a.categories.helpKeys()
	case viewProfile:
		body = a.profile.View()
		help = " " + helpEntry("1-5", "tabs") + "  " + a.profile.helpKeys()
	case viewForm:
		body = a.form.View()
		help = " " + a.form.helpKeys()
	}

	if a.helpOpen {
		body = helpView(a.helpItems, a.helpCursor)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	status := ""
	if a.notice != "" {
		status = " " + dimStyle.Render(a.notice)
	}

	// Chrome budget: header(2) + tabs(1) + status(1) + help(1) = 5 lines + body
	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar.String(), body, status, help)
}

// center pads s on the left so it sits in the middle of width columns.
func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
