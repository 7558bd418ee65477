package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/tally/pkg/client"
	"github.com/naveenspark/tally/pkg/domain"
)

// authDoneMsg carries the result of a login or register call.
type authDoneMsg struct {
	resp *domain.AuthResponse
	err  error
}

type loginField int

const (
	loginName loginField = iota
	loginEmail
	loginPassword
	numLoginFields
)

type loginModel struct {
	client     *client.Client
	register   bool
	inputs     [numLoginFields]textinput.Model
	focus      loginField
	submitting bool
	spin       spinner.Model
	err        string
	width      int
	height     int
}

func newLoginModel(c *client.Client) loginModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	m := loginModel{client: c, spin: sp}
	m.inputs[loginName] = newInput("your name", 64)
	m.inputs[loginEmail] = newInput("you@example.com", 128)
	m.inputs[loginPassword] = newPasswordInput("password")
	m.setFocus(loginEmail)
	return m
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

// fields returns the inputs shown in the current mode, in tab order.
func (m loginModel) fields() []loginField {
	if m.register {
		return []loginField{loginName, loginEmail, loginPassword}
	}
	return []loginField{loginEmail, loginPassword}
}

func (m *loginModel) setFocus(f loginField) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = f
	m.inputs[f].Focus()
}

func (m *loginModel) move(delta int) {
	fields := m.fields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	m.setFocus(fields[idx])
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
		}
		m.inputs[loginPassword].Reset()
		m.setFocus(loginPassword)
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+r":
			m.register = !m.register
			m.err = ""
			if m.register {
				m.setFocus(loginName)
			} else {
				m.setFocus(loginEmail)
			}
			return m, nil
		case "tab", "down":
			m.move(1)
			return m, nil
		case "shift+tab", "up":
			m.move(-1)
			return m, nil
		case "enter":
			fields := m.fields()
			if m.focus != fields[len(fields)-1] {
				m.move(1)
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	name := strings.TrimSpace(m.inputs[loginName].Value())
	email := strings.TrimSpace(m.inputs[loginEmail].Value())
	password := m.inputs[loginPassword].Value()

	switch {
	case m.register && name == "":
		m.err = "name is required"
		return m, nil
	case email == "":
		m.err = "email is required"
		return m, nil
	case password == "":
		m.err = "password is required"
		return m, nil
	}

	m.err = ""
	m.submitting = true
	c := m.client
	if m.register {
		reg := domain.Registration{Name: name, Email: email, Password: password}
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			resp, err := c.Auth().Register(context.Background(), reg)
			return authDoneMsg{resp: resp, err: err}
		})
	}
	creds := domain.Credentials{Email: email, Password: password}
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		resp, err := c.Auth().Login(context.Background(), creds)
		return authDoneMsg{resp: resp, err: err}
	})
}

func (m loginModel) View() string {
	var b strings.Builder

	title := "Sign in"
	if m.register {
		title = "Create an account"
	}
	fmt.Fprintf(&b, "\n  %s\n\n", selectedStyle.Render(title))

	labels := [numLoginFields]string{"name", "email", "password"}
	for _, f := range m.fields() {
		cursor := " "
		style := metaStyle
		if f == m.focus {
			cursor = inputPromptStyle.Render(">")
			style = selectedStyle
		}
		fmt.Fprintf(&b, " %s %s %s\n", cursor, style.Render(fmt.Sprintf("%-9s", labels[f])), m.inputs[f].View())
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		verb := "signing in"
		if m.register {
			verb = "creating account"
		}
		b.WriteString("  " + m.spin.View() + " " + dimStyle.Render(verb+"..."))
	case m.err != "":
		b.WriteString("  " + errStyle.Render(m.err))
	}
	b.WriteString("\n")
	return b.String()
}

func (m loginModel) helpKeys() string {
	toggle := "register"
	if m.register {
		toggle = "sign in"
	}
	return helpEntry("tab", "next") + "  " + helpEntry("enter", "submit") + "  " +
		helpEntry("ctrl+r", toggle) + "  " + helpEntry("ctrl+c", "quit")
}
