package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/tally/pkg/client"
	"github.com/naveenspark/tally/pkg/domain"
)

// profileSavedMsg carries the server's copy of the user after an edit. user
// is nil when the server did not echo it and patch must be merged locally.
type profileSavedMsg struct {
	user  *domain.User
	patch domain.ProfileUpdate
	err   error
}

type profileModel struct {
	client  *client.Client
	user    *domain.User
	editing bool
	inputs  [2]textinput.Model // name, email
	focus   int
	saving  bool
	status  string
	width   int
	height  int
}

func newProfileModel(c *client.Client, u *domain.User) profileModel {
	m := profileModel{client: c, user: u}
	m.inputs[0] = newInput("name", 64)
	m.inputs[1] = newInput("email", 128)
	return m
}

func (m profileModel) Init() tea.Cmd {
	return nil
}

// patch returns only the fields that differ from the current user.
func (m profileModel) patch() domain.ProfileUpdate {
	var p domain.ProfileUpdate
	name := strings.TrimSpace(m.inputs[0].Value())
	email := strings.TrimSpace(m.inputs[1].Value())
	if m.user == nil || name != m.user.Name {
		p.Name = &name
	}
	if m.user == nil || email != m.user.Email {
		p.Email = &email
	}
	return p
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.status = "update failed: " + client.Message(msg.err)
			return m, nil
		}
		m.user = msg.user
		m.editing = false
		m.status = "profile updated"

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		if !m.editing {
			if msg.String() == "e" && m.user != nil {
				m.editing = true
				m.status = ""
				m.inputs[0].SetValue(m.user.Name)
				m.inputs[1].SetValue(m.user.Email)
				m.focus = 0
				m.inputs[1].Blur()
				return m, m.inputs[0].Focus()
			}
			return m, nil
		}
		return m.handleEditKey(msg)
	}
	return m, nil
}

func (m profileModel) handleEditKey(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.status = ""
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.inputs[m.focus].Blur()
		m.focus = 1 - m.focus
		return m, m.inputs[m.focus].Focus()
	case "enter", "ctrl+s":
		p := m.patch()
		if p.Empty() {
			m.editing = false
			m.status = "nothing changed"
			return m, nil
		}
		if p.Name != nil && *p.Name == "" {
			m.status = "name cannot be empty"
			return m, nil
		}
		if p.Email != nil && *p.Email == "" {
			m.status = "email cannot be empty"
			return m, nil
		}
		m.saving = true
		c := m.client
		return m, func() tea.Msg {
			u, err := c.Auth().UpdateProfile(context.Background(), p)
			return profileSavedMsg{user: u, patch: p, err: err}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m profileModel) View() string {
	var b strings.Builder

	if m.user == nil {
		b.WriteString(" " + dimStyle.Render("not signed in") + "\n")
		return b.String()
	}

	labels := []string{"name", "email"}
	values := []string{m.user.Name, m.user.Email}
	for i, label := range labels {
		value := normalStyle.Render(values[i])
		cursor := " "
		if m.editing {
			value = m.inputs[i].View()
			if i == m.focus {
				cursor = inputPromptStyle.Render(">")
			}
		}
		fmt.Fprintf(&b, " %s %s %s\n", cursor, metaStyle.Render(fmt.Sprintf("%-8s", label)), value)
	}
	fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render(fmt.Sprintf("%-8s", "id")), dimStyle.Render(m.user.ID))
	if m.user.CreatedAt != nil {
		fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render(fmt.Sprintf("%-8s", "joined")),
			dimStyle.Render(formatDate(*m.user.CreatedAt)+" ("+formatTime(*m.user.CreatedAt)+")"))
	}

	b.WriteString("\n")
	switch {
	case m.saving:
		b.WriteString(" " + dimStyle.Render("saving...") + "\n")
	case m.status != "":
		b.WriteString(" " + dimStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m profileModel) helpKeys() string {
	if m.editing {
		return helpEntry("tab", "next") + "  " + helpEntry("enter", "save") + "  " + helpEntry("esc", "cancel")
	}
	return helpEntry("e", "edit") + "  " + helpEntry("L", "logout") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
}
