package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/tally/pkg/client"
	"github.com/naveenspark/tally/pkg/domain"
)

// -- messages --

type categoriesLoadedMsg struct {
	items []domain.Category
	err   error
}

type categoryChangedMsg struct {
	verb string
	err  error
}

// sortCategories orders expense categories before income ones, matching
// the sections the list is drawn in.
func sortCategories(items []domain.Category) []domain.Category {
	out := append([]domain.Category(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Type != domain.Income && out[j].Type == domain.Income
	})
	return out
}

func loadCategories(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		items, err := c.Categories().List(context.Background())
		return categoriesLoadedMsg{items: items, err: err}
	}
}

// -- model --

type categoriesModel struct {
	client     *client.Client
	items      []domain.Category
	cursor     int
	editing    bool
	editingID  string // "" while adding
	newType    domain.TransactionType
	name       textinput.Model
	confirming bool
	loading    bool
	err        string
	status     string
	width      int
	height     int
}

func newCategoriesModel(c *client.Client) categoriesModel {
	return categoriesModel{
		client:  c,
		name:    newInput("category name", 40),
		newType: domain.Expense,
	}
}

func (m categoriesModel) Init() tea.Cmd {
	return loadCategories(m.client)
}

func (m categoriesModel) selected() (domain.Category, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return domain.Category{}, false
	}
	return m.items[m.cursor], true
}

func (m categoriesModel) Update(msg tea.Msg) (categoriesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case categoriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
		} else {
			m.items = sortCategories(msg.items)
			m.err = ""
			if m.cursor >= len(m.items) {
				m.cursor = 0
			}
		}

	case categoryChangedMsg:
		if msg.err != nil {
			m.status = msg.verb + " failed: " + client.Message(msg.err)
			return m, nil
		}
		m.status = msg.verb
		return m, loadCategories(m.client)

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m categoriesModel) handleKey(msg tea.KeyMsg) (categoriesModel, tea.Cmd) {
	if m.confirming {
		m.confirming = false
		cat, ok := m.selected()
		if msg.String() != "y" || !ok {
			m.status = ""
			return m, nil
		}
		c := m.client
		return m, func() tea.Msg {
			err := c.Categories().Delete(context.Background(), cat.ID)
			return categoryChangedMsg{verb: "deleted " + cat.Name, err: err}
		}
	}

	m.status = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		m.editing = true
		m.editingID = ""
		m.newType = domain.Expense
		m.name.Reset()
		return m, m.name.Focus()
	case "e":
		cat, ok := m.selected()
		if !ok {
			return m, nil
		}
		if cat.IsDefault {
			m.status = "default categories cannot be changed"
			return m, nil
		}
		m.editing = true
		m.editingID = cat.ID
		m.newType = cat.Type
		m.name.SetValue(cat.Name)
		return m, m.name.Focus()
	case "d":
		cat, ok := m.selected()
		if !ok {
			return m, nil
		}
		if cat.IsDefault {
			m.status = "default categories cannot be deleted"
			return m, nil
		}
		m.confirming = true
	case "r":
		m.loading = true
		return m, loadCategories(m.client)
	}
	return m, nil
}

func (m categoriesModel) handleEditKey(msg tea.KeyMsg) (categoriesModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.name.Blur()
		return m, nil
	case "tab":
		if m.newType == domain.Expense {
			m.newType = domain.Income
		} else {
			m.newType = domain.Expense
		}
		return m, nil
	case "enter":
		in := domain.CategoryInput{Name: strings.TrimSpace(m.name.Value()), Type: m.newType}
		if err := in.Validate(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.editing = false
		m.name.Blur()
		c := m.client
		id := m.editingID
		if id == "" {
			return m, func() tea.Msg {
				_, err := c.Categories().Create(context.Background(), in)
				return categoryChangedMsg{verb: "added " + in.Name, err: err}
			}
		}
		return m, func() tea.Msg {
			_, err := c.Categories().Update(context.Background(), id, in)
			return categoryChangedMsg{verb: "updated " + in.Name, err: err}
		}
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m categoriesModel) View() string {
	var b strings.Builder

	if m.loading && len(m.items) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}

	var income, expense []int
	for i, cat := range m.items {
		if cat.Type == domain.Income {
			income = append(income, i)
		} else {
			expense = append(expense, i)
		}
	}

	section := func(title string, idx []int) {
		b.WriteString(" " + sectionHeaderStyle.Render(title) + "\n")
		if len(idx) == 0 {
			b.WriteString("   " + dimStyle.Render("none") + "\n")
		}
		for _, i := range idx {
			cat := m.items[i]
			cursor := " "
			style := normalStyle
			if i == m.cursor {
				cursor = accentStyle.Render(">")
				style = selectedStyle
			}
			icon := cat.Icon
			if icon == "" {
				icon = " "
			}
			tag := ""
			if cat.IsDefault {
				tag = metaStyle.Render("default")
			}
			fmt.Fprintf(&b, " %s %s %s %s\n", cursor, icon, style.Render(fmt.Sprintf("%-20s", truncStr(cat.Name, 20))), tag)
		}
	}
	section("EXPENSE", expense)
	b.WriteString("\n")
	section("INCOME", income)

	b.WriteString("\n")
	switch {
	case m.editing:
		verb := "new"
		if m.editingID != "" {
			verb = "rename"
		}
		fmt.Fprintf(&b, " %s %s %s\n",
			inputPromptStyle.Render(verb+" >"),
			m.name.View(),
			TypeStyle(m.newType).Render(string(m.newType)))
	case m.confirming:
		cat, _ := m.selected()
		b.WriteString(" " + errStyle.Render(fmt.Sprintf("delete %s? y/n", cat.Name)) + "\n")
	case m.status != "":
		b.WriteString(" " + dimStyle.Render(m.status) + "\n")
	}

	return b.String()
}

func (m categoriesModel) helpKeys() string {
	if m.editing {
		return helpEntry("enter", "save") + "  " + helpEntry("tab", "type") + "  " + helpEntry("esc", "cancel")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("a", "add") + "  " + helpEntry("e", "rename") + "  " +
		helpEntry("d", "delete") + "  " + helpEntry("q", "quit")
}
