package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/tally/pkg/client"
	"github.com/naveenspark/tally/pkg/domain"
)

type formField int

const (
	fieldType formField = iota
	fieldAmount
	fieldCategory
	fieldDate
	fieldPayment
	fieldDescription
	numFormFields
)

// txSavedMsg carries the result of a create or update.
type txSavedMsg struct {
	tx  *domain.Transaction
	err error
}

// paymentOrder is the cycle order for the payment field; "" leaves it unset.
var paymentOrder = append([]domain.PaymentMethod{""}, domain.PaymentMethods...)

type formModel struct {
	client     *client.Client
	categories []domain.Category
	fields     [numFormFields]string
	focus      formField
	editingID  string
	statusMsg  string
	submitted  bool
	now        func() time.Time
	width      int
	height     int
}

func newFormModel(c *client.Client, cats []domain.Category) formModel {
	m := formModel{client: c, categories: cats, now: time.Now}
	m.reset()
	return m
}

func (m *formModel) reset() {
	m.fields = [numFormFields]string{}
	m.fields[fieldType] = string(domain.Expense)
	m.fields[fieldDate] = m.now().Format(domain.DateLayout)
	m.editingID = ""
	m.focus = fieldAmount
	m.pickDefaultCategory()
}

// load fills the form from an existing transaction for editing.
func (m *formModel) load(tx domain.Transaction) {
	in := tx.Input()
	m.editingID = tx.ID
	m.fields[fieldType] = string(in.Type)
	m.fields[fieldAmount] = in.Amount.String()
	m.fields[fieldCategory] = in.Category
	m.fields[fieldDate] = in.Date
	m.fields[fieldPayment] = string(in.PaymentMethod)
	m.fields[fieldDescription] = in.Description
	m.focus = fieldAmount
}

// categoryNames lists the category choices for the selected type.
func (m formModel) categoryNames() []string {
	return domain.CategoryNames(m.categories, domain.TransactionType(m.fields[fieldType]))
}

func (m *formModel) pickDefaultCategory() {
	names := m.categoryNames()
	if len(names) == 0 {
		return
	}
	for _, n := range names {
		if n == m.fields[fieldCategory] {
			return
		}
	}
	m.fields[fieldCategory] = names[0]
}

func (m formModel) Init() tea.Cmd {
	if len(m.categories) == 0 && m.client != nil {
		return loadCategories(m.client)
	}
	return nil
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case categoriesLoadedMsg:
		if msg.err == nil {
			m.categories = msg.items
			if m.editingID == "" {
				m.pickDefaultCategory()
			}
		}

	case txSavedMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = "save failed: " + client.Message(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitted {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m formModel) updateKeys(msg tea.KeyMsg) (formModel, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numFormFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numFormFields) % numFormFields
	case "enter":
		if m.focus == numFormFields-1 {
			return m.submit()
		}
		m.focus = (m.focus + 1) % numFormFields
	default:
		key := msg.String()
		if m.cycles(m.focus) {
			if key == "h" || key == "l" || key == "left" || key == "right" {
				step := 1
				if key == "h" || key == "left" {
					step = -1
				}
				m.cycle(m.focus, step)
			}
			return m, nil
		}
		f := &m.fields[m.focus]
		*f = editRune(*f, key)
	}
	return m, nil
}

// cycles reports whether a field is picked from a fixed list.
func (m formModel) cycles(f formField) bool {
	switch f {
	case fieldType, fieldPayment:
		return true
	case fieldCategory:
		return len(m.categoryNames()) > 0
	}
	return false
}

func (m *formModel) cycle(f formField, step int) {
	var opts []string
	switch f {
	case fieldType:
		opts = []string{string(domain.Expense), string(domain.Income)}
	case fieldPayment:
		for _, p := range paymentOrder {
			opts = append(opts, string(p))
		}
	case fieldCategory:
		opts = m.categoryNames()
	}
	if len(opts) == 0 {
		return
	}
	idx := 0
	for i, o := range opts {
		if o == m.fields[f] {
			idx = i
			break
		}
	}
	m.fields[f] = opts[(idx+step+len(opts))%len(opts)]
	if f == fieldType {
		m.pickDefaultCategory()
	}
}

// input converts the form into a validated request body.
func (m formModel) input() (domain.TransactionInput, error) {
	amount, err := domain.ParseMoney(m.fields[fieldAmount])
	if err != nil {
		return domain.TransactionInput{}, errors.New("amount must be a positive number")
	}
	in := domain.TransactionInput{
		Type:          domain.TransactionType(m.fields[fieldType]),
		Amount:        amount,
		Category:      strings.TrimSpace(m.fields[fieldCategory]),
		Description:   strings.TrimSpace(m.fields[fieldDescription]),
		Date:          strings.TrimSpace(m.fields[fieldDate]),
		PaymentMethod: domain.PaymentMethod(m.fields[fieldPayment]),
	}
	if err := in.Validate(); err != nil {
		return domain.TransactionInput{}, err
	}
	return in, nil
}

func (m formModel) submit() (formModel, tea.Cmd) {
	in, err := m.input()
	if err != nil {
		m.statusMsg = err.Error()
		return m, nil
	}

	m.submitted = true
	c := m.client
	id := m.editingID
	return m, func() tea.Msg {
		var (
			tx  *domain.Transaction
			err error
		)
		if id != "" {
			tx, err = c.Transactions().Update(context.Background(), id, in)
		} else {
			tx, err = c.Transactions().Create(context.Background(), in)
		}
		return txSavedMsg{tx: tx, err: err}
	}
}

func (m formModel) View() string {
	var b strings.Builder

	title := "New transaction"
	if m.editingID != "" {
		title = "Edit transaction"
	}
	fmt.Fprintf(&b, " %s\n\n", selectedStyle.Render(title))

	labels := [numFormFields]string{"type", "amount", "category", "date", "payment", "note"}

	for i := formField(0); i < numFormFields; i++ {
		label := labels[i]
		value := m.fields[i]
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}

		switch {
		case i == fieldType:
			t := domain.TransactionType(value)
			fmt.Fprintf(&b, "%s %s: %s  %s\n",
				cursor, style.Render(fmt.Sprintf("%-8s", label)), TypeStyle(t).Render(value), metaStyle.Render("(h/l)"))
		case m.cycles(i):
			if value == "" {
				value = dimStyle.Render("none")
			}
			fmt.Fprintf(&b, "%s %s: %s  %s\n",
				cursor, style.Render(fmt.Sprintf("%-8s", label)), value, metaStyle.Render("(h/l)"))
		default:
			displayValue := value
			if i == m.focus {
				displayValue += "█"
			}
			fmt.Fprintf(&b, "%s %s: %s\n", cursor, style.Render(fmt.Sprintf("%-8s", label)), displayValue)
		}
	}

	b.WriteString("\n")
	if m.submitted {
		b.WriteString(dimStyle.Render(" saving..."))
	} else if m.statusMsg != "" {
		b.WriteString(" " + errStyle.Render(m.statusMsg))
	}

	return b.String()
}

func (m formModel) helpKeys() string {
	return helpEntry("tab", "next") + "  " + helpEntry("h/l", "cycle") + "  " +
		helpEntry("ctrl+s", "save") + "  " + helpEntry("esc", "cancel")
}
