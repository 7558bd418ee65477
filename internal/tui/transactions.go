package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/tally/pkg/client"
	"github.com/naveenspark/tally/pkg/domain"
)

// -- messages --

type txLoadedMsg struct {
	items []domain.Transaction
	err   error
}

type txDeletedMsg struct {
	id  string
	err error
}

// editTxMsg asks the App to open the form on an existing transaction.
type editTxMsg struct {
	tx domain.Transaction
}

// -- model --

// period is a date window for the list filter.
type period int

const (
	periodAll period = iota
	periodThisMonth
	periodLastMonth
	numPeriods
)

func (p period) String() string {
	switch p {
	case periodThisMonth:
		return "this month"
	case periodLastMonth:
		return "last month"
	}
	return "all time"
}

// typeOrder is the cycle order for type filtering.
var typeOrder = []domain.TransactionType{"", domain.Expense, domain.Income}

type transactionsModel struct {
	client     *client.Client
	items      []domain.Transaction
	cursor     int
	typeCycle  int
	period     period
	confirming bool
	loading    bool
	err        string
	status     string
	clip       func(string) error
	now        func() time.Time
	width      int
	height     int
}

func newTransactionsModel(c *client.Client) transactionsModel {
	return transactionsModel{
		client: c,
		clip:   clipboard.WriteAll,
		now:    time.Now,
	}
}

func (m transactionsModel) Init() tea.Cmd {
	return m.load()
}

// filter builds the list query from the active type and period.
func (m transactionsModel) filter() domain.TransactionFilter {
	f := domain.TransactionFilter{Type: typeOrder[m.typeCycle]}
	now := m.now().UTC()
	switch m.period {
	case periodThisMonth:
		f.StartDate, f.EndDate = domain.MonthRange(now.Year(), now.Month())
	case periodLastMonth:
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		f.StartDate, f.EndDate = domain.MonthRange(prev.Year(), prev.Month())
	}
	return f
}

func (m transactionsModel) load() tea.Cmd {
	c := m.client
	f := m.filter()
	return func() tea.Msg {
		items, err := c.Transactions().List(context.Background(), f)
		return txLoadedMsg{items: items, err: err}
	}
}

func (m transactionsModel) selected() (domain.Transaction, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return domain.Transaction{}, false
	}
	return m.items[m.cursor], true
}

func (m transactionsModel) Update(msg tea.Msg) (transactionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case txLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
		} else {
			m.items = msg.items
			m.err = ""
			if m.cursor >= len(m.items) {
				m.cursor = 0
			}
		}

	case txDeletedMsg:
		if msg.err != nil {
			m.status = "delete failed: " + client.Message(msg.err)
			return m, nil
		}
		m.status = "deleted"
		return m, m.load()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m transactionsModel) handleKey(msg tea.KeyMsg) (transactionsModel, tea.Cmd) {
	if m.confirming {
		m.confirming = false
		if msg.String() != "y" {
			m.status = ""
			return m, nil
		}
		tx, ok := m.selected()
		if !ok {
			return m, nil
		}
		c := m.client
		m.status = "deleting..."
		return m, func() tea.Msg {
			err := c.Transactions().Delete(context.Background(), tx.ID)
			return txDeletedMsg{id: tx.ID, err: err}
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
	case "t":
		m.typeCycle = (m.typeCycle + 1) % len(typeOrder)
		m.cursor = 0
		m.loading = true
		return m, m.load()
	case "m":
		m.period = (m.period + 1) % numPeriods
		m.cursor = 0
		m.loading = true
		return m, m.load()
	case "d":
		if _, ok := m.selected(); ok {
			m.confirming = true
		}
	case "e", "enter":
		if tx, ok := m.selected(); ok {
			return m, func() tea.Msg { return editTxMsg{tx: tx} }
		}
	case "y":
		if tx, ok := m.selected(); ok {
			if err := m.clip(tx.ID); err != nil {
				m.status = "copy failed: " + err.Error()
			} else {
				m.status = "copied id " + tx.ID
			}
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m transactionsModel) View() string {
	var b strings.Builder

	// Filter line (only show if a filter is active)
	if t := typeOrder[m.typeCycle]; t != "" || m.period != periodAll {
		parts := []string{}
		if t != "" {
			parts = append(parts, TypeStyle(t).Render(string(t)))
		}
		if m.period != periodAll {
			parts = append(parts, dimStyle.Render(m.period.String()))
		}
		b.WriteString(" " + strings.Join(parts, dimStyle.Render(" · ")) + "\n")
	}

	if m.loading && len(m.items) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if len(m.items) == 0 {
		b.WriteString("\n " + dimStyle.Render("no transactions here, press n to add one") + "\n")
		return b.String()
	}

	net := domain.Money{}
	for i, tx := range m.items {
		net = net.Add(tx.Signed())

		cursor := " "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}
		method := ""
		if tx.PaymentMethod != "" {
			method = metaStyle.Render(string(tx.PaymentMethod))
		}
		fmt.Fprintf(&b, "%s %s  %s %12s  %-6s %s\n",
			cursor,
			metaStyle.Render(formatDate(tx.Date)),
			style.Render(fmt.Sprintf("%-16s", truncStr(tx.Category, 16))),
			signedAmount(tx),
			method,
			dimStyle.Render(truncStr(tx.Description, 32)))
	}

	netStyle := incomeStyle
	if net.IsNegative() {
		netStyle = expenseStyle
	}
	fmt.Fprintf(&b, "\n %s  %s\n",
		metaStyle.Render(fmt.Sprintf("%d items", len(m.items))),
		dimStyle.Render("net ")+netStyle.Render(net.String()))

	if m.confirming {
		tx, _ := m.selected()
		b.WriteString(" " + errStyle.Render(fmt.Sprintf("delete %s %s? y/n", tx.Category, tx.Amount)) + "\n")
	} else if m.status != "" {
		b.WriteString(" " + dimStyle.Render(m.status) + "\n")
	}

	return b.String()
}

func (m transactionsModel) helpKeys() string {
	return helpEntry("j/k", "nav") + "  " + helpEntry("e", "edit") + "  " + helpEntry("d", "delete") + "  " +
		helpEntry("t", "type") + "  " + helpEntry("m", "period") + "  " + helpEntry("y", "copy id")
}
