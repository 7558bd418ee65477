package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/tally/pkg/client"
	"github.com/naveenspark/tally/pkg/domain"
)

type monthlyLoadedMsg struct {
	summary *domain.MonthlySummary
	err     error
}

type yearlyLoadedMsg struct {
	summary *domain.YearlySummary
	err     error
}

type reportsModel struct {
	client  *client.Client
	yearly  bool
	year    int
	month   time.Month
	monthly *domain.MonthlySummary
	annual  *domain.YearlySummary
	loading bool
	err     string
	width   int
	height  int
}

func newReportsModel(c *client.Client) reportsModel {
	now := time.Now()
	return reportsModel{client: c, year: now.Year(), month: now.Month()}
}

func (m reportsModel) Init() tea.Cmd {
	return m.load()
}

func (m reportsModel) load() tea.Cmd {
	c := m.client
	year, month := m.year, m.month
	if m.yearly {
		return func() tea.Msg {
			s, err := c.Transactions().YearlySummary(context.Background(), year)
			return yearlyLoadedMsg{summary: s, err: err}
		}
	}
	return func() tea.Msg {
		s, err := c.Transactions().MonthlySummary(context.Background(), year, month)
		return monthlyLoadedMsg{summary: s, err: err}
	}
}

// shift moves the report window back or forward by one month or year.
func (m *reportsModel) shift(step int) {
	if m.yearly {
		m.year += step
		return
	}
	t := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, step, 0)
	m.year, m.month = t.Year(), t.Month()
}

func (m reportsModel) Update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case monthlyLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
		} else {
			m.err = ""
			m.monthly = msg.summary
		}

	case yearlyLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
		} else {
			m.err = ""
			m.annual = msg.summary
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "y":
			m.yearly = !m.yearly
		case "[", "left":
			m.shift(-1)
		case "]", "right":
			m.shift(1)
		case "r":
		default:
			return m, nil
		}
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m reportsModel) View() string {
	var b strings.Builder

	period := fmt.Sprintf("%s %d", m.month, m.year)
	mode := "monthly"
	if m.yearly {
		period = fmt.Sprintf("%d", m.year)
		mode = "yearly"
	}
	fmt.Fprintf(&b, " %s  %s\n\n", selectedStyle.Render(period), metaStyle.Render(mode))

	if m.err != "" {
		b.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}

	if m.yearly {
		m.viewYearly(&b)
	} else {
		m.viewMonthly(&b)
	}
	return b.String()
}

func totalsLine(income, expense, savings domain.Money, rate string) string {
	return fmt.Sprintf(" %s %s   %s %s   %s %s  %s\n",
		dimStyle.Render("income"), incomeStyle.Render(income.String()),
		dimStyle.Render("expense"), expenseStyle.Render(expense.String()),
		dimStyle.Render("savings"), balanceStyle.Render(savings.String()),
		metaStyle.Render("("+rate+"%)"))
}

func (m reportsModel) viewMonthly(b *strings.Builder) {
	s := m.monthly
	if s == nil {
		b.WriteString(" " + dimStyle.Render("no data") + "\n")
		return
	}
	b.WriteString(totalsLine(s.TotalIncome, s.TotalExpense, s.TotalSavings, s.SavingsRate().StringFixed(1)))
	b.WriteString("\n " + sectionHeaderStyle.Render("EXPENSE BY CATEGORY") + "\n")

	cats := s.Categories()
	if len(cats) == 0 {
		b.WriteString(" " + dimStyle.Render("no expenses this month") + "\n")
	}
	for i, c := range cats {
		fmt.Fprintf(b, " %-16s %10s %6s  %s\n",
			truncStr(c.Category, 16), c.Amount.String(), percent(c.Amount, s.TotalExpense),
			barStyle(i).Render(bar(c.Amount, s.TotalExpense, 30)))
	}
}

func (m reportsModel) viewYearly(b *strings.Builder) {
	s := m.annual
	if s == nil {
		b.WriteString(" " + dimStyle.Render("no data") + "\n")
		return
	}
	b.WriteString(totalsLine(s.TotalIncome, s.TotalExpense, s.TotalSavings, s.SavingsRate().StringFixed(1)))
	b.WriteString("\n " + sectionHeaderStyle.Render(fmt.Sprintf("%-5s %10s %10s %10s", "MONTH", "INCOME", "EXPENSE", "SAVINGS")) + "\n")

	// Bars share one scale: the largest income or expense in the year.
	peak := domain.Money{}
	for _, r := range s.Months() {
		if r.Income.GreaterThan(peak.Decimal) {
			peak = r.Income
		}
		if r.Expense.GreaterThan(peak.Decimal) {
			peak = r.Expense
		}
	}
	for _, r := range s.Months() {
		savings := balanceStyle
		if r.Savings.IsNegative() {
			savings = errStyle
		}
		fmt.Fprintf(b, " %-5s %10s %10s %s  %s%s\n",
			r.Label(), r.Income.String(), r.Expense.String(),
			savings.Render(fmt.Sprintf("%10s", r.Savings.String())),
			incomeStyle.Render(bar(r.Income, peak, 12)),
			expenseStyle.Render(bar(r.Expense, peak, 12)))
	}
}

func (m reportsModel) helpKeys() string {
	return helpEntry("[/]", "prev/next") + "  " + helpEntry("y", "monthly/yearly")
}
