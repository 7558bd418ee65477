package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/tally/pkg/client"
	"github.com/naveenspark/tally/pkg/domain"
)

// dashboardLoadedMsg carries the dashboard stats and the current month.
type dashboardLoadedMsg struct {
	stats *domain.DashboardStats
	month *domain.MonthlySummary
	err   error
}

type dashboardModel struct {
	client  *client.Client
	stats   *domain.DashboardStats
	month   *domain.MonthlySummary
	spin    spinner.Model
	loading bool
	err     string
	now     func() time.Time
	width   int
	height  int
}

func newDashboardModel(c *client.Client) dashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle
	return dashboardModel{client: c, spin: sp, now: time.Now}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.load())
}

// load fetches the dashboard and this month's summary concurrently.
func (m dashboardModel) load() tea.Cmd {
	c := m.client
	now := m.now()
	return func() tea.Msg {
		var (
			stats *domain.DashboardStats
			month *domain.MonthlySummary
		)
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			s, err := c.Transactions().Dashboard(ctx)
			stats = s
			return err
		})
		g.Go(func() error {
			s, err := c.Transactions().MonthlySummary(ctx, now.Year(), now.Month())
			month = s
			return err
		})
		err := g.Wait()
		return dashboardLoadedMsg{stats: stats, month: month, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.stats = msg.stats
		m.month = msg.month

	case spinner.TickMsg:
		if m.stats != nil || m.err != "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder

	if m.stats == nil {
		switch {
		case m.err != "":
			b.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
		default:
			b.WriteString(" " + m.spin.View() + " " + dimStyle.Render("loading dashboard...") + "\n")
		}
		return b.String()
	}
	s := m.stats

	cards := []string{
		card("Income", incomeStyle.Render(s.TotalIncome.String())),
		card("Expense", expenseStyle.Render(s.TotalExpense.String())),
		card("Balance", balanceStyle.Render(s.Balance.String())),
	}
	if m.month != nil {
		cards = append(cards, card(
			time.Month(m.month.Month).String()+" savings",
			okStyle.Render(m.month.SavingsRate().StringFixed(1)+"%"),
		))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("refreshing...") + "\n")
	} else if m.err != "" {
		b.WriteString(" " + errStyle.Render("refresh failed: "+m.err) + "\n")
	}

	// Category breakdown
	b.WriteString("\n " + sectionHeaderStyle.Render("SPENDING BY CATEGORY") + "\n")
	top := s.TopCategories(6)
	if len(top) == 0 {
		b.WriteString(" " + dimStyle.Render("no expenses yet") + "\n")
	}
	barWidth := m.width - 40
	if barWidth > 30 {
		barWidth = 30
	}
	for i, c := range top {
		fmt.Fprintf(&b, " %-16s %10s %6s  %s\n",
			truncStr(c.Category, 16),
			c.Amount.String(),
			percent(c.Amount, s.TotalExpense),
			barStyle(i).Render(bar(c.Amount, s.TotalExpense, barWidth)))
	}

	// Recent transactions
	b.WriteString("\n " + sectionHeaderStyle.Render("RECENT") + "\n")
	if len(s.RecentTransactions) == 0 {
		b.WriteString(" " + dimStyle.Render("no transactions yet, press n to add one") + "\n")
	}
	for _, tx := range s.RecentTransactions {
		fmt.Fprintf(&b, " %s  %-16s %s  %s\n",
			metaStyle.Render(formatDate(tx.Date)),
			truncStr(tx.Category, 16),
			signedAmount(tx),
			dimStyle.Render(truncStr(tx.Description, 30)))
	}

	return b.String()
}

func card(label, value string) string {
	return cardStyle.Render(dimStyle.Render(label) + "\n" + value)
}
