package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/naveenspark/tally/pkg/domain"
)

// Transactions renders a transaction list.
type Transactions []domain.Transaction

func (t Transactions) Value() any { return []domain.Transaction(t) }

func (t Transactions) Header() table.Row {
	return table.Row{"Date", "Type", "Category", "Amount", "Payment", "Description", "ID"}
}

func (t Transactions) Rows() []table.Row {
	rows := make([]table.Row, 0, len(t))
	for _, tx := range t {
		rows = append(rows, table.Row{
			tx.Date.UTC().Format(domain.DateLayout),
			string(tx.Type),
			tx.Category,
			tx.Signed().String(),
			string(tx.PaymentMethod),
			truncate(tx.Description, 40),
			tx.ID,
		})
	}
	return rows
}

func (t Transactions) Footer() table.Row {
	net := domain.Money{}
	for _, tx := range t {
		net = net.Add(tx.Signed())
	}
	return table.Row{fmt.Sprintf("%d items", len(t)), "", "net", net.String()}
}

// Categories renders a category list.
type Categories []domain.Category

func (c Categories) Value() any { return []domain.Category(c) }

func (c Categories) Header() table.Row {
	return table.Row{"Name", "Type", "Icon", "Default", "ID"}
}

func (c Categories) Rows() []table.Row {
	rows := make([]table.Row, 0, len(c))
	for _, cat := range c {
		def := ""
		if cat.IsDefault {
			def = "yes"
		}
		rows = append(rows, table.Row{cat.Name, string(cat.Type), cat.Icon, def, cat.ID})
	}
	return rows
}

// Monthly renders a monthly summary as per-category expense with totals.
type Monthly struct {
	*domain.MonthlySummary
}

func (m Monthly) Value() any { return m.MonthlySummary }

func (m Monthly) Title() string {
	return fmt.Sprintf("%d-%02d  income %s  expense %s  savings %s (%s%%)",
		m.Year, m.Month, m.TotalIncome, m.TotalExpense, m.TotalSavings, m.SavingsRate().String())
}

func (m Monthly) Header() table.Row { return table.Row{"Category", "Expense", "Share"} }

func (m Monthly) Rows() []table.Row {
	cats := m.Categories()
	rows := make([]table.Row, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, table.Row{c.Category, c.Amount.String(), share(c.Amount, m.TotalExpense)})
	}
	return rows
}

func (m Monthly) Footer() table.Row { return table.Row{"Total", m.TotalExpense.String(), ""} }

// Yearly renders a yearly summary month by month.
type Yearly struct {
	*domain.YearlySummary
}

func (y Yearly) Value() any { return y.YearlySummary }

func (y Yearly) Title() string {
	return fmt.Sprintf("%d  savings rate %s%%", y.Year, y.SavingsRate().String())
}

func (y Yearly) Header() table.Row { return table.Row{"Month", "Income", "Expense", "Savings"} }

func (y Yearly) Rows() []table.Row {
	months := y.Months()
	rows := make([]table.Row, 0, len(months))
	for _, r := range months {
		rows = append(rows, table.Row{r.Label(), r.Income.String(), r.Expense.String(), r.Savings.String()})
	}
	return rows
}

func (y Yearly) Footer() table.Row {
	return table.Row{"Total", y.TotalIncome.String(), y.TotalExpense.String(), y.TotalSavings.String()}
}

// Dashboard renders the dashboard cards and category breakdown.
type Dashboard struct {
	*domain.DashboardStats
}

func (d Dashboard) Value() any { return d.DashboardStats }

func (d Dashboard) Title() string {
	return fmt.Sprintf("income %s  expense %s  balance %s", d.TotalIncome, d.TotalExpense, d.Balance)
}

func (d Dashboard) Header() table.Row { return table.Row{"Category", "Spent", "Share"} }

func (d Dashboard) Rows() []table.Row {
	top := d.TopCategories(0)
	rows := make([]table.Row, 0, len(top))
	for _, c := range top {
		rows = append(rows, table.Row{c.Category, c.Amount.String(), share(c.Amount, d.TotalExpense)})
	}
	return rows
}

// Profile renders the signed-in user.
type Profile struct {
	*domain.User
}

func (p Profile) Value() any { return p.User }

func (p Profile) Header() table.Row { return table.Row{"Field", "Value"} }

func (p Profile) Rows() []table.Row {
	rows := []table.Row{
		{"id", p.ID},
		{"name", p.Name},
		{"email", p.Email},
	}
	if p.CreatedAt != nil {
		rows = append(rows, table.Row{"member since", p.CreatedAt.Format(domain.DateLayout)})
	}
	return rows
}

func share(part, total domain.Money) string {
	if total.IsZero() {
		return "-"
	}
	return part.Div(total.Decimal).Shift(2).StringFixed(1) + "%"
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
