package domain

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySummary is returned by GET /transactions/summary/monthly.
type MonthlySummary struct {
	Year            int              `json:"year"`
	Month           int              `json:"month"`
	TotalIncome     Money            `json:"totalIncome"`
	TotalExpense    Money            `json:"totalExpense"`
	TotalSavings    Money            `json:"totalSavings"`
	CategoryExpense map[string]Money `json:"categoryExpense"`
}

// SavingsRate is savings as a percentage of income, zero when there is no income.
func (s MonthlySummary) SavingsRate() decimal.Decimal {
	return savingsRate(s.TotalSavings, s.TotalIncome)
}

// Categories returns CategoryExpense sorted by amount, largest first.
func (s MonthlySummary) Categories() []CategoryAmount {
	return sortedAmounts(s.CategoryExpense)
}

// MonthTotals is one month of a yearly summary.
type MonthTotals struct {
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
	Savings Money `json:"savings"`
}

// YearlySummary is returned by GET /transactions/summary/yearly.
type YearlySummary struct {
	Year         int                    `json:"year"`
	TotalIncome  Money                  `json:"totalIncome"`
	TotalExpense Money                  `json:"totalExpense"`
	TotalSavings Money                  `json:"totalSavings"`
	MonthlyData  map[string]MonthTotals `json:"monthlyData"`
}

// SavingsRate is savings as a percentage of income, zero when there is no income.
func (s YearlySummary) SavingsRate() decimal.Decimal {
	return savingsRate(s.TotalSavings, s.TotalIncome)
}

// MonthRow is one row of a yearly report.
type MonthRow struct {
	Month time.Month
	MonthTotals
}

// Label is the short month name, e.g. "Jan".
func (r MonthRow) Label() string {
	return r.Month.String()[:3]
}

// Months returns MonthlyData ordered January to December. Keys that are not
// month numbers are skipped.
func (s YearlySummary) Months() []MonthRow {
	rows := make([]MonthRow, 0, len(s.MonthlyData))
	for k, v := range s.MonthlyData {
		n, err := strconv.Atoi(k)
		if err != nil || n < 1 || n > 12 {
			continue
		}
		rows = append(rows, MonthRow{Month: time.Month(n), MonthTotals: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}

// DashboardStats is returned by GET /transactions/stats/dashboard.
type DashboardStats struct {
	TotalIncome        Money            `json:"totalIncome"`
	TotalExpense       Money            `json:"totalExpense"`
	Balance            Money            `json:"balance"`
	RecentTransactions []Transaction    `json:"recentTransactions"`
	CategoryBreakdown  map[string]Money `json:"categoryBreakdown"`
}

// TopCategories returns up to n breakdown entries, largest first. n <= 0 returns all.
func (s DashboardStats) TopCategories(n int) []CategoryAmount {
	all := sortedAmounts(s.CategoryBreakdown)
	if n > 0 && len(all) > n {
		return all[:n]
	}
	return all
}

// CategoryAmount is a category name with its total.
type CategoryAmount struct {
	Category string
	Amount   Money
}

func sortedAmounts(m map[string]Money) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(m))
	for k, v := range m {
		out = append(out, CategoryAmount{Category: k, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount.Decimal); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func savingsRate(savings, income Money) decimal.Decimal {
	if income.IsZero() {
		return decimal.Zero
	}
	return savings.Div(income.Decimal).Mul(decimal.NewFromInt(100)).Round(1)
}
