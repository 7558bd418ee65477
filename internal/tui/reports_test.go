package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/tally/pkg/domain"
)

func newTestReportsModel() reportsModel {
	m := newReportsModel(nil)
	m.year, m.month = 2024, time.January
	return m
}

func TestReportsShiftMonth(t *testing.T) {
	m := newTestReportsModel()
	m, cmd := m.Update(key("["))
	if m.year != 2023 || m.month != time.December {
		t.Errorf("after [: %d-%d, want 2023-12", m.year, m.month)
	}
	if cmd == nil {
		t.Error("expected reload after shifting")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.year != 2024 || m.month != time.January {
		t.Errorf("after right: %d-%d, want 2024-01", m.year, m.month)
	}
}

func TestReportsYearlyToggle(t *testing.T) {
	m := newTestReportsModel()
	m, _ = m.Update(key("y"))
	if !m.yearly {
		t.Fatal("expected yearly mode")
	}
	m, _ = m.Update(key("]"))
	if m.year != 2025 || m.month != time.January {
		t.Errorf("yearly shift moved to %d-%d", m.year, m.month)
	}
}

func TestReportsIgnoresOtherKeys(t *testing.T) {
	m := newTestReportsModel()
	if _, cmd := m.Update(key("x")); cmd != nil {
		t.Error("expected no command for unbound key")
	}
}

func TestReportsMonthlyView(t *testing.T) {
	m := newTestReportsModel()
	m, _ = m.Update(monthlyLoadedMsg{summary: &domain.MonthlySummary{
		Year: 2024, Month: 1,
		TotalIncome:     domain.NewMoney(2000),
		TotalExpense:    domain.NewMoney(400),
		TotalSavings:    domain.NewMoney(1600),
		CategoryExpense: map[string]domain.Money{"Food": domain.NewMoney(300), "Fuel": domain.NewMoney(100)},
	}})
	view := m.View()
	for _, want := range []string{"January 2024", "2000.00", "1600.00", "(80.0%)", "Food", "75.0%", "Fuel", "25.0%"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in monthly report, got:\n%s", want, view)
		}
	}
}

func TestReportsYearlyView(t *testing.T) {
	m := newTestReportsModel()
	m.yearly = true
	m, _ = m.Update(yearlyLoadedMsg{summary: &domain.YearlySummary{
		Year:         2024,
		TotalIncome:  domain.NewMoney(3000),
		TotalExpense: domain.NewMoney(3500),
		TotalSavings: domain.NewMoney(-500),
		MonthlyData: map[string]domain.MonthTotals{
			"2": {Income: domain.NewMoney(1000), Expense: domain.NewMoney(2500), Savings: domain.NewMoney(-1500)},
			"1": {Income: domain.NewMoney(2000), Expense: domain.NewMoney(1000), Savings: domain.NewMoney(1000)},
		},
	}})
	view := m.View()
	if !strings.Contains(view, "yearly") || !strings.Contains(view, "-1500.00") {
		t.Errorf("unexpected yearly report:\n%s", view)
	}
	if strings.Index(view, "Jan") > strings.Index(view, "Feb") {
		t.Errorf("expected months in calendar order:\n%s", view)
	}
}

func TestReportsError(t *testing.T) {
	m := newTestReportsModel()
	m, _ = m.Update(monthlyLoadedMsg{err: errors.New("nope")})
	if !strings.Contains(m.View(), "error: nope") {
		t.Errorf("expected error, got:\n%s", m.View())
	}
}
