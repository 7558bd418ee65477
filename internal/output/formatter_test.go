package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/naveenspark/tally/pkg/domain"
)

func sampleTransactions() Transactions {
	return Transactions{
		{ID: "t1", Type: domain.Expense, Amount: domain.NewMoney(12.5), Category: "Food",
			Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), PaymentMethod: domain.PaymentCard},
		{ID: "t2", Type: domain.Income, Amount: domain.NewMoney(2000), Category: "Salary",
			Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatJSON, "json"},
		{FormatYAML, "yaml"},
		{FormatTable, "table"},
		{"unknown", "table"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(tt.format)
			var got string
			switch f.(type) {
			case *JSONFormatter:
				got = "json"
			case *YAMLFormatter:
				got = "yaml"
			case *TableFormatter:
				got = "table"
			}
			if got != tt.want {
				t.Errorf("NewFormatter(%q) = %T, want %s", tt.format, f, tt.want)
			}
		})
	}
}

func TestTableTransactions(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, "table", sampleTransactions()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"DATE", "2024-03-15", "-12.50", "2000.00", "card", "1987.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONUsesWireNames(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, "json", sampleTransactions()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"_id": "t1"`) {
		t.Errorf("json output missing _id:\n%s", out)
	}
	if !strings.Contains(out, `"amount": 12.5`) {
		t.Errorf("json output missing numeric amount:\n%s", out)
	}
}

func TestYAMLBlockStyle(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, "yaml", Categories{{ID: "c1", Name: "Food", Type: domain.Expense, IsDefault: true}}); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "- _id: c1") {
		t.Errorf("yaml output not block style:\n%s", out)
	}
	if !strings.Contains(out, "isDefault: true") {
		t.Errorf("yaml output missing isDefault:\n%s", out)
	}
	if strings.Contains(out, "{") {
		t.Errorf("yaml output contains flow mapping:\n%s", out)
	}
}

func TestMonthlyShareAndTitle(t *testing.T) {
	m := Monthly{&domain.MonthlySummary{
		Year: 2024, Month: 3,
		TotalIncome:     domain.NewMoney(2000),
		TotalExpense:    domain.NewMoney(400),
		TotalSavings:    domain.NewMoney(1600),
		CategoryExpense: map[string]domain.Money{"Food": domain.NewMoney(300), "Fuel": domain.NewMoney(100)},
	}}
	if got := m.Title(); !strings.Contains(got, "2024-03") || !strings.Contains(got, "(80%)") {
		t.Errorf("Title = %q", got)
	}
	rows := m.Rows()
	if len(rows) != 2 || rows[0][0] != "Food" || rows[0][2] != "75.0%" {
		t.Errorf("Rows = %v", rows)
	}
}

func TestYearlyRowsOrdered(t *testing.T) {
	y := Yearly{&domain.YearlySummary{
		Year: 2024,
		MonthlyData: map[string]domain.MonthTotals{
			"12": {Income: domain.NewMoney(1)},
			"3":  {Income: domain.NewMoney(2)},
		},
	}}
	rows := y.Rows()
	if len(rows) != 2 || rows[0][0] != "Mar" || rows[1][0] != "Dec" {
		t.Errorf("Rows = %v", rows)
	}
}

func TestNonTabularFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, map[string]int{"n": 1}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"n": 1`) {
		t.Errorf("fallback = %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a very long description", 6); got != "a ver…" {
		t.Errorf("truncate = %q", got)
	}
}
