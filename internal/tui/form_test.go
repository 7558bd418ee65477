package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/tally/pkg/domain"
)

var testCategories = []domain.Category{
	{ID: "c1", Name: "Food", Type: domain.Expense, IsDefault: true},
	{ID: "c2", Name: "Transport", Type: domain.Expense, IsDefault: true},
	{ID: "c3", Name: "Salary", Type: domain.Income, IsDefault: true},
}

func newTestFormModel(cats []domain.Category) formModel {
	m := newFormModel(nil, cats)
	m.now = func() time.Time { return time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC) }
	m.reset()
	return m
}

func typeText(m formModel, s string) formModel {
	for _, r := range s {
		m, _ = m.Update(key(string(r)))
	}
	return m
}

func TestFormDefaults(t *testing.T) {
	m := newTestFormModel(testCategories)
	if m.fields[fieldType] != "expense" {
		t.Errorf("type = %q, want expense", m.fields[fieldType])
	}
	if m.fields[fieldDate] != "2024-03-20" {
		t.Errorf("date = %q, want today", m.fields[fieldDate])
	}
	if m.fields[fieldCategory] != "Food" {
		t.Errorf("category = %q, want first expense category", m.fields[fieldCategory])
	}
	if m.focus != fieldAmount {
		t.Errorf("focus = %d, want amount", m.focus)
	}
}

func TestFormTypingAndFocus(t *testing.T) {
	m := newTestFormModel(testCategories)
	m = typeText(m, "12.5")
	if m.fields[fieldAmount] != "12.5" {
		t.Errorf("amount = %q", m.fields[fieldAmount])
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.fields[fieldAmount] != "12." {
		t.Errorf("amount after backspace = %q", m.fields[fieldAmount])
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldCategory {
		t.Errorf("focus after tab = %d, want category", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != fieldAmount {
		t.Errorf("focus after shift+tab = %d, want amount", m.focus)
	}
}

func TestFormCyclesTypeAndRepicksCategory(t *testing.T) {
	m := newTestFormModel(testCategories)
	m.focus = fieldType

	m, _ = m.Update(key("l"))
	if m.fields[fieldType] != "income" {
		t.Errorf("type = %q, want income", m.fields[fieldType])
	}
	if m.fields[fieldCategory] != "Salary" {
		t.Errorf("category = %q, want Salary after switching to income", m.fields[fieldCategory])
	}

	m, _ = m.Update(key("h"))
	if m.fields[fieldType] != "expense" {
		t.Errorf("type = %q, want expense", m.fields[fieldType])
	}
}

func TestFormCyclesCategoryAndPayment(t *testing.T) {
	m := newTestFormModel(testCategories)
	m.focus = fieldCategory
	m, _ = m.Update(key("l"))
	if m.fields[fieldCategory] != "Transport" {
		t.Errorf("category = %q, want Transport", m.fields[fieldCategory])
	}
	// Letters do not type into a picked field.
	m, _ = m.Update(key("x"))
	if m.fields[fieldCategory] != "Transport" {
		t.Errorf("category = %q after typing", m.fields[fieldCategory])
	}

	m.focus = fieldPayment
	m, _ = m.Update(key("l"))
	if m.fields[fieldPayment] != "cash" {
		t.Errorf("payment = %q, want cash", m.fields[fieldPayment])
	}
	m, _ = m.Update(key("h"))
	m, _ = m.Update(key("h"))
	if m.fields[fieldPayment] != "other" {
		t.Errorf("payment = %q, want other after wrapping", m.fields[fieldPayment])
	}
}

func TestFormFreeTextCategoryWithoutChoices(t *testing.T) {
	m := newTestFormModel(nil)
	m.focus = fieldCategory
	m = typeText(m, "Gym")
	if m.fields[fieldCategory] != "Gym" {
		t.Errorf("category = %q, want typed text", m.fields[fieldCategory])
	}
}

func TestFormCategoriesLoaded(t *testing.T) {
	m := newTestFormModel(nil)
	m, _ = m.Update(categoriesLoadedMsg{items: testCategories})
	if m.fields[fieldCategory] != "Food" {
		t.Errorf("category = %q, want Food", m.fields[fieldCategory])
	}
}

func TestFormSubmitValidates(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		date   string
		want   string
	}{
		{"empty amount", "", "2024-03-20", "amount"},
		{"negative amount", "-3", "2024-03-20", "amount"},
		{"bad date", "10", "20/03/2024", "date"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestFormModel(testCategories)
			m.fields[fieldAmount] = tc.amount
			m.fields[fieldDate] = tc.date
			m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
			if cmd != nil {
				t.Error("expected no command for invalid input")
			}
			if !strings.Contains(m.statusMsg, tc.want) {
				t.Errorf("statusMsg = %q, want mention of %q", m.statusMsg, tc.want)
			}
		})
	}
}

func TestFormInput(t *testing.T) {
	m := newTestFormModel(testCategories)
	m.fields[fieldAmount] = "12,5"
	m.fields[fieldDescription] = "  lunch  "
	m.fields[fieldPayment] = "card"

	in, err := m.input()
	if err != nil {
		t.Fatalf("input() error = %v", err)
	}
	if in.Amount.String() != "12.50" || in.Category != "Food" || in.Description != "lunch" ||
		in.Date != "2024-03-20" || in.PaymentMethod != domain.PaymentCard || in.Type != domain.Expense {
		t.Errorf("input() = %+v", in)
	}
}

func TestFormSubmitDispatches(t *testing.T) {
	m := newTestFormModel(testCategories)
	m.fields[fieldAmount] = "10"
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected save command")
	}
	if !m.submitted || !strings.Contains(m.View(), "saving") {
		t.Error("expected saving state")
	}
	// Keys are ignored while saving.
	m, _ = m.Update(key("9"))
	if m.fields[fieldAmount] != "10" {
		t.Errorf("amount changed while saving: %q", m.fields[fieldAmount])
	}

	m, _ = m.Update(txSavedMsg{err: errors.New("server down")})
	if m.submitted || !strings.Contains(m.statusMsg, "server down") {
		t.Errorf("expected failure status, got %q", m.statusMsg)
	}
}

func TestFormLoadForEdit(t *testing.T) {
	m := newTestFormModel(testCategories)
	m.load(domain.Transaction{
		ID: "t9", Type: domain.Income, Amount: domain.NewMoney(50), Category: "Gift",
		Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), PaymentMethod: domain.PaymentUPI, Description: "bday",
	})
	if !strings.Contains(m.View(), "Edit transaction") {
		t.Errorf("expected edit title, got:\n%s", m.View())
	}
	if m.fields[fieldDate] != "2024-01-02" || m.fields[fieldPayment] != "upi" || m.fields[fieldCategory] != "Gift" {
		t.Errorf("fields = %v", m.fields)
	}

	// Loading categories later keeps the edited value.
	m, _ = m.Update(categoriesLoadedMsg{items: testCategories})
	if m.fields[fieldCategory] != "Gift" {
		t.Errorf("category overwritten: %q", m.fields[fieldCategory])
	}
}
