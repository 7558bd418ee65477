package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeLogin(m loginModel, s string) loginModel {
	for _, r := range s {
		m, _ = m.Update(key(string(r)))
	}
	return m
}

func TestLoginStartsOnEmail(t *testing.T) {
	m := newLoginModel(nil)
	if m.focus != loginEmail {
		t.Errorf("focus = %d, want email", m.focus)
	}
	if len(m.fields()) != 2 {
		t.Errorf("expected 2 fields in sign-in mode, got %d", len(m.fields()))
	}
	if strings.Contains(m.View(), "name") {
		t.Errorf("name field should be hidden in sign-in mode:\n%s", m.View())
	}
}

func TestLoginPasswordIsMasked(t *testing.T) {
	m := newLoginModel(nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != loginPassword {
		t.Fatalf("focus = %d, want password", m.focus)
	}
	m = typeLogin(m, "hunter2")
	if got := m.inputs[loginPassword].Value(); got != "hunter2" {
		t.Errorf("password value = %q", got)
	}
	if strings.Contains(m.View(), "hunter2") {
		t.Errorf("password rendered in clear:\n%s", m.View())
	}
}

func TestLoginRegisterToggle(t *testing.T) {
	m := newLoginModel(nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if !m.register || m.focus != loginName {
		t.Fatalf("expected register mode focused on name, register=%v focus=%d", m.register, m.focus)
	}
	if !strings.Contains(m.View(), "Create an account") {
		t.Errorf("expected register title:\n%s", m.View())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.register || m.focus != loginEmail {
		t.Errorf("expected sign-in mode focused on email, register=%v focus=%d", m.register, m.focus)
	}
}

func TestLoginFocusWraps(t *testing.T) {
	m := newLoginModel(nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != loginPassword {
		t.Errorf("focus = %d, want password after shift+tab from email", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != loginEmail {
		t.Errorf("focus = %d, want email after wrapping", m.focus)
	}
}

func TestLoginSubmitRequiresFields(t *testing.T) {
	m := newLoginModel(nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command with empty fields")
	}
	if m.err != "email is required" {
		t.Errorf("err = %q", m.err)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.err != "name is required" {
		t.Errorf("err = %q, want name is required", m.err)
	}
}

func TestLoginEnterAdvancesThenSubmits(t *testing.T) {
	m := newLoginModel(nil)
	m = typeLogin(m, "ann@example.com")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.focus != loginPassword {
		t.Fatalf("focus = %d, want password after enter on email", m.focus)
	}
	m = typeLogin(m, "secret")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected login command")
	}
	if !m.submitting || !strings.Contains(m.View(), "signing in") {
		t.Errorf("expected submitting state:\n%s", m.View())
	}
}

func TestLoginShowsServerError(t *testing.T) {
	m := newLoginModel(nil)
	m.submitting = true
	m.inputs[loginPassword].SetValue("wrong")
	m, _ = m.Update(authDoneMsg{err: errors.New("Invalid credentials")})
	if m.submitting {
		t.Error("expected submitting cleared")
	}
	if !strings.Contains(m.View(), "Invalid credentials") {
		t.Errorf("expected error in view:\n%s", m.View())
	}
	if m.inputs[loginPassword].Value() != "" {
		t.Error("expected password cleared after a failed attempt")
	}
}
