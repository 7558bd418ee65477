package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// sessionExpiredMsg reports that the server rejected the session.
type sessionExpiredMsg struct{}

type sender interface {
	Send(msg tea.Msg)
}

// Redirector is the client's Navigator while the TUI runs. Each rejected
// response is forwarded to the program as a sessionExpiredMsg, which the
// App answers by showing the login view.
type Redirector struct {
	mu        sync.Mutex
	prog      sender
	redirects int
}

// NewRedirector returns a Redirector with no program attached yet.
func NewRedirector() *Redirector {
	return &Redirector{}
}

// Attach connects the running program. Rejections seen before Attach are
// counted but not delivered.
func (r *Redirector) Attach(p *tea.Program) {
	r.attach(p)
}

func (r *Redirector) attach(s sender) {
	r.mu.Lock()
	r.prog = s
	r.mu.Unlock()
}

// NavigateToLogin implements client.Navigator.
func (r *Redirector) NavigateToLogin() {
	r.mu.Lock()
	r.redirects++
	p := r.prog
	r.mu.Unlock()
	if p != nil {
		p.Send(sessionExpiredMsg{})
	}
}

// Redirects returns how many rejections have been seen.
func (r *Redirector) Redirects() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.redirects
}
