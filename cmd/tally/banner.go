package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/tally/pkg/domain"
)

var tips = [...]string{
	"Every rupee you write down is one you stop wondering about.",
	"A budget is just a plan that remembers what you said yesterday.",
	"Coffee counts. So does the second coffee.",
	"Small expenses travel in packs. Track the pack.",
	"The month ends whether you look at it or not. Might as well look.",
	"Income is a story. Expenses are the plot twists.",
	"You can't cut what you can't see.",
	"Savings rate beats salary size more often than people admit.",
	"The best time to log a transaction was when it happened. The second best is now.",
	"Categories are opinions about your money. Have good ones.",
	"Nobody regrets knowing where their money went.",
	"A tally a day keeps the surprise statement away.",
}

var (
	bannerTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80")).Bold(true)
	bannerQuote = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	bannerDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	bannerName  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4A017"))
)

func randomTip() string {
	return tips[rand.IntN(len(tips))]
}

// printSignInHint is shown whenever a command needs a session that isn't there.
func printSignInHint(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n",
		bannerTitle.Render("TALLY"),
		bannerQuote.Render(randomTip()),
		bannerDim.Render("To sign in: tally login   (new here? tally register)"))
}

func printWelcome(w io.Writer, u *domain.User) {
	name := "there"
	if u != nil && u.Name != "" {
		name = u.Name
	}
	fmt.Fprintf(w, "\n  %s  %s\n\n  %s\n\n",
		bannerTitle.Render("T A L L Y"),
		"Welcome, "+bannerName.Render(name)+".",
		bannerDim.Render("Run tally for the dashboard, or tally --help for commands."))
}
