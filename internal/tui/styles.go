package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/tally/pkg/domain"
)

// Palette. Income and expense colors are shared by every view.
const (
	colorText     = lipgloss.Color("#c0c4d0")
	colorBright   = lipgloss.Color("#e4e4ec")
	colorDim      = lipgloss.Color("#8890a0")
	colorMuted    = lipgloss.Color("#505868")
	colorSection  = lipgloss.Color("#606878")
	colorFaint    = lipgloss.Color("#343c4a")
	colorBorder   = lipgloss.Color("#1e1e2a")
	colorAccent   = lipgloss.Color("#34d474")
	colorIncome   = lipgloss.Color("#4ade80")
	colorExpense  = lipgloss.Color("#f0944a")
	colorBalance  = lipgloss.Color("#60a0e0")
	colorNegative = lipgloss.Color("#e06060")
)

var (
	dimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	selectedStyle = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	normalStyle   = lipgloss.NewStyle().Foreground(colorText)
	metaStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	accentStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	okStyle       = lipgloss.NewStyle().Foreground(colorIncome)
	errStyle      = lipgloss.NewStyle().Foreground(colorNegative)

	helpKeyStyle   = lipgloss.NewStyle().Foreground(colorDim)
	helpLabelStyle = lipgloss.NewStyle().Foreground(colorMuted)

	incomeStyle  = lipgloss.NewStyle().Foreground(colorIncome)
	expenseStyle = lipgloss.NewStyle().Foreground(colorExpense)
	balanceStyle = lipgloss.NewStyle().Foreground(colorBalance).Bold(true)

	sectionHeaderStyle    = lipgloss.NewStyle().Foreground(colorSection)
	inputPromptStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	inputPlaceholderStyle = lipgloss.NewStyle().Foreground(colorFaint)

	cardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)

	barColors = []lipgloss.Color{colorExpense, colorBalance, "#b080d0", "#3ecce4", "#d4a844", colorNegative}
)

// The header logo ticks like a counter: a marker walks across "TALLY",
// lighting each letter green and letting it cool back toward amber.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

type rgb struct{ r, g, b float64 }

var (
	logoCool = rgb{0x5a, 0x48, 0x30}
	logoWarm = rgb{0xf0, 0x94, 0x4a}
	logoLit  = rgb{0x4a, 0xde, 0x80}
)

// mix blends a toward b by t, clamped to [0,1].
func mix(a, b rgb, t float64) rgb {
	t = math.Max(0, math.Min(1, t))
	return rgb{a.r + (b.r-a.r)*t, a.g + (b.g-a.g)*t, a.b + (b.b-a.b)*t}
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02X%02X%02X", uint8(math.Round(c.r)), uint8(math.Round(c.g)), uint8(math.Round(c.b)))
}

// logoStepFrames is how many shimmer ticks the marker rests on a letter.
const logoStepFrames = 6

const logoText = "TALLY"

// logoColors returns the color of each logo letter at frame.
func logoColors(frame int) []rgb {
	// Two idle steps after the last letter before the marker wraps.
	cycle := len(logoText) + 2
	pos := (frame / logoStepFrames) % cycle
	within := float64(frame%logoStepFrames) / logoStepFrames

	colors := make([]rgb, len(logoText))
	for i := range colors {
		c := logoCool
		switch age := pos - i; {
		case age == 0:
			c = mix(logoWarm, logoLit, 0.5+within/2)
		case age > 0:
			// Letters already counted cool off one step at a time.
			c = mix(logoCool, logoWarm, 1-float64(age)/float64(cycle))
		}
		colors[i] = c
	}
	return colors
}

func renderShimmerLogo(frame int) string {
	colors := logoColors(frame)
	letters := make([]string, len(logoText))
	for i, ch := range logoText {
		letters[i] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors[i].hex())).Render(string(ch))
	}
	return strings.Join(letters, "  ")
}

// TypeStyle returns the color for a transaction type.
func TypeStyle(t domain.TransactionType) lipgloss.Style {
	if t == domain.Income {
		return incomeStyle
	}
	return expenseStyle
}

// signedAmount renders a transaction amount with its sign and color.
func signedAmount(tx domain.Transaction) string {
	s := tx.Amount.String()
	if tx.Type == domain.Income {
		return incomeStyle.Render("+" + s)
	}
	return expenseStyle.Render("-" + s)
}

// barStyle picks a stable color for the i-th bar of a chart.
func barStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(barColors[i%len(barColors)])
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

// helpItemsFor lists the links the help overlay can open.
func helpItemsFor(webURL, apiURL string) []helpItem {
	var items []helpItem
	if webURL != "" {
		items = append(items, helpItem{"Web dashboard", webURL, webURL})
	}
	if apiURL != "" {
		items = append(items, helpItem{"API", apiURL, ""})
	}
	return items
}

// helpView renders the interactive help overlay with a cursor.
func helpView(items []helpItem, cursor int) string {
	title := incomeStyle.Bold(true).Render("T A L L Y")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	selected := incomeStyle.Bold(true)
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	keys := []struct{ key, desc string }{
		{"1-5", "dashboard, transactions, reports, categories, profile"},
		{"n", "new transaction"},
		{"r", "refresh the current view"},
		{"L", "log out"},
		{"q", "quit"},
	}
	commands := []struct{ cmd, desc string }{
		{"tally", "Open the interactive dashboard"},
		{"tally login", "Sign in"},
		{"tally tx list", "List transactions"},
		{"tally summary monthly", "Monthly report"},
		{"tally web", "Open the web dashboard"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", k.key)), descStyle.Render(k.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}

	if len(items) > 0 {
		fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
		for i, item := range items {
			label := cmdStyle.Render(fmt.Sprintf("%-22s", item.label))
			prefix := "    "
			if i == cursor {
				label = selected.Render(fmt.Sprintf("%-22s", item.label))
				prefix = "  > "
			}
			fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
		}
	}
	return b.String()
}
