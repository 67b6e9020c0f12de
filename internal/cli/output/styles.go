package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
}

// NewStyles builds the style set. With styled false every style is a
// pass-through, so piped output carries no escape codes.
func NewStyles(styled bool) Styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return Styles{
			Header:  plain,
			Success: plain,
			Warning: plain,
			Error:   plain,
			Muted:   plain,
			Accent:  plain,
		}
	}
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	}
}
