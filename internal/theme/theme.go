package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the per-message header line.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// MetaStyle renders secondary details such as sender and date.
var MetaStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// BodyStyle wraps a message body.
var BodyStyle = lipgloss.NewStyle().
	PaddingLeft(2).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBorder)

// ErrorStyle highlights error messages.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// LabelStyle returns a color-coded style for an encoding label.
func LabelStyle(label string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch label {
	case "multipart":
		return base.Foreground(ColorBlue)
	case "base64":
		return base.Foreground(ColorYellow)
	case "quoted-printable":
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// RenderMessage formats one message for terminal display. seq is the
// message number shown in the header.
func RenderMessage(seq uint32, subject, from, date, body string) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("(#%d) %s", seq, subject)))
	b.WriteString("\n")

	var meta []string
	if from != "" {
		meta = append(meta, from)
	}
	if date != "" {
		meta = append(meta, date)
	}
	if len(meta) > 0 {
		b.WriteString(MetaStyle.Render(strings.Join(meta, " · ")))
		b.WriteString("\n")
	}

	if body != "" {
		b.WriteString(BodyStyle.Render(body))
		b.WriteString("\n")
	}
	return b.String()
}
