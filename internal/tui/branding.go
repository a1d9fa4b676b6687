package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/flix/internal/config"
)

const AppName = "flix"

// LogoLines is the block-letter wordmark.
var LogoLines = []string{
	"█████ ██     ██ ██   ██",
	"██    ██     ██  ██ ██ ",
	"████  ██     ██   ███  ",
	"██    ██     ██  ██ ██ ",
	"██    ██████ ██ ██   ██",
}

const CompactLogo = `flix ›`

var (
	PrimaryColor   = lipgloss.Color("#E50914")
	SecondaryColor = lipgloss.Color("#4ECDC4")
	AccentColor    = lipgloss.Color("#95E1D3")

	BackgroundColor = lipgloss.Color("#141414")
	SurfaceColor    = lipgloss.Color("#221F1F")
	TextColor       = lipgloss.Color("#EAEAEA")
	MutedColor      = lipgloss.Color("#94A3B8")

	ErrorColor   = lipgloss.Color("#FF4545")
	SuccessColor = lipgloss.Color("#46D369")
)

var (
	LogoStyle           lipgloss.Style
	TitleStyle          lipgloss.Style
	HeaderStyle         lipgloss.Style
	TabStyle            lipgloss.Style
	ActiveTabStyle      lipgloss.Style
	HeroTitleStyle      lipgloss.Style
	HeroBoxStyle        lipgloss.Style
	SelectedItemStyle   lipgloss.Style
	HelpStyle           lipgloss.Style
	NoticeStyle         lipgloss.Style
	StatusInfoStyle     lipgloss.Style
	StatusSuccessStyle  lipgloss.Style
	StatusWarnStyle     lipgloss.Style
	StatusErrorStyle    lipgloss.Style
	SeparatorStyle      lipgloss.Style
	CheckedStyle        lipgloss.Style
	ModalHighlightStyle lipgloss.Style
)

func init() {
	buildStyles()
}

// ApplyTheme replaces the palette with the configured colours. Empty
// entries keep the built-in colour.
func ApplyTheme(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&BackgroundColor, c.Background)
	set(&SurfaceColor, c.Surface)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	TabStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(PrimaryColor).
		Bold(true).
		Padding(0, 1)

	HeroTitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true)

	HeroBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(PrimaryColor).
		PaddingLeft(1)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(BackgroundColor).
		Background(AccentColor).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	NoticeStyle = lipgloss.NewStyle().
		Foreground(ErrorColor)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(AccentColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	CheckedStyle = lipgloss.NewStyle().
		Foreground(SuccessColor).
		Bold(true)

	ModalHighlightStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)
}

// ratingStyle colours a vote by tier.
func ratingStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true)
}

func GetCompactBanner(message string) string {
	coloredLines := make([]string, 0, len(LogoLines))
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)
	if message == "" {
		return logo
	}
	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// Banner renders the logo with a version tagline for the CLI.
func Banner(version string) string {
	tagline := "    Movies in your terminal"
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline = fmt.Sprintf("%s %s", tagline, version)
	}

	lines := make([]string, 0, len(LogoLines)+2)
	for _, line := range LogoLines {
		lines = append(lines, LogoStyle.Render(line))
	}
	lines = append(lines, "", HelpStyle.Render(tagline))

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}
