package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amaumene/gomovies/internal/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	movieStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	rankStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Width(4)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

func formatList(list view.List) string {
	var b strings.Builder

	heading := "All Movies"
	if list.Term != "" {
		heading = fmt.Sprintf("Results for %q", list.Term)
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n")

	if list.Error != "" {
		b.WriteString(noDataStyle.Render(list.Error))
		b.WriteString("\n")
		return b.String()
	}

	for _, m := range list.Movies {
		b.WriteString(movieStyle.Render(m.Title))
		b.WriteString("\n")
		lang := m.Language
		if m.LanguageName != "" {
			lang = m.LanguageName
		}
		b.WriteString(metaStyle.Render(fmt.Sprintf("  ★ %s • %s • %s", m.Rating, lang, m.Year)))
		b.WriteString("\n")
		b.WriteString(metaStyle.Render("  " + m.PosterURL))
		b.WriteString("\n")
	}

	b.WriteString(metaStyle.Render(fmt.Sprintf("\npage %d of %d", list.Page, list.TotalPages)))
	b.WriteString("\n")
	return b.String()
}

func formatTrending(items []view.TrendingItem) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Trending Movies"))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(noDataStyle.Render("No searches recorded yet"))
		b.WriteString("\n")
		return b.String()
	}

	for _, item := range items {
		b.WriteString(rankStyle.Render(fmt.Sprintf("%d.", item.Rank)))
		b.WriteString(movieStyle.Render(item.Title))
		b.WriteString(metaStyle.Render(fmt.Sprintf("  (%q)", item.SearchTerm)))
		b.WriteString("\n")
	}
	return b.String()
}
