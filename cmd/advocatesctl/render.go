package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/noah-isme/advocates-api/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("32")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

type column struct {
	title string
	width int
	value func(models.Advocate) string
}

var advocateColumns = []column{
	{"ID", 6, func(a models.Advocate) string { return fmt.Sprintf("%d", a.ID) }},
	{"Name", 24, func(a models.Advocate) string { return a.FirstName + " " + a.LastName }},
	{"City", 18, func(a models.Advocate) string { return a.City }},
	{"Degree", 6, func(a models.Advocate) string { return a.Degree }},
	{"Yrs", 4, func(a models.Advocate) string { return fmt.Sprintf("%d", a.YearsOfExperience) }},
	{"Phone", 14, func(a models.Advocate) string { return formatPhone(a.PhoneNumber) }},
	{"Specialties", 48, func(a models.Advocate) string { return strings.Join(a.Specialties, ", ") }},
}

func renderAdvocates(title string, advocates []models.Advocate, footer string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if len(advocates) == 0 {
		b.WriteString(noDataStyle.Render("No advocates match these filters."))
		b.WriteString("\n")
		return b.String()
	}

	header := make([]string, 0, len(advocateColumns))
	for _, col := range advocateColumns {
		header = append(header, cell(col.title, col.width))
	}
	b.WriteString(headerStyle.Render(strings.Join(header, " ")))
	b.WriteString("\n")

	for _, a := range advocates {
		row := make([]string, 0, len(advocateColumns))
		for _, col := range advocateColumns {
			row = append(row, cell(col.value(a), col.width))
		}
		b.WriteString(strings.TrimRight(strings.Join(row, " "), " "))
		b.WriteString("\n")
	}

	if footer != "" {
		b.WriteString(metaStyle.Render(footer))
		b.WriteString("\n")
	}
	return b.String()
}

// cell pads or truncates s to width runes.
func cell(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width <= 1 {
			return string(r[:width])
		}
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}

func formatPhone(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) != 10 {
		return s
	}
	return fmt.Sprintf("(%s) %s-%s", s[:3], s[3:6], s[6:])
}
