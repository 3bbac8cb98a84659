package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/boostup/folio/internal/content"
	"github.com/boostup/folio/internal/ui/components"
	"github.com/boostup/folio/internal/ui/theme"
)

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// Leave room for the scrollbar gutter and padding
	w := frameWidth - 4
	// Cap so it doesn't stretch absurdly wide
	if w > 120 {
		w = 120
	}
	if w < 30 {
		w = 30
	}
	return w
}

// heading renders "<lead> <accent>" centered, the accent in lavender.
func heading(lead, accent string, cw int) string {
	text := theme.Title.UnsetAlign().Render(lead)
	if accent != "" {
		text += " " + theme.Highlight.Render(accent)
	}
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, text)
}

// columns lays blocks side by side when each gets at least minCol cells,
// otherwise stacks them.
func columns(blocks []string, cw, minCol int) string {
	if len(blocks) == 0 {
		return ""
	}
	n := len(blocks)
	if cw/minCol < n {
		return strings.Join(blocks, "\n")
	}
	row := make([]string, 0, 2*n-1)
	for i, b := range blocks {
		if i > 0 {
			row = append(row, " ")
		}
		row = append(row, b)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, row...)
}

// colWidth is the width of one column when n blocks share cw.
func colWidth(cw, n, minCol int) int {
	if n == 0 || cw/minCol < n {
		return cw
	}
	return (cw - (n - 1)) / n
}

func box(title, body string, width int) string {
	inner := width - 4
	if inner < 1 {
		inner = 1
	}
	text := theme.Body.Bold(true).Width(inner).Render(title)
	if body != "" {
		text += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Width(inner).Render(body)
	}
	return theme.Card.Width(width).Padding(0, 1).Render(text)
}

func renderHero(site content.Site, cw int) string {
	words := strings.Fields(site.HeroWords)
	parts := make([]string, len(words))
	for i, w := range words {
		if i >= 4 {
			parts[i] = theme.Highlight.Render(w)
		} else {
			parts[i] = theme.Body.Bold(true).Render(w)
		}
	}
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.ToUpper(site.Tagline)),
		"",
		strings.Join(parts, " "),
		"",
		theme.Soft.Render(site.HeroSubtitle),
		"",
		components.NewButton("Show our work", "↓", false, nil).View(),
	}
	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, block)
}

func renderAbout(items []content.GridItem, cw int) string {
	w := colWidth(cw, len(items), 28)
	blocks := make([]string, len(items))
	for i, it := range items {
		blocks[i] = box(it.Title, it.Description, w)
	}
	return strings.Join([]string{heading("About", "us", cw), "", columns(blocks, cw, 28)}, "\n")
}

func renderProjects(projects []content.Project, tabs components.Menu, cw int) string {
	out := []string{heading("A small selection of", "recent projects", cw), ""}
	if len(projects) == 0 {
		return strings.Join(out, "\n")
	}

	out = append(out, lipgloss.NewStyle().MaxWidth(cw).Render(tabs.View()), "")

	sel := tabs.Selected
	if sel < 0 || sel >= len(projects) {
		sel = 0
	}
	p := projects[sel]

	inner := cw - 4
	body := []string{
		theme.Title.UnsetAlign().Render(p.Title),
		"",
		lipgloss.NewStyle().Foreground(theme.TextDim).Width(inner).Render(p.Description),
		"",
		renderIcons(p.Icons),
		"",
		theme.Highlight.Render("Check Live Site ↗") + "  " + theme.Hint.Render("enter to open"),
	}
	card := theme.Card.BorderForeground(theme.Primary).Width(cw).Render(strings.Join(body, "\n"))
	out = append(out, card)
	return strings.Join(out, "\n")
}

func renderIcons(icons []string) string {
	pills := make([]string, len(icons))
	pill := lipgloss.NewStyle().Foreground(theme.Accent).Background(theme.BgDark).Padding(0, 1)
	for i, ic := range icons {
		pills[i] = pill.Render(ic)
	}
	return strings.Join(pills, " ")
}

func renderTestimonials(ts []content.Testimonial, companies []content.Company, cw int) string {
	w := colWidth(cw, len(ts), 36)
	blocks := make([]string, len(ts))
	for i, t := range ts {
		inner := w - 4
		text := theme.Soft.Width(inner).Render("“"+t.Quote+"”") + "\n\n" +
			theme.Highlight.Render(t.Name) + "\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Width(inner).Render(t.Title)
		blocks[i] = theme.Card.Width(w).Padding(0, 1).Render(text)
	}

	names := make([]string, len(companies))
	for i, c := range companies {
		names[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render(c.Name)
	}
	logos := lipgloss.PlaceHorizontal(cw, lipgloss.Center, strings.Join(names, "    "))

	return strings.Join([]string{
		heading("Kind words from", "satisfied clients", cw), "",
		columns(blocks, cw, 36), "",
		logos,
	}, "\n")
}

func renderExperience(items []content.GridItem, cw int) string {
	perRow := 2
	if cw < 2*36 {
		perRow = 1
	}
	w := colWidth(cw, perRow, 36)
	var rows []string
	for i := 0; i < len(items); i += perRow {
		end := i + perRow
		if end > len(items) {
			end = len(items)
		}
		var blocks []string
		for _, it := range items[i:end] {
			blocks = append(blocks, box(it.Title, it.Description, w))
		}
		rows = append(rows, columns(blocks, cw, 36))
	}
	return strings.Join(append([]string{heading("Our", "Services", cw), ""}, rows...), "\n")
}

func renderBlogs(blogs []content.Project, cw int) string {
	w := colWidth(cw, 2, 36)
	var rows []string
	for i := 0; i < len(blogs); i += 2 {
		end := i + 2
		if end > len(blogs) {
			end = len(blogs)
		}
		var blocks []string
		for _, b := range blogs[i:end] {
			blocks = append(blocks, box(b.Title, b.Description+"\n"+b.Link, w))
		}
		rows = append(rows, columns(blocks, cw, 36))
	}
	return strings.Join(append([]string{heading("Latest from the", "blog", cw), ""}, rows...), "\n")
}

func renderContact(site content.Site, social []content.SocialLink, copied bool, cw int) string {
	label := "Copy our email address"
	if copied {
		label = "Email is Copied!"
	}
	btn := components.NewButton(label, "⧉", copied, nil).View()

	links := make([]string, len(social))
	for i, s := range social {
		links[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.Name)
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Width(cw).Align(lipgloss.Center).Render(site.ContactHeading),
		"",
		theme.Soft.Width(cw).Align(lipgloss.Center).Render(site.ContactBody),
		"",
		lipgloss.PlaceHorizontal(cw, lipgloss.Center, btn),
		lipgloss.PlaceHorizontal(cw, lipgloss.Center, theme.Hint.Render(site.Email)),
		"",
		lipgloss.PlaceHorizontal(cw, lipgloss.Center, strings.Join(links, "   ")),
		lipgloss.PlaceHorizontal(cw, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("Copyright © %s. All Rights Reserved.", site.Copyright))),
	}
	return strings.Join(lines, "\n")
}
