package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// renderList renders the left panel: one profile per line with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.visible) == 0 {
		msg := "No profiles"
		if m.query != "" {
			msg = "No matches"
		}
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(msg)
	}

	var lines []string
	for row, i := range m.visible {
		if row < m.listOffset {
			continue
		}
		if len(lines) >= height {
			break
		}
		r := m.records[i]
		lines = append(lines, formatProfileLine(r, width, r.ID == m.selectedID, m.marked[r.ID]))
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatProfileLine formats a profile as
//
//	[>][*] status  name  organization
func formatProfileLine(r profile.Record, width int, selected, marked bool) string {
	prefix := "  "
	if selected {
		prefix = styleListSelected.Render("> ")
	}
	mark := " "
	if marked {
		mark = styleMark.Render("*")
	}

	text := r.FullName()
	if r.Organization != "" {
		text += "  " + r.Organization
	}
	textMax := width - 2 - 1 - 1 - 3 - 1 // prefix + mark + space + status + space
	if textMax < 0 {
		textMax = 0
	}
	if runewidth.StringWidth(text) > textMax {
		text = runewidth.Truncate(text, textMax, "…")
	}
	if selected {
		text = styleListSelected.Render(text)
	} else {
		text = styleListNormal.Render(text)
	}
	return fmt.Sprintf("%s%s %s %s", prefix, mark, statusBadge(r.VerificationStatus), text)
}

// statusBadge is a fixed three-column status marker.
func statusBadge(s profile.Status) string {
	switch s {
	case profile.StatusYes:
		return styleStatusYes.Render("yes")
	case profile.StatusNo:
		return styleStatusNo.Render("no ")
	}
	return styleStatusPending.Render(" · ")
}

// renderFiles renders the file picker shown while no profiles are loaded.
func (m model) renderFiles(width, height int) string {
	if len(m.files) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(fmt.Sprintf("No CSV files in %s\nRun: pv load <file>", m.opts.ScanDir))
	}

	var lines []string
	for i, f := range m.files {
		if len(lines) >= height {
			break
		}
		date := time.Unix(f.Mtime, 0).Format("01-02 15:04")
		line := fmt.Sprintf("%s  %8s  %s", date, humanSize(f.Size), filepath.Base(f.Path))
		if i == m.fileCursor {
			line = styleListSelected.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return stylePanelBorder.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fM", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fK", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%dB", n)
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	if listHeight < 1 {
		listHeight = 1
	}
	if m.cursor < 0 {
		return
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+listHeight {
		m.listOffset = m.cursor - listHeight + 1
	}
	if m.listOffset > len(m.visible)-1 {
		m.listOffset = max(0, len(m.visible)-1)
	}
}
