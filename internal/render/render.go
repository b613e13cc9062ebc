package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
	"github.com/mattn/go-runewidth"
)

const (
	colorReset   = "\033[0m"
	colorYes     = "\033[1;32m" // bold green
	colorNo      = "\033[1;31m" // bold red
	colorPending = "\033[1;33m" // bold yellow
	colorDim     = "\033[2m"
	colorBold    = "\033[1m"
)

type Options struct {
	Color bool   // emit ANSI escapes
	Width int    // wrap/truncate width (0 = no limit)
	Query string // keyword to highlight in Detail
}

// highlightKeywords wraps case-insensitive matches of query terms in bold.
func highlightKeywords(text, query string) string {
	if query == "" {
		return text
	}
	for _, term := range strings.Fields(query) {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			if pos+len(term) > len(text) {
				break
			}
			orig := text[pos : pos+len(term)]
			replacement := colorBold + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// StatusLabel renders a status, colored when color is set.
func StatusLabel(s profile.Status, color bool) string {
	if s == "" {
		s = profile.StatusPending
	}
	if !color {
		return string(s)
	}
	switch s {
	case profile.StatusYes:
		return colorYes + "yes" + colorReset
	case profile.StatusNo:
		return colorNo + "no" + colorReset
	}
	return colorPending + string(s) + colorReset
}

func nameMatchLabel(m profile.NameMatch) string {
	if m == profile.NameMatchUnset {
		return "-"
	}
	return string(m)
}

// fit truncates or pads s to exactly w columns.
func fit(s string, w int) string {
	if w <= 0 {
		return s
	}
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	return runewidth.FillRight(s, w)
}

// Table renders records as aligned columns:
//
//	ID  STATUS   MATCH  NAME  ORGANIZATION  URL
func Table(records []profile.Record, opts Options) string {
	nameW, orgW := len("NAME"), len("ORGANIZATION")
	for _, r := range records {
		nameW = max(nameW, runewidth.StringWidth(r.FullName()))
		orgW = max(orgW, runewidth.StringWidth(r.Organization))
	}
	nameW = min(nameW, 28)
	orgW = min(orgW, 24)

	var b strings.Builder
	header := fmt.Sprintf("%-5s %-8s %-5s %s %s %s", "ID", "STATUS", "MATCH", fit("NAME", nameW), fit("ORGANIZATION", orgW), "URL")
	if opts.Color {
		header = colorDim + header + colorReset
	}
	b.WriteString(header)
	b.WriteByte('\n')

	urlW := 0
	if opts.Width > 0 {
		urlW = opts.Width - (5 + 1 + 8 + 1 + 5 + 1 + nameW + 1 + orgW + 1)
		if urlW < 10 {
			urlW = 10
		}
	}

	for _, r := range records {
		status := fit(string(orDefault(r.VerificationStatus)), 8)
		if opts.Color {
			status = StatusLabel(r.VerificationStatus, true) + strings.Repeat(" ", 8-len(orDefault(r.VerificationStatus)))
		}
		url := r.LinkedInURL
		if urlW > 0 && runewidth.StringWidth(url) > urlW {
			url = runewidth.Truncate(url, urlW, "…")
		}
		fmt.Fprintf(&b, "%-5d %s %-5s %s %s %s\n",
			r.ID, status, nameMatchLabel(r.NameMatch), fit(r.FullName(), nameW), fit(r.Organization, orgW), url)
	}
	return b.String()
}

func orDefault(s profile.Status) profile.Status {
	if s == "" {
		return profile.StatusPending
	}
	return s
}

// Detail renders one record as labeled lines.
func Detail(r profile.Record, opts Options) string {
	var b strings.Builder
	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	label := func(s string) string {
		s = fmt.Sprintf("%-14s", s)
		if opts.Color {
			return colorDim + s + colorReset
		}
		return s
	}
	text := func(s string) string {
		if opts.Color {
			return highlightKeywords(s, opts.Query)
		}
		return s
	}

	writeLine(label("ID") + fmt.Sprint(r.ID))
	writeLine(label("Name") + text(r.FullName()))
	org := r.Organization
	if org == "" {
		org = "-"
	}
	writeLine(label("Organization") + text(org))
	writeLine(label("LinkedIn") + text(r.LinkedInURL))
	writeLine(label("Status") + StatusLabel(r.VerificationStatus, opts.Color))
	writeLine(label("Name match") + nameMatchLabel(r.NameMatch))
	verified := "-"
	if r.VerifiedAt != nil {
		verified = r.VerifiedAt.Local().Format(time.DateTime)
	}
	writeLine(label("Verified at") + verified)
	if r.Notes != nil && *r.Notes != "" {
		writeLine(label("Notes") + *r.Notes)
	}
	return b.String()
}

// Stats renders verification progress as a short block.
func Stats(s profile.Stats, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total:     %d\n", s.Total)
	fmt.Fprintf(&b, "Verified:  %d (%d%%)\n", s.Verified, s.Percent())
	fmt.Fprintf(&b, "Matches:   %s\n", colorize(fmt.Sprint(s.Matches), colorYes, opts.Color))
	fmt.Fprintf(&b, "No match:  %s\n", colorize(fmt.Sprint(s.NoMatches), colorNo, opts.Color))
	fmt.Fprintf(&b, "Pending:   %s\n", colorize(fmt.Sprint(s.Pending), colorPending, opts.Color))
	return b.String()
}

func colorize(s, color string, on bool) string {
	if !on {
		return s
	}
	return color + s + colorReset
}
