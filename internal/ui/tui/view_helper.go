package tui

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aalvaropc/fitdemo/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// renderRecords lays out the log top to bottom, most recent first, within
// width columns and at most maxLines lines. Long payloads are cut per record.
func renderRecords(t Theme, records []domain.ResultRecord, width, maxLines int) string {
	if len(records) == 0 {
		return t.Dim.Render("No results yet. Run a step or press a for the full demo.")
	}
	if maxLines <= 0 {
		maxLines = 1
	}

	perRecord := maxLines / len(records)
	if perRecord < 3 {
		perRecord = 3
	}

	var lines []string
	for _, r := range records {
		if len(lines) >= maxLines {
			break
		}
		lines = append(lines, recordLines(t, r, width, perRecord)...)
		lines = append(lines, "")
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}

func recordLines(t Theme, r domain.ResultRecord, width, maxLines int) []string {
	mark := t.OK.Render("✓")
	if !r.Succeeded {
		mark = t.Fail.Render("✗")
	}
	head := mark + " " + t.Title.Render(clampString(r.Title, width-12)) + " " + t.Dim.Render(r.RecordedAt.Format(time.TimeOnly))

	out := []string{head}
	payload := strings.Split(r.Payload, "\n")
	for i, line := range payload {
		if len(out) >= maxLines {
			out[len(out)-1] = t.Dim.Render("  … " + plural(len(payload)-i+1, "more line"))
			break
		}
		out = append(out, "  "+clampString(line, width-4))
	}
	return out
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
