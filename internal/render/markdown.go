package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zuo-Peng/claude-session-log/internal/parse"
)

type MarkdownOptions struct {
	// FilterEmpty drops conversation sections whose text is blank and
	// whose tool blocks carry no input or output. The Messages count in
	// the document header reflects what was actually emitted.
	FilterEmpty bool
}

// Markdown renders a session log as a Markdown document: a header with
// the session id, date and message count, then one section per record
// in file order. Summary records never become sections; system and
// unrecognized records only do when they carry text.
func Markdown(path string, opts MarkdownOptions) (string, error) {
	id := strings.TrimSuffix(filepath.Base(path), ".jsonl")

	var sections []string
	var messages int
	var date time.Time

	err := parse.StreamRecords(path, func(entries []parse.Entry) error {
		head := entries[0]
		if date.IsZero() && !head.Timestamp.IsZero() {
			date = head.Timestamp
		}
		switch head.Kind {
		case parse.KindUser, parse.KindAssistant:
			sec, substantive := turnSection(entries)
			if opts.FilterEmpty && !substantive {
				return nil
			}
			messages++
			sections = append(sections, sec)
		case parse.KindSystem, parse.KindUnknown:
			if sec := noteSection(head); sec != "" {
				sections = append(sections, sec)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Claude Code Session %s\n\n", id)
	if !date.IsZero() {
		fmt.Fprintf(&b, "**Date**: %s\n", date.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "**Messages**: %d\n\n", messages)
	for _, sec := range sections {
		b.WriteString(sec)
	}
	return b.String(), nil
}

// turnSection builds the section for one user or assistant record and
// reports whether it carries any substance: turn text, tool input, or
// tool output.
func turnSection(entries []parse.Entry) (string, bool) {
	head := entries[0]
	label := "User"
	if head.Kind == parse.KindAssistant {
		label = "Assistant"
	}

	var b strings.Builder
	substantive := false
	fmt.Fprintf(&b, "## %s (%s)\n\n", label, FormatClock(head.Timestamp))
	if text := strings.TrimSpace(head.Text); text != "" {
		b.WriteString(text)
		b.WriteString("\n\n")
		substantive = true
	}
	for _, e := range entries[1:] {
		switch e.Kind {
		case parse.KindToolUse:
			name := e.ToolName
			if name == "" {
				name = "unknown"
			}
			fmt.Fprintf(&b, "### Tool: %s\n\n", name)
			if in := indentJSON(e.ToolInput); in != "" {
				fmt.Fprintf(&b, "```json\n%s\n```\n\n", in)
			}
			if !emptyJSONValue(e.ToolInput) {
				substantive = true
			}
		case parse.KindToolResult:
			b.WriteString("### Tool Result\n\n")
			if text := strings.TrimSpace(e.Text); text != "" {
				fmt.Fprintf(&b, "```\n%s\n```\n\n", text)
				substantive = true
			}
		}
	}
	return b.String(), substantive
}

// noteSection renders a system or unknown record, or "" when there is
// nothing to show.
func noteSection(e parse.Entry) string {
	text := strings.TrimSpace(e.Text)
	if text == "" {
		return ""
	}
	label := "System"
	if e.Kind == parse.KindUnknown {
		label = "Unknown"
	}
	return fmt.Sprintf("## %s\n\n```text\n%s\n```\n\n", label, text)
}

func indentJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return strings.TrimSpace(string(raw))
	}
	s := buf.String()
	if s == "null" {
		return ""
	}
	return s
}

// emptyJSONValue reports whether a raw value carries no meaningful
// payload: absent, null, or an empty object/array/string.
func emptyJSONValue(raw json.RawMessage) bool {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return len(bytes.TrimSpace(raw)) == 0
	}
	switch buf.String() {
	case "", "null", "{}", "[]", `""`:
		return true
	}
	return false
}
