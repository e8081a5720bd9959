package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/claude-session-log/internal/parse"
)

const (
	colorReset   = "\033[0m"
	colorUser    = "\033[36m"       // cyan
	colorAssist  = "\033[37m"       // white
	colorTool    = "\033[38;5;244m" // medium gray
	colorSummary = "\033[33m"       // yellow
)

const (
	labelUser    = "User      "
	labelAssist  = "Assistant "
	labelSummary = "Summary   "
)

type Options struct {
	Color bool
	Width int // wrap width (0 = no wrap)
}

// Session renders a session log for the terminal, one line per
// conversation entry: colored label, wall clock, message text with
// newlines collapsed. Tool invocations and results are dimmed and keep
// the label of the turn they belong to. System records, unrecognized
// records and empty turns are skipped. When the scanner fails mid-file
// everything parsed so far has already been written.
func Session(w io.Writer, path string, opts Options) error {
	writeLine := func(line string) error {
		if opts.Width > 0 {
			for _, l := range wrapLine(line, opts.Width) {
				if _, err := fmt.Fprintln(w, l); err != nil {
					return err
				}
			}
			return nil
		}
		_, err := fmt.Fprintln(w, line)
		return err
	}

	return parse.Stream(path, func(e parse.Entry) error {
		line, ok := formatEntry(e, opts.Color)
		if !ok {
			return nil
		}
		return writeLine(line)
	})
}

func formatEntry(e parse.Entry, color bool) (string, bool) {
	var label, paint, clock, text string
	switch e.Kind {
	case parse.KindUser:
		label, paint = labelUser, colorUser
		clock = FormatClock(e.Timestamp)
		text = e.Text
	case parse.KindAssistant:
		label, paint = labelAssist, colorAssist
		clock = FormatClock(e.Timestamp)
		text = e.Text
	case parse.KindToolUse, parse.KindToolResult:
		label, paint = toolLabel(e), colorTool
		clock = FormatClock(e.Timestamp)
		name := e.ToolName
		if name == "" {
			name = "unknown"
		}
		text = "Tool: " + name
	case parse.KindSummary:
		// summaries carry no wall clock
		label, paint = labelSummary, colorSummary
		clock = strings.Repeat(" ", 8)
		text = e.Text
	default:
		return "", false
	}
	if text == "" {
		return "", false
	}
	text = strings.ReplaceAll(text, "\n", " ")
	if !color {
		return label + clock + "  " + text, true
	}
	return paint + label + clock + "  " + text + colorReset, true
}

// toolLabel picks the turn label for a tool entry: the message role
// when present, otherwise whichever side conventionally emits the kind.
func toolLabel(e parse.Entry) string {
	switch e.Role {
	case "user":
		return labelUser
	case "assistant":
		return labelAssist
	}
	if e.Kind == parse.KindToolResult {
		return labelUser
	}
	return labelAssist
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
