package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/claude-session-log/internal/parse"
)

var infoLabel = lipgloss.NewStyle().Bold(true)

// Info writes the session header block used by the list preview pane.
// Lines for data the session does not have are left out entirely.
func Info(w io.Writer, s *parse.SessionSummary) {
	line := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", infoLabel.Render(fmt.Sprintf("%-10s", label)), value)
	}
	line("Session:", s.SessionID)
	line("Messages:", fmt.Sprintf("%d", s.MessageCount))
	if s.HasTimestamp() {
		line("Started:", FormatStamp(s.FirstTimestamp))
	}
	if !s.LastTimestamp.IsZero() && !s.LastTimestamp.Equal(s.FirstTimestamp) {
		line("Finished:", FormatStamp(s.LastTimestamp))
	}
	if d := s.DurationSeconds(); d > 0 {
		line("Duration:", FormatDuration(d))
	}
	if s.GitBranch != "" {
		line("Branch:", s.GitBranch)
	}
	if s.HasSummary && s.SummaryText != "" {
		line("Summary:", s.SummaryText)
	}
	if len(s.MatchedTopics) > 0 {
		line("Topics:", strings.Join(s.MatchedTopics, "; "))
	}
}
