package parse

import (
	"encoding/json"
	"strings"
	"time"
)

// Kind classifies one entry of a session log.
type Kind string

const (
	KindUser       Kind = "user"
	KindAssistant  Kind = "assistant"
	KindSummary    Kind = "summary"
	KindSystem     Kind = "system"
	KindToolUse    Kind = "tool_use"
	KindToolResult Kind = "tool_result"
	KindUnknown    Kind = "unknown"
)

// Entry is one renderable unit. Every decoded record yields exactly one
// record-level entry; each tool_use or tool_result content block yields
// one sub-entry after it, in content order.
type Entry struct {
	Kind      Kind
	Role      string // message role, kept on tool sub-entries
	Timestamp time.Time
	Text      string
	ToolName  string          // tool name, or tool_use_id for results
	ToolInput json.RawMessage // tool_use input object
	UUID      string
	LeafUUID  string
	GitBranch string
	RawIndex  int // 1-based line number
}

type rawRecord struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	UUID      string          `json:"uuid"`
	LeafUUID  string          `json:"leafUuid"`
	GitBranch string          `json:"gitBranch"`
	Summary   string          `json:"summary"`
	Message   json.RawMessage `json:"message"`
}

type rawMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content"`
}

// ClassifyLine decodes one log line into entries. Malformed JSON is
// returned as an error for the caller to skip; any valid JSON object
// classifies to at least one entry.
func ClassifyLine(line []byte, lineNo int) ([]Entry, error) {
	var rec rawRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, err
	}

	var msg rawMessage
	if len(rec.Message) > 0 {
		// a broken message body still leaves a usable record shell
		_ = json.Unmarshal(rec.Message, &msg)
	}

	head := Entry{
		Kind:      classify(rec.Type, rec.Summary, msg.Role),
		Role:      msg.Role,
		Timestamp: parseTimestamp(rec.Timestamp),
		UUID:      rec.UUID,
		LeafUUID:  rec.LeafUUID,
		GitBranch: rec.GitBranch,
		RawIndex:  lineNo,
	}

	if head.Kind == KindSummary {
		head.Text = rec.Summary
		return []Entry{head}, nil
	}

	text, tools := splitContent(msg.Content)
	head.Text = text
	entries := make([]Entry, 0, 1+len(tools))
	entries = append(entries, head)
	for _, b := range tools {
		sub := Entry{
			Role:      msg.Role,
			Timestamp: head.Timestamp,
			UUID:      rec.UUID,
			RawIndex:  lineNo,
		}
		switch b.Type {
		case "tool_use":
			sub.Kind = KindToolUse
			sub.ToolName = b.Name
			sub.ToolInput = b.Input
		case "tool_result":
			sub.Kind = KindToolResult
			sub.ToolName = b.ToolUseID
			sub.Text = blockText(b.Content)
		}
		entries = append(entries, sub)
	}
	return entries, nil
}

// classify applies the discriminators in priority order: a summary field
// without a chat role wins, then the type field, then the message role
// when no type is present at all. Unrecognized types stay unknown.
func classify(typ, summary, role string) Kind {
	if summary != "" && role == "" {
		return KindSummary
	}
	switch typ {
	case "summary":
		return KindSummary
	case "user":
		return KindUser
	case "assistant":
		return KindAssistant
	case "system":
		return KindSystem
	case "":
		switch role {
		case "user":
			return KindUser
		case "assistant":
			return KindAssistant
		case "system":
			return KindSystem
		}
	}
	return KindUnknown
}

// splitContent returns the text of a message body plus its tool blocks.
// String bodies are used as-is; array bodies concatenate text blocks
// and surface tool blocks in order, skipping thinking/image parts.
func splitContent(content json.RawMessage) (string, []contentBlock) {
	if len(content) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var blocks []contentBlock
	if err := json.Unmarshal(content, &blocks); err != nil {
		return "", nil
	}
	var texts []string
	var tools []contentBlock
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if b.Text != "" {
				texts = append(texts, b.Text)
			}
		case "tool_use", "tool_result":
			tools = append(tools, b)
		}
	}
	return strings.TrimSpace(strings.Join(texts, "\n")), tools
}

// blockText extracts the text of a tool_result payload, which is either
// a plain string or a nested block array.
func blockText(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var blocks []contentBlock
	if err := json.Unmarshal(content, &blocks); err != nil {
		return ""
	}
	var texts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			texts = append(texts, b.Text)
		}
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	// try RFC3339
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	// try RFC3339Nano
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	// try ISO8601 without timezone
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
