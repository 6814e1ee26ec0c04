// Package chat holds the conversation message model shared by the
// classifier, composer and session store.
package chat

import (
	"fmt"
	"strings"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation. Content is always text; structured
// replies are rendered before they are stored.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Window returns a copy of the last k messages of history.
func Window(history []Message, k int) []Message {
	if k <= 0 || len(history) == 0 {
		return nil
	}
	start := max(0, len(history)-k)
	out := make([]Message, len(history)-start)
	copy(out, history[start:])
	return out
}

// Transcript renders messages as "User: ..." / "Assistant: ..." lines.
func Transcript(messages []Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		speaker := "User"
		if m.Role == RoleAssistant {
			speaker = "Assistant"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, m.Content))
	}
	return strings.Join(lines, "\n")
}
