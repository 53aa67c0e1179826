package assistant

import (
	"context"
	"strings"
	"sync"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type Message struct {
	Role Role
	Text string
}

// Conversation accumulates the chat transcript. History survives failed
// generations; only the canned reply is appended.
type Conversation struct {
	bridge *Bridge

	mu       sync.Mutex
	messages []Message
}

func NewConversation(bridge *Bridge) *Conversation {
	return &Conversation{
		bridge:   bridge,
		messages: []Message{{Role: RoleBot, Text: Greeting}},
	}
}

// Send relays a prompt and returns the assistant's reply. Without an
// authenticated user the prompt is refused before leaving the process and
// only the denial lands in the transcript.
func (c *Conversation) Send(ctx context.Context, prompt string, sctx SessionContext) string {
	if strings.TrimSpace(prompt) == "" {
		return ""
	}

	if sctx.User == nil {
		c.append(Message{Role: RoleBot, Text: MsgAuthRequired})
		return MsgAuthRequired
	}

	c.append(Message{Role: RoleUser, Text: prompt})
	reply := c.bridge.Generate(ctx, prompt, sctx)
	c.append(Message{Role: RoleBot, Text: reply})
	return reply
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) append(m Message) {
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
}
