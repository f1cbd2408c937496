package core

// Conversation roles. The shared history uses a three-role taxonomy: system
// framing, customer utterances and agent utterances. Provider-level roles
// (assistant/tool) are a rendering concern and never appear here.
const (
	RoleSystem = "system"
	RoleUser   = "user"
	RoleAgent  = "agent"
)

// Message is a single entry in the shared conversation history. Messages are
// immutable once appended; the orchestrator is the only writer.
type Message struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	Sender    string           `json:"sender"`
	ToolCalls []ToolCallRecord `json:"tool_calls,omitempty"`
}

// NewSystemMessage creates a system framing message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content, Sender: "system"}
}

// NewUserMessage creates a customer message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, Sender: "user"}
}
