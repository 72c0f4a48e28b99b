package chat

// Message roles follow the chat-completion convention shared by the
// Anthropic and OpenAI-compatible APIs.
const (
	RoleUser      = "user"      // Player party
	RoleAssistant = "assistant" // Narrative Oracle
	RoleSystem    = "system"    // Rules and state context
)

// Message is a single message in an Oracle conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
