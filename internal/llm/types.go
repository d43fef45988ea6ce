package llm

// Role marks who authored a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of an oracle conversation: the protocol persona
// (system), the visitor (user), or a prior reply (assistant).
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest carries one oracle call to a provider. JSONMode asks
// the backend for a structured reply; the upload describer relies on it.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse is the provider's reply plus usage accounting.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}
