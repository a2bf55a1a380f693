package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// StreamRequest contains the parameters for a streaming completion.
type StreamRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// PromptRequest wraps a single user prompt behind the blog writer system
// message.
func PromptRequest(prompt string) StreamRequest {
	return StreamRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "You are a professional blog writer. Answer in Markdown."},
			{Role: RoleUser, Content: prompt},
		},
		Temperature: 0.7,
	}
}
