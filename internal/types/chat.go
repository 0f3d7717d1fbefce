package types

// Role identifies the author of a chat message
type Role string

// Chat roles, matching the generative API's role names
const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one entry of the append-only conversation log
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a message authored by the user.
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// ModelMessage builds a message authored by the model.
func ModelMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleModel, Content: content}
}

// Window returns a copy of the trailing n messages of msgs (all of them when n <= 0 or n >= len).
func Window(msgs []ChatMessage, n int) []ChatMessage {
	start := 0
	if n > 0 && len(msgs) > n {
		start = len(msgs) - n
	}
	out := make([]ChatMessage, len(msgs)-start)
	copy(out, msgs[start:])
	return out
}
