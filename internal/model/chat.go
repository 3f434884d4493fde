package model

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single entry of a conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatTurn is the server's reply to one advance of a conversation.
// History, when non-empty, is authoritative and replaces the local copy.
type ChatTurn struct {
	Response string        `json:"response"`
	History  []ChatMessage `json:"conversation_history"`

	// Loadout is only sent by the credit advisor.
	Loadout *Loadout `json:"current_loadout,omitempty"`
}

// CloneMessages returns an independent copy of msgs.
func CloneMessages(msgs []ChatMessage) []ChatMessage {
	if msgs == nil {
		return nil
	}
	out := make([]ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}
