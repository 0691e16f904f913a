package domain

// Message roles in the chat conversation.
const (
	RoleUser   = "user"
	RoleOracle = "oracle"
)

// Message is one turn of the oracle chat. Content is encrypted at rest;
// chat rows are exempt from the daily-regeneration policy.
type Message struct {
	ID           string `json:"id"`
	UserIDHash   string `json:"-"`
	Role         string `json:"role"`
	Content      string `json:"content"`
	ContentBrief string `json:"content_brief,omitempty"`
	Stamp        Stamp  `json:"stamp"`
}
