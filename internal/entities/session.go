package entities

import "time"

// Session is the per-chat conversation state.
// An empty Category means the chat is waiting for a category choice.
type Session struct {
	ChatID    int64     `json:"chat_id"`
	Category  string    `json:"category"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AwaitingValue reports whether a category has been chosen
func (s Session) AwaitingValue() bool {
	return s.Category != ""
}
