package entities

// IncomingMessage is one text message decoded from a Telegram update
type IncomingMessage struct {
	ChatID   int64
	UserID   int64
	Username string
	Text     string
}

// Reply is what the bot sends back for a single dialogue turn
type Reply struct {
	Text     string
	Keyboard [][]string // Fixed reply-keyboard layout, nil for plain text
}

// HasKeyboard reports whether the reply carries a keyboard layout
func (r Reply) HasKeyboard() bool {
	return len(r.Keyboard) > 0
}
