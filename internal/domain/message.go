package domain

// Message is one turn of conversation. Messages are append-only: once
// written they are never mutated or deleted, and the total order is the
// insertion order.
type Message struct {
	ID        MessageID
	UserID    UserID
	Direction Direction
	Text      string

	// MediaURLs holds image URLs attached to the message (for example
	// Messenger photo attachments). They are part of the LLM context so
	// Sara can use freshly sent photos when calling report tools.
	MediaURLs []string

	CreatedAt Timestamp
}
