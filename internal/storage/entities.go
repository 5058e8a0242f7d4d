package storage

// Message is a persisted chat message as returned to clients
type Message struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Text        string  `json:"text"`
	Timestamp   *string `json:"timestamp"`
	AvatarColor string  `json:"avatar_color"`
}

// NewMessage holds the client supplied fields of a message about to be inserted
type NewMessage struct {
	Username    string
	Text        string
	AvatarColor string
}
