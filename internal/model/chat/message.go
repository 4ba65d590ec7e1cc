package chat

import "time"

// Message senders. The core only ever writes these two values.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Message is one turn in a Chat, authored by either the user or the AI.
type Message struct {
	ID        string    `json:"id" bson:"id"`
	Text      string    `json:"text" bson:"text"`
	Sender    string    `json:"sender" bson:"sender"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
