package chat

import "time"

// ChatType partitions conversations into the three advisor domains.
type ChatType string

const (
	TypeDiet      ChatType = "diet"
	TypeSkincare  ChatType = "skincare"
	TypeWellbeing ChatType = "wellbeing"
)

// Types lists every recognized chat type.
func Types() []ChatType {
	return []ChatType{TypeDiet, TypeSkincare, TypeWellbeing}
}

// Valid reports whether t is one of the recognized chat types.
func (t ChatType) Valid() bool {
	switch t {
	case TypeDiet, TypeSkincare, TypeWellbeing:
		return true
	}
	return false
}

// Chat is a persisted, typed conversation thread. Messages are kept in
// append order; that order is both the display and the model-context order.
type Chat struct {
	ID        string    `json:"_id" bson:"_id"`
	Owner     Owner     `json:"owner" bson:"userId"`
	ChatType  ChatType  `json:"chatType" bson:"chatType"`
	Title     string    `json:"title" bson:"title"`
	Messages  []Message `json:"messages" bson:"messages"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
