package models

import "time"

type Conversation struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	VetID     int64     `json:"vet_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationView is the denormalized row the conversation list renders.
// It is rebuilt on every fetch; the database stays the source of truth.
type ConversationView struct {
	ConversationID       int64        `json:"conversation_id"`
	CounterpartID        int64        `json:"counterpart_id"`
	CounterpartName      string       `json:"counterpart_name"`
	CounterpartAvatarURL *string      `json:"counterpart_avatar_url"`
	LastMessage          *ChatMessage `json:"last_message,omitempty"`
	UnreadCount          int          `json:"unread_count"`
	LastActivity         time.Time    `json:"last_activity"`
}

// ProfileSummary is the slice of a profile the conversation list needs.
type ProfileSummary struct {
	UserID    int64   `json:"user_id"`
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
