package model

import "time"

// Conversation threads guest/host messages about one listing. It is created
// lazily on the first message between the pair; at most one conversation
// exists per (listing, guest, host) triple.
type Conversation struct {
	ID        uint64    // conversations.id
	ListingID uint64    // conversations.listing_id
	GuestID   uint64    // conversations.guest_id
	HostID    uint64    // conversations.host_id
	CreatedAt time.Time // conversations.created_at
}

// Message is a single chat message within a conversation.
type Message struct {
	ID             uint64    // messages.id
	ConversationID uint64    // messages.conversation_id
	SenderID       uint64    // messages.sender_id
	Body           string    // messages.body
	CreatedAt      time.Time // messages.created_at
}
