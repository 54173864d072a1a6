package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/homestay-booking/internal/model"
)

// ConversationRepo persists guest/host conversations and their messages. A
// conversation is created lazily on the first message about a listing; the
// (listing_id, guest_id) pair is unique.
type ConversationRepo struct{ DB *sql.DB }

func NewConversationRepo(db *sql.DB) *ConversationRepo { return &ConversationRepo{DB: db} }

// GetOrCreate returns the conversation for (listing, guest, host), creating
// it when absent.
func (r *ConversationRepo) GetOrCreate(ctx context.Context, listingID, guestID, hostID uint64) (model.Conversation, error) {
	var c model.Conversation
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, listing_id, guest_id, host_id, created_at
		 FROM conversations WHERE listing_id=? AND guest_id=? LIMIT 1`,
		listingID, guestID).Scan(&c.ID, &c.ListingID, &c.GuestID, &c.HostID, &c.CreatedAt)
	if err == nil {
		return c, nil
	}
	if err != sql.ErrNoRows {
		return c, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO conversations (listing_id, guest_id, host_id) VALUES (?,?,?)`,
		listingID, guestID, hostID)
	if err != nil {
		return c, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return c, err
	}
	c = model.Conversation{ID: uint64(id), ListingID: listingID, GuestID: guestID, HostID: hostID}
	return c, nil
}

// GetForUser returns a conversation only when the caller is a participant.
func (r *ConversationRepo) GetForUser(ctx context.Context, id, userID uint64) (model.Conversation, error) {
	var c model.Conversation
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, listing_id, guest_id, host_id, created_at FROM conversations WHERE id=?`,
		id).Scan(&c.ID, &c.ListingID, &c.GuestID, &c.HostID, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	if c.GuestID != userID && c.HostID != userID {
		return model.Conversation{}, ErrForbidden
	}
	return c, nil
}

// ListForUser returns all conversations the user participates in, most
// recently active first.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Conversation, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT c.id, c.listing_id, c.guest_id, c.host_id, c.created_at
		 FROM conversations c
		 LEFT JOIN messages m ON m.conversation_id = c.id
		 WHERE c.guest_id=? OR c.host_id=?
		 GROUP BY c.id
		 ORDER BY COALESCE(MAX(m.created_at), c.created_at) DESC`,
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Conversation, 0)
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(&c.ID, &c.ListingID, &c.GuestID, &c.HostID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddMessage appends a message to a conversation.
func (r *ConversationRepo) AddMessage(ctx context.Context, m *model.Message) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, sender_id, body) VALUES (?,?,?)`,
		m.ConversationID, m.SenderID, m.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListMessages returns a conversation's messages oldest first, so clients
// can fold ordered insert events into the same view.
func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID uint64) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, conversation_id, sender_id, body, created_at
		 FROM messages WHERE conversation_id=? ORDER BY created_at ASC`,
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
