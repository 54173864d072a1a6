package model

import "time"

// Roles recognised by the JWT role claim. Guests book stays, hosts publish
// listings and withdraw earnings, admins review payouts and verifications.
const (
	RoleGuest = "GUEST"
	RoleHost  = "HOST"
	RoleAdmin = "ADMIN"
)

// User represents an application user record as stored in the `users`
// table. Profile fields (full name, phone, avatar) live on the same row;
// handlers define separate response types with JSON tags where needed.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (GUEST, HOST or ADMIN).
//  FullName     – display name shown on listings and chats.
//  Phone        – contact phone number (optional).
//  AvatarURL    – public object-storage URL of the avatar (optional).
//  IsVerified   – whether identity verification has been approved.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	FullName     string    // users.full_name
	Phone        *string   // users.phone (nullable)
	AvatarURL    *string   // users.avatar_url (nullable)
	IsVerified   bool      // users.is_verified
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each refresh
// token belongs to a user; only the SHA-256 hash of the raw token is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
