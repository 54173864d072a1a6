package model

import "time"

// Identity verification statuses. Submitted documents wait in PENDING until
// an administrator approves or rejects them.
const (
	VerificationPending  = "PENDING"
	VerificationApproved = "APPROVED"
	VerificationRejected = "REJECTED"
)

// IdentityVerification tracks a user's identity-document submission. The
// document itself lives in the private object-storage bucket; DocumentKey is
// the object key, retrieved via a time-limited presigned URL.
type IdentityVerification struct {
	ID           uint64    // identity_verifications.id
	UserID       uint64    // identity_verifications.user_id
	DocumentType string    // identity_verifications.document_type (e.g. PASSPORT)
	DocumentKey  string    // identity_verifications.document_key
	Status       string    // identity_verifications.status
	Note         *string   // identity_verifications.note (admin comment, nullable)
	ReviewedBy   *uint64   // identity_verifications.reviewed_by (nullable)
	CreatedAt    time.Time // identity_verifications.created_at
	UpdatedAt    time.Time // identity_verifications.updated_at
}
