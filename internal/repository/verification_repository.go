package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/homestay-booking/internal/model"
)

// ErrVerificationPending indicates the user already has a submission
// awaiting review.
var ErrVerificationPending = errors.New("verification already pending")

// VerificationRepo persists identity-verification submissions. The document
// itself lives in the private object-storage bucket; rows carry only the
// object key.
type VerificationRepo struct{ DB *sql.DB }

func NewVerificationRepo(db *sql.DB) *VerificationRepo { return &VerificationRepo{DB: db} }

const verificationColumns = `id, user_id, document_type, document_key, status, note, reviewed_by, created_at, updated_at`

func scanVerification(scan func(...any) error) (model.IdentityVerification, error) {
	var v model.IdentityVerification
	err := scan(&v.ID, &v.UserID, &v.DocumentType, &v.DocumentKey, &v.Status,
		&v.Note, &v.ReviewedBy, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

// Submit inserts a new PENDING submission unless one is already waiting.
func (r *VerificationRepo) Submit(ctx context.Context, v *model.IdentityVerification) error {
	var pending int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM identity_verifications WHERE user_id=? AND status='PENDING'`,
		v.UserID).Scan(&pending)
	if err != nil {
		return err
	}
	if pending > 0 {
		return ErrVerificationPending
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO identity_verifications (user_id, document_type, document_key, status)
		 VALUES (?,?,?,'PENDING')`,
		v.UserID, v.DocumentType, v.DocumentKey)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	v.Status = model.VerificationPending
	return nil
}

// LatestForUser returns the user's most recent submission.
func (r *VerificationRepo) LatestForUser(ctx context.Context, userID uint64) (model.IdentityVerification, error) {
	return scanVerification(r.DB.QueryRowContext(ctx,
		`SELECT `+verificationColumns+` FROM identity_verifications
		 WHERE user_id=? ORDER BY created_at DESC LIMIT 1`, userID).Scan)
}

// GetByID returns one submission for admin review.
func (r *VerificationRepo) GetByID(ctx context.Context, id uint64) (model.IdentityVerification, error) {
	return scanVerification(r.DB.QueryRowContext(ctx,
		`SELECT `+verificationColumns+` FROM identity_verifications WHERE id=?`, id).Scan)
}

// ListPending returns submissions awaiting review, oldest first.
func (r *VerificationRepo) ListPending(ctx context.Context) ([]model.IdentityVerification, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+verificationColumns+` FROM identity_verifications
		 WHERE status='PENDING' ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.IdentityVerification, 0)
	for rows.Next() {
		v, err := scanVerification(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Review moves a PENDING submission to APPROVED or REJECTED with a
// compare-and-set write, recording the reviewing admin and optional note.
func (r *VerificationRepo) Review(ctx context.Context, id, adminID uint64, status string, note *string) error {
	if status != model.VerificationApproved && status != model.VerificationRejected {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE identity_verifications SET status=?, note=?, reviewed_by=?
		 WHERE id=? AND status='PENDING'`,
		status, note, adminID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
