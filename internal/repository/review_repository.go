package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/homestay-booking/internal/model"
)

// ErrAlreadyReviewed indicates the booking already has a review.
var ErrAlreadyReviewed = errors.New("booking already reviewed")

// ReviewRepo persists listing reviews. One review per booking, enforced by
// a unique index on booking_id.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// Create inserts a review.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO reviews (listing_id, booking_id, guest_id, rating, comment)
		 VALUES (?,?,?,?,?)`,
		rv.ListingID, rv.BookingID, rv.GuestID, rv.Rating, rv.Comment)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAlreadyReviewed
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// ListByListing returns a listing's reviews, newest first.
func (r *ReviewRepo) ListByListing(ctx context.Context, listingID uint64) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, listing_id, booking_id, guest_id, rating, comment, created_at
		 FROM reviews WHERE listing_id=? ORDER BY created_at DESC`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.ListingID, &rv.BookingID, &rv.GuestID,
			&rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// AverageRating returns a listing's mean rating and review count.
func (r *ReviewRepo) AverageRating(ctx context.Context, listingID uint64) (float64, int, error) {
	var (
		avg sql.NullFloat64
		cnt int
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT AVG(rating), COUNT(*) FROM reviews WHERE listing_id=?`, listingID).Scan(&avg, &cnt)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, cnt, nil
}
