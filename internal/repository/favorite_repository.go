package repository

import (
	"context"
	"database/sql"
)

// FavoriteRepo persists saved listings per user.
type FavoriteRepo struct{ DB *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Toggle adds the listing to the user's favorites, or removes it when
// already present. Returns true when the listing is now a favorite.
func (r *FavoriteRepo) Toggle(ctx context.Context, userID, listingID uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id=? AND listing_id=?`, userID, listingID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO favorites (user_id, listing_id) VALUES (?,?)`, userID, listingID)
	return err == nil, err
}

// ListingIDs returns the listing IDs a user has saved, newest first.
func (r *FavoriteRepo) ListingIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT listing_id FROM favorites WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
