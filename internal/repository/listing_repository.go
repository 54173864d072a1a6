package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/iliyamo/homestay-booking/internal/model"
)

// ListingRepo manages persistence for listings. Amenities, house rules and
// image URLs are stored as JSON arrays in the row. Listings are never hard
// deleted by this repository: an admin delete flips the status to DELETED so
// historical bookings keep a joinable row, and bookings additionally carry
// denormalized display fields.
type ListingRepo struct {
	db *sql.DB
}

func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *ListingRepo) DB() *sql.DB { return r.db }

// ListingFilter narrows a public browse query. Zero values mean "no
// constraint" for the respective field.
type ListingFilter struct {
	Location  string
	MinPrice  int64
	MaxPrice  int64
	MinGuests int
	Limit     int
	Offset    int
}

const listingColumns = `id, host_id, title, description, location, nightly_price, max_guests,
	deposit, amenities, house_rules, images, video_url, status, created_at, updated_at`

func scanListing(scan func(...any) error) (model.Listing, error) {
	var (
		l                             model.Listing
		amenities, houseRules, images sql.NullString
	)
	err := scan(&l.ID, &l.HostID, &l.Title, &l.Description, &l.Location,
		&l.NightlyPrice, &l.MaxGuests, &l.Deposit,
		&amenities, &houseRules, &images, &l.VideoURL,
		&l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return l, err
	}
	l.Amenities = decodeStrings(amenities)
	l.HouseRules = decodeStrings(houseRules)
	l.Images = decodeStrings(images)
	return l, nil
}

func decodeStrings(ns sql.NullString) []string {
	out := []string{}
	if ns.Valid && strings.TrimSpace(ns.String) != "" {
		_ = json.Unmarshal([]byte(ns.String), &out)
	}
	return out
}

func encodeStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// Create inserts a new listing for a host and populates the generated ID
// and DB-default fields on the given model.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	const q = `INSERT INTO listings
		(host_id, title, description, location, nightly_price, max_guests, deposit,
		 amenities, house_rules, images, video_url)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		l.HostID, l.Title, l.Description, l.Location, l.NightlyPrice, l.MaxGuests, l.Deposit,
		encodeStrings(l.Amenities), encodeStrings(l.HouseRules), encodeStrings(l.Images), l.VideoURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	got, err := r.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}
	*l = got
	return nil
}

// GetByID returns a listing regardless of status. Callers that only want
// bookable listings should use GetActive.
func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (model.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id=?`, id).Scan)
	if err == sql.ErrNoRows {
		return l, ErrListingNotFound
	}
	return l, err
}

// GetActive returns a listing only when it is still bookable.
func (r *ListingRepo) GetActive(ctx context.Context, id uint64) (model.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id=? AND status=?`,
		id, model.ListingActive).Scan)
	if err == sql.ErrNoRows {
		return l, ErrListingNotFound
	}
	return l, err
}

// GetActiveTx is GetActive inside an existing transaction, locking the
// listing row FOR UPDATE. The booking-creation and host-acceptance paths use
// this lock to serialize concurrent writers on the same calendar.
func (r *ListingRepo) GetActiveTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Listing, error) {
	l, err := scanListing(tx.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id=? AND status=? FOR UPDATE`,
		id, model.ListingActive).Scan)
	if err == sql.ErrNoRows {
		return l, ErrListingNotFound
	}
	return l, err
}

// Search returns active listings matching the filter, newest first.
func (r *ListingRepo) Search(ctx context.Context, f ListingFilter) ([]model.Listing, error) {
	q := `SELECT ` + listingColumns + ` FROM listings WHERE status=?`
	args := []any{model.ListingActive}
	if f.Location != "" {
		q += ` AND location LIKE ?`
		args = append(args, "%"+f.Location+"%")
	}
	if f.MinPrice > 0 {
		q += ` AND nightly_price >= ?`
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q += ` AND nightly_price <= ?`
		args = append(args, f.MaxPrice)
	}
	if f.MinGuests > 0 {
		q += ` AND max_guests >= ?`
		args = append(args, f.MinGuests)
	}
	q += ` ORDER BY created_at DESC`
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q += ` LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListAll returns listings in every status, newest first. Admin only; the
// public surface goes through Search, which filters to ACTIVE.
func (r *ListingRepo) ListAll(ctx context.Context, limit, offset int) ([]model.Listing, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListByHost returns all listings owned by a host, including deleted ones
// so the host dashboard can show history.
func (r *ListingRepo) ListByHost(ctx context.Context, hostID uint64) ([]model.Listing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE host_id=? ORDER BY created_at DESC`, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a listing. Only the owning host may
// update; a mismatched owner yields ErrForbidden.
func (r *ListingRepo) Update(ctx context.Context, hostID uint64, l *model.Listing) error {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT host_id FROM listings WHERE id=?`, l.ID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return ErrListingNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != hostID {
		return ErrForbidden
	}
	const q = `UPDATE listings SET
		title=?, description=?, location=?, nightly_price=?, max_guests=?, deposit=?,
		amenities=?, house_rules=?, images=?, video_url=?
		WHERE id=?`
	_, err = r.db.ExecContext(ctx, q,
		l.Title, l.Description, l.Location, l.NightlyPrice, l.MaxGuests, l.Deposit,
		encodeStrings(l.Amenities), encodeStrings(l.HouseRules), encodeStrings(l.Images), l.VideoURL,
		l.ID)
	return err
}

// SoftDelete marks a listing DELETED. Admin only; historical bookings keep
// their denormalized listing snapshot.
func (r *ListingRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE listings SET status=? WHERE id=? AND status=?`,
		model.ListingDeleted, id, model.ListingActive)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrListingNotFound
	}
	return nil
}
