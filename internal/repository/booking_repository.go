package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/homestay-booking/internal/model"
)

// BookingRepo provides persistence for bookings. The availability guarantee
// lives here: for a given listing no two bookings in a holding status
// (PENDING or CONFIRMED) may overlap under half-open interval semantics.
// Creation and host acceptance run inside transactions that hold a row lock
// on the listing, collapsing check-then-act into one atomic unit so two
// guests racing for the same dates cannot both succeed.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for multi-repository transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, reference_code, listing_id, listing_title, listing_location,
	guest_id, host_id, check_in, check_out, guests, total_price, platform_fee,
	host_payout, deposit, status, payment_ref, created_at, updated_at`

func scanBooking(scan func(...any) error) (model.Booking, error) {
	var b model.Booking
	err := scan(&b.ID, &b.ReferenceCode, &b.ListingID, &b.ListingTitle, &b.ListingLocation,
		&b.GuestID, &b.HostID, &b.CheckIn, &b.CheckOut, &b.Guests,
		&b.TotalPrice, &b.PlatformFee, &b.HostPayout, &b.Deposit,
		&b.Status, &b.PaymentRef, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// HasConflictTx reports whether any holding booking on the listing overlaps
// the candidate [checkIn, checkOut) range. excludeID, when non-zero, skips
// one booking so an existing reservation can be re-validated during host
// acceptance. Runs inside the caller's transaction so the answer is
// consistent with the lock held on the listing row.
func (r *BookingRepo) HasConflictTx(ctx context.Context, tx *sql.Tx, listingID uint64, checkIn, checkOut time.Time, excludeID uint64) (bool, error) {
	// Half-open overlap: existing.check_in < candidate.check_out AND
	// existing.check_out > candidate.check_in. Same-day turnover (checkout
	// equals the next check-in) does not conflict.
	q := `SELECT COUNT(*) FROM bookings
	      WHERE listing_id = ? AND status IN ('PENDING','CONFIRMED')
	        AND check_in < ? AND check_out > ?`
	args := []any{listingID, checkOut.Format(model.DateLayout), checkIn.Format(model.DateLayout)}
	if excludeID != 0 {
		q += ` AND id <> ?`
		args = append(args, excludeID)
	}
	var n int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateTx inserts a booking within the caller's transaction and populates
// the generated ID and DB-default fields on the record. The caller is
// responsible for having verified availability under the same listing lock.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
		(reference_code, listing_id, listing_title, listing_location, guest_id, host_id,
		 check_in, check_out, guests, total_price, platform_fee, host_payout, deposit,
		 status, payment_ref)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		b.ReferenceCode, b.ListingID, b.ListingTitle, b.ListingLocation, b.GuestID, b.HostID,
		b.CheckIn.Format(model.DateLayout), b.CheckOut.Format(model.DateLayout), b.Guests,
		b.TotalPrice, b.PlatformFee, b.HostPayout, b.Deposit, b.Status, b.PaymentRef)
	if err != nil {
		if isDuplicatePaymentRef(err) {
			return ErrPaymentRefTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	got, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID).Scan)
	if err != nil {
		return err
	}
	*b = got
	return nil
}

// isDuplicatePaymentRef matches MySQL error 1062 on the unique payment_ref
// column.
func isDuplicatePaymentRef(err error) bool {
	return err != nil &&
		strings.Contains(err.Error(), "1062") &&
		strings.Contains(err.Error(), "payment_ref")
}

// CreateViaProcedure invokes the atomic server-side procedure
// process_booking_payment, the preferred path for paid bookings. It returns
// ErrProcedureMissing when the database does not define the procedure so
// the caller can fall back to the in-service guarded insert.
func (r *BookingRepo) CreateViaProcedure(ctx context.Context, b *model.Booking) error {
	const q = `CALL process_booking_payment(?,?,?,?,?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, q,
		b.ListingID, b.GuestID, b.HostID,
		b.CheckIn.Format(model.DateLayout), b.CheckOut.Format(model.DateLayout), b.Guests,
		b.TotalPrice, b.PlatformFee, b.HostPayout, b.PaymentRef, b.Deposit)
	if err != nil {
		// MySQL error 1305: PROCEDURE does not exist.
		if strings.Contains(err.Error(), "1305") {
			return ErrProcedureMissing
		}
		if isDuplicatePaymentRef(err) {
			return ErrPaymentRefTaken
		}
		// The procedure signals a calendar conflict with SIGNAL SQLSTATE '45000'.
		if strings.Contains(err.Error(), "45000") || strings.Contains(strings.ToLower(err.Error()), "conflict") {
			return ErrDatesUnavailable
		}
		return err
	}
	if b.PaymentRef != nil {
		got, err := r.GetByPaymentRef(ctx, *b.PaymentRef)
		if err == nil {
			*b = got
		}
	}
	return nil
}

// GetByID returns a single booking.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id=?`, id).Scan)
	if err == sql.ErrNoRows {
		return b, ErrBookingNotFound
	}
	return b, err
}

// GetByIDTx is GetByID inside a transaction, locking the booking row.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	b, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id=? FOR UPDATE`, id).Scan)
	if err == sql.ErrNoRows {
		return b, ErrBookingNotFound
	}
	return b, err
}

// GetByPaymentRef looks a booking up by its client-supplied payment
// reference. Callers use this for idempotency: a timed-out creation attempt
// must query for an existing booking before re-submitting.
func (r *BookingRepo) GetByPaymentRef(ctx context.Context, ref string) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE payment_ref=? LIMIT 1`, ref).Scan)
	if err == sql.ErrNoRows {
		return b, ErrBookingNotFound
	}
	return b, err
}

// UpdateStatusTx performs the compare-and-set status transition inside the
// caller's transaction. The write is conditional on the current status so
// two simultaneous transitions cannot both apply; the loser gets
// ErrConflict and must re-fetch fresh state.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string) error {
	if !model.CanTransition(from, to) {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status=? WHERE id=? AND status=?`, to, id, from)
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

// UpdateStatus is UpdateStatusTx with its own short transaction, for
// transitions that need no surrounding availability check (cancellations).
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, from, to string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := r.UpdateStatusTx(ctx, tx, id, from, to); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ListByGuest returns a guest's bookings, newest first.
func (r *BookingRepo) ListByGuest(ctx context.Context, guestID uint64) ([]model.Booking, error) {
	return r.list(ctx, `guest_id=?`, guestID)
}

// ListByHost returns bookings across all of a host's listings, newest first.
func (r *BookingRepo) ListByHost(ctx context.Context, hostID uint64) ([]model.Booking, error) {
	return r.list(ctx, `host_id=?`, hostID)
}

// ListByListing returns bookings for one listing, newest first.
func (r *BookingRepo) ListByListing(ctx context.Context, listingID uint64) ([]model.Booking, error) {
	return r.list(ctx, `listing_id=?`, listingID)
}

func (r *BookingRepo) list(ctx context.Context, where string, arg any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE `+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DateRange is one blocked interval on a listing calendar.
type DateRange struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

// BlockedDates returns the date ranges of holding bookings that have not
// yet fully elapsed, for the public calendar endpoint.
func (r *BookingRepo) BlockedDates(ctx context.Context, listingID uint64) ([]DateRange, error) {
	const q = `SELECT check_in, check_out FROM bookings
	           WHERE listing_id = ? AND status IN ('PENDING','CONFIRMED')
	             AND check_out >= CURDATE()
	           ORDER BY check_in`
	rows, err := r.db.QueryContext(ctx, q, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]DateRange, 0)
	for rows.Next() {
		var in, out2 time.Time
		if err := rows.Scan(&in, &out2); err != nil {
			return nil, err
		}
		out = append(out, DateRange{
			CheckIn:  in.Format(model.DateLayout),
			CheckOut: out2.Format(model.DateLayout),
		})
	}
	return out, rows.Err()
}

// TotalEarnedTx sums host payouts over confirmed and completed bookings for
// a host, locking the matched rows. Confirmed bookings count in full even
// before their checkout date; completion is evaluated lazily and does not
// change the payout amount.
func (r *BookingRepo) TotalEarnedTx(ctx context.Context, tx *sql.Tx, hostID uint64) (int64, error) {
	const q = `SELECT COALESCE(SUM(host_payout),0) FROM bookings
	           WHERE host_id = ? AND status IN ('CONFIRMED','COMPLETED') FOR UPDATE`
	var total int64
	err := tx.QueryRowContext(ctx, q, hostID).Scan(&total)
	return total, err
}

// TotalEarned is TotalEarnedTx without a surrounding transaction, used for
// the read-only balance endpoint.
func (r *BookingRepo) TotalEarned(ctx context.Context, hostID uint64) (int64, error) {
	const q = `SELECT COALESCE(SUM(host_payout),0) FROM bookings
	           WHERE host_id = ? AND status IN ('CONFIRMED','COMPLETED')`
	var total int64
	err := r.db.QueryRowContext(ctx, q, hostID).Scan(&total)
	return total, err
}
