package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/homestay-booking/internal/model"
	"github.com/iliyamo/homestay-booking/internal/pricing"
)

// PayoutRepo persists payout requests and saved payout methods. Request
// creation runs inside a transaction that locks the host's earnings and
// withdrawal rows, so the invariant "pending + paid requests never exceed
// the computed available balance at request time" holds under concurrent
// submissions: a pending request reserves its amount immediately.
type PayoutRepo struct {
	db       *sql.DB
	bookings *BookingRepo
}

func NewPayoutRepo(db *sql.DB, bookings *BookingRepo) *PayoutRepo {
	return &PayoutRepo{db: db, bookings: bookings}
}

const payoutColumns = `id, host_id, amount, bank_name, account_name, account_number, status, created_at, updated_at`

func scanPayout(scan func(...any) error) (model.PayoutRequest, error) {
	var p model.PayoutRequest
	err := scan(&p.ID, &p.HostID, &p.Amount, &p.BankName, &p.AccountName,
		&p.AccountNumber, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// TotalWithdrawnTx sums pending and paid payout requests for a host,
// locking the matched rows for the duration of the transaction.
func (r *PayoutRepo) TotalWithdrawnTx(ctx context.Context, tx *sql.Tx, hostID uint64) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM payout_requests
	           WHERE host_id = ? AND status IN ('PENDING','PAID') FOR UPDATE`
	var total int64
	err := tx.QueryRowContext(ctx, q, hostID).Scan(&total)
	return total, err
}

// TotalWithdrawn is the read-only variant for the balance endpoint.
func (r *PayoutRepo) TotalWithdrawn(ctx context.Context, hostID uint64) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM payout_requests
	           WHERE host_id = ? AND status IN ('PENDING','PAID')`
	var total int64
	err := r.db.QueryRowContext(ctx, q, hostID).Scan(&total)
	return total, err
}

// CreateRequest validates the amount against the host's available balance
// and inserts the request, all inside one transaction. The balance is
// recomputed under row locks so two concurrent requests cannot both draw on
// the same funds; pricing.ValidateWithdrawal enforces the minimum threshold
// and the balance bound.
func (r *PayoutRepo) CreateRequest(ctx context.Context, p *model.PayoutRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	earned, err := r.bookings.TotalEarnedTx(ctx, tx, p.HostID)
	if err != nil {
		return err
	}
	withdrawn, err := r.TotalWithdrawnTx(ctx, tx, p.HostID)
	if err != nil {
		return err
	}
	available := pricing.AvailableBalance(earned, withdrawn)
	if err := pricing.ValidateWithdrawal(p.Amount, available); err != nil {
		return err
	}

	const q = `INSERT INTO payout_requests
		(host_id, amount, bank_name, account_name, account_number, status)
		VALUES (?,?,?,?,?,'PENDING')`
	res, err := tx.ExecContext(ctx, q,
		p.HostID, p.Amount, p.BankName, p.AccountName, p.AccountNumber)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	got, err := scanPayout(tx.QueryRowContext(ctx,
		`SELECT `+payoutColumns+` FROM payout_requests WHERE id=?`, p.ID).Scan)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*p = got
	return nil
}

// GetByID returns a single payout request.
func (r *PayoutRepo) GetByID(ctx context.Context, id uint64) (model.PayoutRequest, error) {
	return scanPayout(r.db.QueryRowContext(ctx,
		`SELECT `+payoutColumns+` FROM payout_requests WHERE id=?`, id).Scan)
}

// ListByHost returns a host's payout requests, newest first.
func (r *PayoutRepo) ListByHost(ctx context.Context, hostID uint64) ([]model.PayoutRequest, error) {
	return r.listRequests(ctx,
		`SELECT `+payoutColumns+` FROM payout_requests WHERE host_id=? ORDER BY created_at DESC`, hostID)
}

// ListByStatus returns payout requests in a given status for the admin
// queue, oldest first so requests are processed in submission order.
func (r *PayoutRepo) ListByStatus(ctx context.Context, status string) ([]model.PayoutRequest, error) {
	return r.listRequests(ctx,
		`SELECT `+payoutColumns+` FROM payout_requests WHERE status=? ORDER BY created_at ASC`, status)
}

func (r *PayoutRepo) listRequests(ctx context.Context, q string, arg any) ([]model.PayoutRequest, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PayoutRequest, 0)
	for rows.Next() {
		p, err := scanPayout(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateStatus moves a PENDING request to PAID or REJECTED with a
// compare-and-set write. Administrator only; the loser of a concurrent
// update gets ErrConflict.
func (r *PayoutRepo) UpdateStatus(ctx context.Context, id uint64, to string) error {
	if !model.CanTransitionPayout(model.PayoutPending, to) {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE payout_requests SET status=? WHERE id=? AND status=?`,
		to, id, model.PayoutPending)
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

// --- payout methods -------------------------------------------------------

const methodColumns = `id, host_id, bank_name, account_name, account_number, is_default, created_at`

// CreateMethod saves a bank destination for a host. When marked default it
// clears the flag on the host's other methods first.
func (r *PayoutRepo) CreateMethod(ctx context.Context, m *model.PayoutMethod) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if m.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE payout_methods SET is_default=0 WHERE host_id=?`, m.HostID); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payout_methods (host_id, bank_name, account_name, account_number, is_default)
		 VALUES (?,?,?,?,?)`,
		m.HostID, m.BankName, m.AccountName, m.AccountNumber, m.IsDefault)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetMethodForHost returns one payout method, enforcing ownership.
func (r *PayoutRepo) GetMethodForHost(ctx context.Context, id, hostID uint64) (model.PayoutMethod, error) {
	var m model.PayoutMethod
	err := r.db.QueryRowContext(ctx,
		`SELECT `+methodColumns+` FROM payout_methods WHERE id=?`, id).
		Scan(&m.ID, &m.HostID, &m.BankName, &m.AccountName, &m.AccountNumber, &m.IsDefault, &m.CreatedAt)
	if err != nil {
		return m, err
	}
	if m.HostID != hostID {
		return model.PayoutMethod{}, ErrForbidden
	}
	return m, nil
}

// ListMethods returns a host's saved payout methods, default first.
func (r *PayoutRepo) ListMethods(ctx context.Context, hostID uint64) ([]model.PayoutMethod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+methodColumns+` FROM payout_methods WHERE host_id=? ORDER BY is_default DESC, created_at DESC`,
		hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PayoutMethod, 0)
	for rows.Next() {
		var m model.PayoutMethod
		if err := rows.Scan(&m.ID, &m.HostID, &m.BankName, &m.AccountName,
			&m.AccountNumber, &m.IsDefault, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMethod removes a payout method owned by the host.
func (r *PayoutRepo) DeleteMethod(ctx context.Context, id, hostID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM payout_methods WHERE id=? AND host_id=?`, id, hostID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
