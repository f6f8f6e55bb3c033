package postgres

import (
	"context"
	"database/sql"
	"time"

	"fx-alert-hub/internal/application/alerts"
	alertDomain "fx-alert-hub/internal/domain/alert"
)

// AlertRepo 實作 alerts.Repository 與 monitor.AlertStore，使用 Postgres 儲存。
type AlertRepo struct {
	db *sql.DB
}

// NewAlertRepo 建立新實例。
func NewAlertRepo(db *sql.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

const alertColumns = `id, symbol, tv_symbol, api_symbol, category, note, threshold, direction, status, expires_at, triggered_at, created_at`

// ListEligible 回傳 active 且以 now 為基準未過期的警報。
func (r *AlertRepo) ListEligible(ctx context.Context, now time.Time) ([]alertDomain.Alert, error) {
	const q = `
SELECT ` + alertColumns + `
FROM alerts
WHERE status = 'active' AND (expires_at IS NULL OR expires_at >= $1)
ORDER BY id;
`
	rows, err := r.db.QueryContext(ctx, q, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// Transition 將單筆警報 active→triggered。WHERE 同時鎖定 id 與 status，
// 使重疊輪次的第二次嘗試成為 no-op：回傳 false 而非錯誤。
func (r *AlertRepo) Transition(ctx context.Context, id int64, triggeredAt time.Time) (bool, error) {
	const q = `
UPDATE alerts
SET status = 'triggered', triggered_at = $2
WHERE id = $1 AND status = 'active';
`
	res, err := r.db.ExecContext(ctx, q, id, triggeredAt)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// List 依條件列出警報，排序與儀表板一致：active 在前、新建在前。
func (r *AlertRepo) List(ctx context.Context, filter alerts.Filter) ([]alertDomain.Alert, error) {
	q := `
SELECT ` + alertColumns + `
FROM alerts
`
	args := []interface{}{}
	if filter.Status != "" {
		q += "WHERE status = $1\n"
		args = append(args, string(filter.Status))
	}
	q += "ORDER BY status ASC, created_at DESC;"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// Create 建立警報，status 一律 active。
func (r *AlertRepo) Create(ctx context.Context, a alertDomain.Alert) (alertDomain.Alert, error) {
	const q = `
INSERT INTO alerts (symbol, tv_symbol, api_symbol, category, note, threshold, direction, status, expires_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,'active',$8)
RETURNING id, created_at;
`
	var expires sql.NullTime
	if a.ExpiresAt != nil {
		expires = sql.NullTime{Time: *a.ExpiresAt, Valid: true}
	}
	if err := r.db.QueryRowContext(ctx, q,
		a.Symbol, a.TVSymbol, a.APISymbol, string(a.Category), a.Note,
		a.Threshold, string(a.Direction), expires,
	).Scan(&a.ID, &a.CreatedAt); err != nil {
		return alertDomain.Alert{}, err
	}
	a.Status = alertDomain.StatusActive
	return a, nil
}

// UpdateStatus 更新狀態與 triggered_at，供外部 API 層使用。
func (r *AlertRepo) UpdateStatus(ctx context.Context, id int64, status alertDomain.Status, triggeredAt *time.Time) error {
	const q = `
UPDATE alerts
SET status = $2, triggered_at = COALESCE($3, triggered_at)
WHERE id = $1;
`
	var at sql.NullTime
	if triggeredAt != nil {
		at = sql.NullTime{Time: *triggeredAt, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q, id, string(status), at)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete 刪除警報。
func (r *AlertRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanAlerts(rows *sql.Rows) ([]alertDomain.Alert, error) {
	out := []alertDomain.Alert{}
	for rows.Next() {
		var a alertDomain.Alert
		var category, direction, status string
		var expiresAt, triggeredAt sql.NullTime
		if err := rows.Scan(
			&a.ID, &a.Symbol, &a.TVSymbol, &a.APISymbol, &category, &a.Note,
			&a.Threshold, &direction, &status, &expiresAt, &triggeredAt, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		a.Category = alertDomain.Category(category)
		a.Direction = alertDomain.Direction(direction)
		a.Status = alertDomain.Status(status)
		if expiresAt.Valid {
			t := expiresAt.Time
			a.ExpiresAt = &t
		}
		if triggeredAt.Valid {
			t := triggeredAt.Time
			a.TriggeredAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
