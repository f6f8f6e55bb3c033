package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fx-alert-hub/internal/application/bias"
	biasDomain "fx-alert-hub/internal/domain/bias"
)

// BiasRepo 實作 bias.Repository，按 symbol+session 快取敘述。
type BiasRepo struct {
	db *sql.DB
}

// NewBiasRepo 建立新實例。
func NewBiasRepo(db *sql.DB) *BiasRepo {
	return &BiasRepo{db: db}
}

// Get 取出指定 symbol 在指定時段的敘述；不存在時回傳 bias.ErrNotFound。
func (r *BiasRepo) Get(ctx context.Context, symbol string, session biasDomain.Session) (biasDomain.Record, error) {
	const q = `
SELECT id, symbol, session, narrative, created_at
FROM bias_records
WHERE symbol = $1 AND session = $2;
`
	var rec biasDomain.Record
	err := r.db.QueryRowContext(ctx, q, symbol, string(session)).
		Scan(&rec.ID, &rec.Symbol, &rec.Session, &rec.Narrative, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return biasDomain.Record{}, bias.ErrNotFound
	}
	if err != nil {
		return biasDomain.Record{}, err
	}
	return rec, nil
}

// Save 寫入敘述。同一 symbol+session 重新產生時覆蓋舊值。
func (r *BiasRepo) Save(ctx context.Context, rec biasDomain.Record) (biasDomain.Record, error) {
	const q = `
INSERT INTO bias_records (symbol, session, narrative, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (symbol, session)
DO UPDATE SET narrative = EXCLUDED.narrative, created_at = EXCLUDED.created_at
RETURNING id;
`
	err := r.db.QueryRowContext(ctx, q, rec.Symbol, string(rec.Session), rec.Narrative, rec.CreatedAt).
		Scan(&rec.ID)
	if err != nil {
		return biasDomain.Record{}, err
	}
	return rec, nil
}
