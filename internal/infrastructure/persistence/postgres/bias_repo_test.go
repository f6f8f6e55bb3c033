package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"fx-alert-hub/internal/application/bias"
	biasDomain "fx-alert-hub/internal/domain/bias"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestBiasRepo_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("new sqlmock: %v", err)
	}
	defer db.Close()

	created := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM bias_records").
		WithArgs("EURUSD", "london").
		WillReturnRows(sqlmock.NewRows([]string{"id", "symbol", "session", "narrative", "created_at"}).
			AddRow(7, "EURUSD", "london", "Direction (Forecast): BULLISH", created))

	repo := NewBiasRepo(db)
	rec, err := repo.Get(context.Background(), "EURUSD", biasDomain.SessionLondon)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.ID != 7 || rec.Session != biasDomain.SessionLondon || rec.Narrative == "" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestBiasRepo_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("new sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bias_records").
		WithArgs("GBPUSD", "asian").
		WillReturnRows(sqlmock.NewRows([]string{"id", "symbol", "session", "narrative", "created_at"}))

	repo := NewBiasRepo(db)
	_, err = repo.Get(context.Background(), "GBPUSD", biasDomain.SessionAsian)
	if !errors.Is(err, bias.ErrNotFound) {
		t.Errorf("expected bias.ErrNotFound, got %v", err)
	}
}

func TestBiasRepo_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("new sqlmock: %v", err)
	}
	defer db.Close()

	created := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO bias_records").
		WithArgs("EURUSD", "london", "Direction (Forecast): BULLISH", created).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	repo := NewBiasRepo(db)
	rec, err := repo.Save(context.Background(), biasDomain.Record{
		Symbol:    "EURUSD",
		Session:   biasDomain.SessionLondon,
		Narrative: "Direction (Forecast): BULLISH",
		CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.ID != 7 {
		t.Errorf("expected returned id 7, got %d", rec.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
