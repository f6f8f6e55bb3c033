package bias

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	biasDomain "fx-alert-hub/internal/domain/bias"
)

type fakeRepo struct {
	records map[string]biasDomain.Record // key: symbol|session
	getErr  error
}

func key(symbol string, session biasDomain.Session) string {
	return symbol + "|" + string(session)
}

func (f *fakeRepo) Get(_ context.Context, symbol string, session biasDomain.Session) (biasDomain.Record, error) {
	if f.getErr != nil {
		return biasDomain.Record{}, f.getErr
	}
	rec, ok := f.records[key(symbol, session)]
	if !ok {
		return biasDomain.Record{}, ErrNotFound
	}
	return rec, nil
}

func (f *fakeRepo) Save(_ context.Context, rec biasDomain.Record) (biasDomain.Record, error) {
	if f.records == nil {
		f.records = map[string]biasDomain.Record{}
	}
	rec.ID = int64(len(f.records) + 1)
	f.records[key(rec.Symbol, rec.Session)] = rec
	return rec, nil
}

type fakeGenerator struct {
	calls   int
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return "Direction (Forecast): BULLISH", nil
}

func londonClock() time.Time {
	return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
}

func TestService_Generate(t *testing.T) {
	repo := &fakeRepo{}
	gen := &fakeGenerator{}
	svc := NewService(repo, gen)
	svc.now = londonClock

	rec, err := svc.Generate(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if rec.Session != biasDomain.SessionLondon {
		t.Errorf("expected london session, got %s", rec.Session)
	}
	if rec.Narrative == "" || rec.ID == 0 {
		t.Errorf("record not persisted: %+v", rec)
	}
	if !strings.Contains(gen.prompts[0], "SYMBOL: EURUSD") {
		t.Errorf("prompt missing symbol: %s", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[0], "London Session") {
		t.Errorf("prompt missing session label: %s", gen.prompts[0])
	}
}

func TestService_Generate_CacheHit(t *testing.T) {
	repo := &fakeRepo{}
	gen := &fakeGenerator{}
	svc := NewService(repo, gen)
	svc.now = londonClock

	if _, err := svc.Generate(context.Background(), "EURUSD"); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if _, err := svc.Generate(context.Background(), "EURUSD"); err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("same symbol+session must hit the cache, got %d generator calls", gen.calls)
	}
}

func TestService_Generate_EmptySymbol(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeGenerator{})
	if _, err := svc.Generate(context.Background(), ""); err == nil {
		t.Error("expected error for empty symbol")
	}
}

func TestService_Get_NotFound(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeGenerator{})
	svc.now = londonClock
	_, err := svc.Get(context.Background(), "GBPUSD")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
