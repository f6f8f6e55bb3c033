package monitor

import (
	"testing"
	"time"

	alertDomain "fx-alert-hub/internal/domain/alert"

	"github.com/shopspring/decimal"
)

func TestWorker_RunOnce(t *testing.T) {
	store := &fakeStore{alerts: []alertDomain.Alert{
		activeAlert(1, "EURUSD", "EUR%2FUSD", "1.2000", alertDomain.CrossingUp),
	}}
	feed := &fakeFeed{prices: map[string]decimal.Decimal{"EUR/USD": d("1.2100")}}
	notifier := &fakeNotifier{}

	worker := NewWorker(NewEngine(store, feed, notifier), time.Minute)
	worker.runOnce()

	if len(store.transitions) != 1 {
		t.Errorf("expected one transition from a worker pass, got %v", store.transitions)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("expected one notification, got %d", len(notifier.sent))
	}
}

func TestWorker_StartStop(t *testing.T) {
	store := &fakeStore{}
	worker := NewWorker(NewEngine(store, &fakeFeed{}, &fakeNotifier{}), time.Hour)
	worker.Start()
	worker.Stop()
}

func TestNewWorker_DefaultInterval(t *testing.T) {
	worker := NewWorker(NewEngine(&fakeStore{}, &fakeFeed{}, &fakeNotifier{}), 0)
	if worker.interval != time.Minute {
		t.Errorf("expected 1m default, got %v", worker.interval)
	}
}
