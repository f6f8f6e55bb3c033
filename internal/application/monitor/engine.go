package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	alertDomain "fx-alert-hub/internal/domain/alert"
	"fx-alert-hub/internal/metrics"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// 週期層級錯誤：商店或報價來源整個不可用時，整輪以單一失敗回報，
// 交由呼叫端（排程器）決定 backoff。
var (
	ErrStoreUnavailable = errors.New("alert store unavailable")
	ErrFeedUnavailable  = errors.New("price feed unavailable")
)

// ErrorKind 標註單筆警報處理結果的失敗類別，僅供回報使用。
type ErrorKind string

const (
	KindNone               ErrorKind = ""
	KindFeedUnavailable    ErrorKind = "feed_unavailable"
	KindNotificationFailed ErrorKind = "notification_failed"
	KindTransitionConflict ErrorKind = "transition_conflict"
	KindTransitionFailed   ErrorKind = "transition_failed"
)

// Outcome 為單筆警報在一輪監控中的處理結果，不落地、僅供記錄與回應。
type Outcome struct {
	AlertID   int64
	Symbol    string
	Direction alertDomain.Direction
	Threshold decimal.Decimal
	Price     decimal.Decimal
	Matched   bool
	Notified  bool
	ErrorKind ErrorKind
}

// AlertStore 為引擎對持久層的最小需求。
type AlertStore interface {
	// ListEligible 回傳 status=active 且未過期的警報。
	ListEligible(ctx context.Context, now time.Time) ([]alertDomain.Alert, error)
	// Transition 將單筆警報 active→triggered 並寫入 triggeredAt；
	// 回傳 false 代表該警報已被其他輪次處理（良性競態，非錯誤）。
	Transition(ctx context.Context, id int64, triggeredAt time.Time) (bool, error)
}

// PriceSource 批次取得現價，鍵為正規化後的 instrument key。
type PriceSource interface {
	FetchPrices(ctx context.Context, instruments []string) (map[string]decimal.Decimal, error)
}

// Notifier 寄送單則通知訊息。
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Engine 執行一輪完整的警報監控：載入合格警報、一次批次抓價、
// 逐筆評估、先轉移狀態再通知，並回報逐筆結果。
type Engine struct {
	store    AlertStore
	feed     PriceSource
	notifier Notifier
	now      func() time.Time
}

// NewEngine 建立監控引擎。
func NewEngine(store AlertStore, feed PriceSource, notifier Notifier) *Engine {
	return &Engine{
		store:    store,
		feed:     feed,
		notifier: notifier,
		now:      time.Now,
	}
}

// Run 執行一輪監控並回傳逐筆結果。可重複呼叫，
// 同一警報在重疊輪次間由資料庫的狀態轉移保證至多觸發一次。
func (e *Engine) Run(ctx context.Context) ([]Outcome, error) {
	started := e.now()
	defer func() {
		metrics.ObserveCycleDuration(time.Since(started))
	}()
	metrics.IncCycles()

	alerts, err := e.store.ListEligible(ctx, started)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(alerts) == 0 {
		return []Outcome{}, nil
	}

	// 同一 instrument 的多筆警報共用一次抓價，整輪對同一份快照評估。
	keys := lo.Uniq(lo.Map(alerts, func(a alertDomain.Alert, _ int) string {
		return a.InstrumentKey()
	}))

	prices, feedErr := e.feed.FetchPrices(ctx, keys)
	if feedErr != nil {
		metrics.IncFeedErrors()
		outcomes := make([]Outcome, 0, len(alerts))
		for _, a := range alerts {
			outcomes = append(outcomes, Outcome{
				AlertID:   a.ID,
				Symbol:    a.Symbol,
				Direction: a.Direction,
				Threshold: a.Threshold,
				ErrorKind: KindFeedUnavailable,
			})
		}
		return outcomes, fmt.Errorf("%w: %v", ErrFeedUnavailable, feedErr)
	}

	outcomes := make([]Outcome, 0, len(alerts))
	for _, a := range alerts {
		// 合作式取消：不再開始新的警報處理，進行中的轉移已是單一原子寫入。
		if ctx.Err() != nil {
			return outcomes, ctx.Err()
		}

		out := Outcome{
			AlertID:   a.ID,
			Symbol:    a.Symbol,
			Direction: a.Direction,
			Threshold: a.Threshold,
		}

		price, ok := prices[a.InstrumentKey()]
		if !ok {
			// 本輪無此 instrument 報價：跳過，警報維持 active 等下一輪。
			outcomes = append(outcomes, out)
			continue
		}
		out.Price = price

		if !alertDomain.Matches(a.Direction, a.Threshold, price) {
			outcomes = append(outcomes, out)
			continue
		}
		out.Matched = true
		outcomes = append(outcomes, e.processTriggered(ctx, a, out))
	}
	return outcomes, nil
}

// processTriggered 先提交狀態轉移、再嘗試通知。通知失敗不回滾轉移：
// 寧可漏通知，也不重複通知。
func (e *Engine) processTriggered(ctx context.Context, a alertDomain.Alert, out Outcome) Outcome {
	transitioned, err := e.store.Transition(ctx, a.ID, e.now())
	if err != nil {
		out.ErrorKind = KindTransitionFailed
		return out
	}
	if !transitioned {
		// 已被重疊的輪次處理，不重送通知。
		out.ErrorKind = KindTransitionConflict
		return out
	}
	metrics.IncTriggered()

	if err := e.notifier.Send(ctx, FormatMessage(a, out.Price)); err != nil {
		metrics.IncNotifyFailures()
		out.ErrorKind = KindNotificationFailed
		return out
	}
	out.Notified = true
	return out
}

// FormatMessage 組出通知文字：顯示名稱、備註、方向、門檻價、現價與分類。
func FormatMessage(a alertDomain.Alert, price decimal.Decimal) string {
	note := a.Note
	if note == "" {
		note = "-"
	}
	category := string(a.Category)
	if category == "" {
		category = "-"
	}
	return fmt.Sprintf("<b>%s</b> - %s - %s - %s - now %s - %s",
		a.Symbol, note, alertDomain.DirectionWord(a.Direction), formatPrice(a.Threshold), formatPrice(price), category)
}

// formatPrice 保留原始小數位數：1.2000 顯示為 1.2000 而非 1.2。
func formatPrice(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}
