package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction 列舉價位警報的觸發方向。建立後不可變更。
type Direction string

const (
	CrossingUp   Direction = "crossing_up"
	CrossingDown Direction = "crossing_down"
)

// Status 列舉警報狀態。triggered 與 expired 為終態。
type Status string

const (
	StatusActive    Status = "active"
	StatusTriggered Status = "triggered"
	StatusExpired   Status = "expired"
)

// Category 對應儀表板上的 symbol 分類標籤。
type Category string

const (
	CategoryLive      Category = "Live"
	CategorySuper     Category = "Super"
	CategoryGood      Category = "Good"
	CategoryBad       Category = "Bad"
	CategoryFormation Category = "Formation"
	CategoryOther     Category = "Other"
)

// Alert 代表一筆價位穿越警報。
//
// APISymbol 為儲存層的原始報價鍵，可能帶有 URL-escaped 分隔符（EUR%2FUSD），
// 查價前一律透過 InstrumentKey 取得正規化後的鍵。
type Alert struct {
	ID          int64
	Symbol      string // 顯示名稱，例如 EURUSD
	TVSymbol    string // TradingView 圖表用代碼
	APISymbol   string // 報價 API 用代碼（原始儲存格式）
	Category    Category
	Note        string // 使用者自由備註，僅透傳到通知訊息
	Threshold   decimal.Decimal
	Direction   Direction
	Status      Status
	ExpiresAt   *time.Time
	TriggeredAt *time.Time
	CreatedAt   time.Time
}

// InstrumentKey 回傳正規化後的報價鍵（%2F 還原為 /）。
func (a Alert) InstrumentKey() string {
	return NormalizeInstrument(a.APISymbol)
}

// Eligible 判斷警報在 now 時點是否應納入本輪評估。
func (a Alert) Eligible(now time.Time) bool {
	if a.Status != StatusActive {
		return false
	}
	if a.ExpiresAt != nil && a.ExpiresAt.Before(now) {
		return false
	}
	return true
}

// Validate 基本欄位檢查，供建立時使用。
func (a Alert) Validate() error {
	if a.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if a.APISymbol == "" {
		return fmt.Errorf("api_symbol is required")
	}
	switch a.Direction {
	case CrossingUp, CrossingDown:
	default:
		return fmt.Errorf("unsupported direction: %s", a.Direction)
	}
	if a.Threshold.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("threshold must be positive")
	}
	return nil
}

// Matches 為純函式的水平檢查：crossing_up 在價格 >= 門檻時成立，
// crossing_down 在價格 <= 門檻時成立。
//
// 這不是邊緣觸發：不記錄上一筆樣本，因此建立當下已越過門檻的警報
// 會在第一個觀察到它的週期立即觸發。此為既定行為，調整前需確認需求。
func Matches(direction Direction, threshold, currentPrice decimal.Decimal) bool {
	switch direction {
	case CrossingUp:
		return currentPrice.GreaterThanOrEqual(threshold)
	case CrossingDown:
		return currentPrice.LessThanOrEqual(threshold)
	default:
		return false
	}
}

// NormalizeInstrument 將儲存格式的報價鍵還原為 API 的 / 分隔格式。
func NormalizeInstrument(key string) string {
	return strings.ReplaceAll(key, "%2F", "/")
}

// DirectionWord 回傳通知訊息中使用的方向文字。
func DirectionWord(d Direction) string {
	if d == CrossingUp {
		return "⬆️ UP"
	}
	return "⬇️ DOWN"
}
