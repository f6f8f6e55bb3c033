package bias

import "time"

// Session 列舉分析所屬的交易時段。
type Session string

const (
	SessionLondon  Session = "london"
	SessionNewYork Session = "newyork"
	SessionAsian   Session = "asian"
)

// Record 為 AI 產生的單一 symbol 時段方向性敘述，按 symbol+session 快取。
type Record struct {
	ID        int64
	Symbol    string
	Session   Session
	Narrative string
	CreatedAt time.Time
}

// SessionAt 依 UTC 小時判斷目前時段：倫敦 08-12、紐約 12-17、其餘為亞洲盤。
func SessionAt(t time.Time) Session {
	hour := t.UTC().Hour()
	switch {
	case hour >= 12 && hour < 17:
		return SessionNewYork
	case hour >= 17 || hour < 8:
		return SessionAsian
	default:
		return SessionLondon
	}
}
