package bias

import (
	"context"
	"errors"
	"fmt"
	"time"

	biasDomain "fx-alert-hub/internal/domain/bias"
)

// ErrNotFound 表示該 symbol 在目前時段尚無快取的敘述。
var ErrNotFound = errors.New("bias record not found")

// Repository 按 symbol+session 快取敘述。
type Repository interface {
	Get(ctx context.Context, symbol string, session biasDomain.Session) (biasDomain.Record, error)
	Save(ctx context.Context, rec biasDomain.Record) (biasDomain.Record, error)
}

// Generator 產生敘述文字；實作為 Gemini 客戶端。
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service 提供時段感知的方向性分析敘述：同一 symbol 在同一時段
// 只呼叫一次生成，之後讀快取。
type Service struct {
	repo Repository
	gen  Generator
	now  func() time.Time
}

// NewService 建立 bias 服務。
func NewService(repo Repository, gen Generator) *Service {
	return &Service{repo: repo, gen: gen, now: time.Now}
}

// Get 回傳目前時段的快取敘述；不存在時回傳 ErrNotFound。
func (s *Service) Get(ctx context.Context, symbol string) (biasDomain.Record, error) {
	return s.repo.Get(ctx, symbol, biasDomain.SessionAt(s.now()))
}

// Generate 為 symbol 產生目前時段的敘述並寫入快取。
// 既有快取直接回傳，不重複花費生成呼叫。
func (s *Service) Generate(ctx context.Context, symbol string) (biasDomain.Record, error) {
	if symbol == "" {
		return biasDomain.Record{}, fmt.Errorf("symbol is required")
	}
	session := biasDomain.SessionAt(s.now())

	if cached, err := s.repo.Get(ctx, symbol, session); err == nil {
		return cached, nil
	} else if !errors.Is(err, ErrNotFound) {
		return biasDomain.Record{}, fmt.Errorf("read bias cache: %w", err)
	}

	narrative, err := s.gen.Generate(ctx, buildPrompt(symbol, session))
	if err != nil {
		return biasDomain.Record{}, fmt.Errorf("generate bias narrative: %w", err)
	}

	return s.repo.Save(ctx, biasDomain.Record{
		Symbol:    symbol,
		Session:   session,
		Narrative: narrative,
		CreatedAt: s.now(),
	})
}

func sessionLabel(session biasDomain.Session) string {
	switch session {
	case biasDomain.SessionNewYork:
		return "Today's New York Session (12:30 - 17:00 GMT)"
	case biasDomain.SessionAsian:
		return "Today's Asian Session (22:00 - 08:00 GMT)"
	default:
		return "Today's London Session (08:00 - 12:00 GMT)"
	}
}

func buildPrompt(symbol string, session biasDomain.Session) string {
	return fmt.Sprintf(`Please conduct a purely fundamental and sentiment-driven directional analysis for the specified trading symbol, focusing on the immediate effects of current market positioning and upcoming high-impact news within the specified trading session. Please use easy english words & sentence.

Input Parameters:
SYMBOL: %s
TARGET SESSION: %s

Analysis Requirements (Strictly No Technical Analysis):
1. Short-Term Direction & Trend: the current directional bias and the single most important fundamental headline driving it.
2. News Events: the most recent high-impact event (last 24 hours) that set the direction, the most crucial upcoming release within the session, and a forecast for a major beat vs. a major miss of consensus.
3. Correlation: a highly correlated or inverse asset, the fundamental reason driving it, and whether the two narratives align.
4. Market Sentiment & Positioning: prevailing sentiment at the session open, dominant retail positioning, and squeeze potential.

FINAL BIAS (REQUIRED OUTPUT)
Direction (Forecast): [BULLISH / BEARISH / NEUTRAL]
Decisive Justification: one sentence naming the event/sentiment that will decide the symbol's direction during the TARGET SESSION.`, symbol, sessionLabel(session))
}
