package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 報價取自固定的 M20 timeframe bucket，與儀表板顯示的即時價一致。
const priceBucket = "M20"

// Client 批次抓取即時報價。單次呼叫、不重試；
// 下一輪監控週期即為自然重試點。
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient 建立報價客戶端。timeout 為單次請求上限。
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type feedResponse struct {
	Data []struct {
		Instrument struct {
			Name string `json:"name"`
		} `json:"instrument"`
		Metrics map[string]struct {
			Price *json.Number `json:"price"`
		} `json:"metrics"`
	} `json:"data"`
}

// FetchPrices 以一次 GET 取得 instruments 的現價，鍵為 API 的 / 分隔格式。
// 呼叫端需先去重。上游失敗（非 200、壞 JSON、連線錯誤）時回傳空 map
// 與失敗原因，不視為致命錯誤；缺少可用價格欄位的 instrument 直接略過，
// 絕不以 0 代替。
func (c *Client) FetchPrices(ctx context.Context, instruments []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal)
	if len(instruments) == 0 {
		return prices, nil
	}

	endpoint := fmt.Sprintf("%s/instruments?instruments=%s",
		c.baseURL, url.QueryEscape(strings.Join(instruments, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return prices, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return prices, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return prices, fmt.Errorf("feed returned status=%d body=%s", resp.StatusCode, string(raw))
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return prices, fmt.Errorf("decode feed response: %w", err)
	}

	for _, item := range payload.Data {
		if item.Instrument.Name == "" {
			continue
		}
		bucket, ok := item.Metrics[priceBucket]
		if !ok || bucket.Price == nil {
			continue
		}
		price, err := decimal.NewFromString(bucket.Price.String())
		if err != nil {
			continue
		}
		prices[item.Instrument.Name] = price
	}
	return prices, nil
}
