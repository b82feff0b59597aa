package finmind

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"etf-fortune/internal/domain/dataingestion"
)

const (
	DefaultBaseURL = "https://api.finmindtrade.com/api/v4"
	dailyDataset   = "TaiwanStockDaily"
)

// Client 呼叫 FinMind 開放資料 API 取得台股日 K。
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient token 可為空（匿名額度）；timeout <= 0 時為 10 秒。
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type dailyRow struct {
	Date          string  `json:"date"`
	StockID       string  `json:"stock_id"`
	TradingVolume float64 `json:"Trading_Volume"`
	Open          float64 `json:"open"`
	Max           float64 `json:"max"`
	Min           float64 `json:"min"`
	Close         float64 `json:"close"`
}

type dailyResponse struct {
	Msg    string     `json:"msg"`
	Status int        `json:"status"`
	Data   []dailyRow `json:"data"`
}

// FetchRange 取得 [start, end] 區間的日 K。
func (c *Client) FetchRange(ctx context.Context, symbol string, start, end time.Time) ([]dataingestion.DailyPrice, error) {
	params := url.Values{}
	params.Set("dataset", dailyDataset)
	params.Set("data_id", symbol)
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))

	body, err := c.call(ctx, "/data", params)
	if err != nil {
		return nil, err
	}

	var resp dailyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("finmind decode: %w", err)
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("finmind api status %d: %s", resp.Status, resp.Msg)
	}

	out := make([]dataingestion.DailyPrice, 0, len(resp.Data))
	for _, row := range resp.Data {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("finmind date %q: %w", row.Date, err)
		}
		if row.StockID == "" {
			row.StockID = symbol
		}
		out = append(out, dataingestion.DailyPrice{
			Symbol:    row.StockID,
			Market:    dataingestion.MarketTWSE,
			TradeDate: date,
			Open:      row.Open,
			High:      row.Max,
			Low:       row.Min,
			Close:     row.Close,
			Volume:    int64(row.TradingVolume),
			Source:    dataingestion.SourceFinMind,
		}.WithChange())
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finmind api error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
