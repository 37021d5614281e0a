package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"orderbot/internal/config"
	"orderbot/internal/order"
)

const orderPath = "/fapi/v1/order"

// Client 负责向 Binance USDⓈ-M 期货下单接口提交签名请求。
// 每次调用单次尝试，请求与响应在返回前都会落日志（签名不入日志）。
type Client struct {
	cfg        config.ExchangeConfig
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string

	now   func() time.Time
	newID func() string
}

// NewClient 构造真实客户端。凭证缺失直接返回 ErrMissingCredentials。
func NewClient(cfg config.ExchangeConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, ErrMissingCredentials
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		now:        time.Now,
		newID:      uuid.NewString,
	}, nil
}

// PlaceOrder 提交一笔订单并把响应归一化为 order.Result。
func (c *Client) PlaceOrder(ctx context.Context, intent order.Intent) (order.Result, error) {
	params, err := c.buildParams(intent)
	if err != nil {
		c.logger.Error("构造订单参数失败",
			zap.String("symbol", intent.Symbol),
			zap.String("type", string(intent.Type)),
			zap.Error(err),
		)
		return order.Result{Success: false, Err: err.Error()}, err
	}

	query := params.Encode()
	signed := query + "&signature=" + c.sign(query)
	fullURL := c.baseURL + orderPath + "?" + signed

	// 请求参数先于发送落日志，签名被排除在外。
	c.logger.Info("提交订单请求",
		zap.String("method", http.MethodPost),
		zap.String("path", orderPath),
		zap.String("query", query),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, nil)
	if err != nil {
		return order.Result{Success: false, Err: err.Error()}, fmt.Errorf("exchange: 构造请求失败: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		wrapped := fmt.Errorf("exchange: 请求交易所失败: %w", err)
		c.logger.Error("请求交易所失败",
			zap.String("symbol", intent.Symbol),
			zap.String("type", string(intent.Type)),
			zap.Error(wrapped),
		)
		return order.Result{Success: false, Err: wrapped.Error()}, wrapped
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		wrapped := fmt.Errorf("exchange: 读取响应失败: %w", err)
		c.logger.Error("读取交易所响应失败", zap.Error(wrapped))
		return order.Result{Success: false, Err: wrapped.Error()}, wrapped
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result := parseAck(body)
		c.logger.Info("交易所已接受订单",
			zap.Int("status", resp.StatusCode),
			zap.String("symbol", intent.Symbol),
			zap.String("order_id", result.OrderID),
			zap.ByteString("response", body),
		)
		return result, nil
	}

	apiErr := parseAPIError(resp.StatusCode, body)
	c.logger.Error("交易所拒绝订单",
		zap.Int("status", resp.StatusCode),
		zap.String("symbol", intent.Symbol),
		zap.String("type", string(intent.Type)),
		zap.ByteString("response", body),
		zap.Error(apiErr),
	)
	return order.Result{Success: false, Raw: body, Err: apiErr.Error()}, apiErr
}

func (c *Client) buildParams(intent order.Intent) (url.Values, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(intent.Symbol))
	params.Set("side", string(intent.Side))
	params.Set("quantity", FormatQuantity(intent.Quantity))

	switch intent.Type {
	case order.TypeMarket:
		params.Set("type", string(order.TypeMarket))
		params.Set("reduceOnly", strconv.FormatBool(intent.ReduceOnly))
	case order.TypeLimit:
		params.Set("type", string(order.TypeLimit))
		params.Set("timeInForce", timeInForce(intent))
		params.Set("price", FormatQuantity(intent.Price))
	case order.TypeStop:
		params.Set("type", string(order.TypeStop))
		params.Set("timeInForce", timeInForce(intent))
		params.Set("stopPrice", FormatQuantity(intent.StopPrice))
		params.Set("price", FormatQuantity(intent.Price))
	default:
		// TWAP 在执行层已拆成 MARKET 分片，不应到达这里。
		return nil, fmt.Errorf("exchange: 不支持直接提交的订单类型 %s", intent.Type)
	}

	clientID := intent.ClientOrderID
	if clientID == "" {
		clientID = c.newID()
	}
	params.Set("newClientOrderId", clientID)

	if c.cfg.RecvWindow > 0 {
		params.Set("recvWindow", strconv.FormatInt(c.cfg.RecvWindow, 10))
	}
	params.Set("timestamp", strconv.FormatInt(c.now().UnixMilli(), 10))

	return params, nil
}

// sign 对 url 编码后的查询串做 HMAC-SHA256，十六进制输出。
func (c *Client) sign(query string) string {
	mac := hmac.New(sha256.New, []byte(c.cfg.APISecret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

func parseAck(body []byte) order.Result {
	var ack struct {
		OrderID int64  `json:"orderId"`
		Status  string `json:"status"`
	}

	result := order.Result{Success: true, Raw: body}
	if err := json.Unmarshal(body, &ack); err == nil && ack.OrderID != 0 {
		result.OrderID = strconv.FormatInt(ack.OrderID, 10)
	}
	return result
}

func timeInForce(intent order.Intent) string {
	if intent.TimeInForce == "" {
		return "GTC"
	}
	return strings.ToUpper(intent.TimeInForce)
}

// FormatQuantity 输出最短十进制表示，避免科学计数法进入查询串。
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
