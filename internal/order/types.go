package order

import (
	"encoding/json"
	"strings"
	"time"
)

// Side 表示下单方向。
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Type 表示订单类型。
type Type string

const (
	TypeMarket Type = "MARKET"
	TypeLimit  Type = "LIMIT"
	TypeStop   Type = "STOP"
	TypeTwap   Type = "TWAP"
)

// Intent 描述一次 CLI 调用要提交的订单意图。
// 每次调用构造一个（TWAP 每个分片各一个），结果落日志后即丢弃。
type Intent struct {
	Symbol        string
	Side          Side
	Type          Type
	Quantity      float64
	Price         float64
	StopPrice     float64
	TimeInForce   string
	ReduceOnly    bool
	TwapSlices    int
	TwapInterval  time.Duration
	ClientOrderID string
}

// Result 为一次下单的最终结果，生成后不再修改。
type Result struct {
	Success bool
	OrderID string
	Raw     json.RawMessage
	Err     string
}

// ParseSide 解析命令行传入的方向，大小写不敏感。
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(SideBuy):
		return SideBuy, nil
	case string(SideSell):
		return SideSell, nil
	default:
		return "", &ValidationError{Field: "side", Reason: "必须为 BUY 或 SELL"}
	}
}

// ParseType 解析命令行传入的订单类型，大小写不敏感。
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(TypeMarket):
		return TypeMarket, nil
	case string(TypeLimit):
		return TypeLimit, nil
	case string(TypeStop):
		return TypeStop, nil
	case string(TypeTwap):
		return TypeTwap, nil
	default:
		return "", &ValidationError{Field: "type", Reason: "必须为 MARKET/LIMIT/STOP/TWAP 之一"}
	}
}
