package order

import (
	"fmt"
	"strings"
)

// ValidationError 指出订单意图中缺失或非法的字段。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("order: 字段 %s 非法: %s", e.Field, e.Reason)
}

// Validate 按订单类型校验意图，不产生任何副作用。
// 校验通过返回 nil，否则返回指明字段的 *ValidationError。
func Validate(intent Intent) error {
	if strings.TrimSpace(intent.Symbol) == "" {
		return &ValidationError{Field: "symbol", Reason: "不能为空"}
	}
	if intent.Side != SideBuy && intent.Side != SideSell {
		return &ValidationError{Field: "side", Reason: "必须为 BUY 或 SELL"}
	}
	if intent.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "必须为正数"}
	}

	switch intent.Type {
	case TypeMarket:
	case TypeLimit:
		if intent.Price <= 0 {
			return &ValidationError{Field: "price", Reason: "LIMIT 订单必须提供正数价格"}
		}
	case TypeStop:
		if intent.StopPrice <= 0 {
			return &ValidationError{Field: "stop_price", Reason: "STOP 订单必须提供正数触发价"}
		}
		if intent.Price <= 0 {
			return &ValidationError{Field: "price", Reason: "STOP 订单必须提供正数委托价"}
		}
	case TypeTwap:
		if intent.TwapSlices <= 0 {
			return &ValidationError{Field: "twap_slices", Reason: "TWAP 订单必须提供正数分片数"}
		}
		if intent.TwapInterval <= 0 {
			return &ValidationError{Field: "twap_interval", Reason: "TWAP 订单必须提供正数分片间隔"}
		}
	default:
		return &ValidationError{Field: "type", Reason: "必须为 MARKET/LIMIT/STOP/TWAP 之一"}
	}

	return nil
}
