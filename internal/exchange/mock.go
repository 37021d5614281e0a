package exchange

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"orderbot/internal/order"
)

// Mock 为确定性的模拟客户端：不访问网络，任何合法意图都返回成功，
// 订单号在一次运行内单调递增。用于在不动用真实资金的情况下演练
// CLI、日志与流水链路。
type Mock struct {
	logger *zap.Logger

	// FailHook 非空时按调用序号注入失败，供测试制造分片失败场景。
	FailHook func(call int, intent order.Intent) error

	calls  int
	nextID int64
}

// NewMock 创建模拟客户端。
func NewMock(logger *zap.Logger) *Mock {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mock{logger: logger}
}

// PlaceOrder 返回合成的成功结果，订单号形如 mock-1、mock-2。
func (m *Mock) PlaceOrder(ctx context.Context, intent order.Intent) (order.Result, error) {
	if err := ctx.Err(); err != nil {
		return order.Result{Success: false, Err: err.Error()}, err
	}

	m.calls++

	m.logger.Info("模拟提交订单",
		zap.Int("call", m.calls),
		zap.String("symbol", intent.Symbol),
		zap.String("side", string(intent.Side)),
		zap.String("type", string(intent.Type)),
		zap.String("quantity", FormatQuantity(intent.Quantity)),
	)

	if m.FailHook != nil {
		if err := m.FailHook(m.calls, intent); err != nil {
			m.logger.Error("模拟订单失败", zap.Int("call", m.calls), zap.Error(err))
			return order.Result{Success: false, Err: err.Error()}, err
		}
	}

	m.nextID++
	id := fmt.Sprintf("mock-%d", m.nextID)

	raw, _ := json.Marshal(map[string]interface{}{
		"orderId": id,
		"symbol":  intent.Symbol,
		"side":    intent.Side,
		"type":    intent.Type,
		"status":  "FILLED",
	})

	result := order.Result{Success: true, OrderID: id, Raw: raw}
	m.logger.Info("模拟订单已成交", zap.String("order_id", id), zap.ByteString("response", raw))
	return result, nil
}

var (
	_ OrderPlacer = (*Client)(nil)
	_ OrderPlacer = (*Mock)(nil)
)
