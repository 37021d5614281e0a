package exchange

import (
	"context"

	"orderbot/internal/order"
)

// OrderPlacer 抽象下单能力，方便在真实客户端与模拟客户端之间切换。
// 实现总是返回填充完整的 Result；失败时 error 与 Result.Err 同源，
// 调用方可按需走错误流或结果流。
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, intent order.Intent) (order.Result, error)
}
