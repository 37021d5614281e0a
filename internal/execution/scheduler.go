package execution

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"orderbot/internal/exchange"
	"orderbot/internal/order"
)

// Scheduler 把 TWAP 意图拆成等量 MARKET 分片并按固定间隔顺序提交，
// 以降低单笔大单的市场冲击。
type Scheduler struct {
	client exchange.OrderPlacer
	logger *zap.Logger
	wait   func(ctx context.Context, d time.Duration) error
}

// NewScheduler 创建 TWAP 调度器。
func NewScheduler(client exchange.OrderPlacer, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		client: client,
		logger: logger,
		wait:   waitContext,
	}
}

// Run 顺序执行全部分片并返回与分片一一对应的结果序列。
// 单个分片失败只记账不终止，剩余分片照常执行；失败以 multierr
// 聚合返回。分片数为 1 时退化为一笔 MARKET 订单，无任何等待。
func (s *Scheduler) Run(ctx context.Context, intent order.Intent) ([]order.Result, error) {
	quantities, err := SliceQuantities(intent.Quantity, intent.TwapSlices)
	if err != nil {
		return nil, err
	}

	s.logger.Info("开始执行 TWAP 计划",
		zap.String("symbol", intent.Symbol),
		zap.String("side", string(intent.Side)),
		zap.String("total_quantity", exchange.FormatQuantity(intent.Quantity)),
		zap.Int("slices", len(quantities)),
		zap.Duration("interval", intent.TwapInterval),
	)

	results := make([]order.Result, 0, len(quantities))
	var failures error

	for i, qty := range quantities {
		slice := intent
		slice.Type = order.TypeMarket
		slice.Quantity = qty
		slice.TwapSlices = 0
		slice.TwapInterval = 0
		slice.ClientOrderID = ""

		s.logger.Info("提交 TWAP 分片",
			zap.Int("slice", i+1),
			zap.Int("total", len(quantities)),
			zap.String("quantity", exchange.FormatQuantity(qty)),
		)

		result, placeErr := s.client.PlaceOrder(ctx, slice)
		results = append(results, result)

		if placeErr != nil {
			failures = multierr.Append(failures, fmt.Errorf("execution: 分片 %d/%d 执行失败: %w", i+1, len(quantities), placeErr))
			s.logger.Warn("TWAP 分片失败，继续执行剩余分片",
				zap.Int("slice", i+1),
				zap.Error(placeErr),
			)
		}

		if i < len(quantities)-1 {
			if waitErr := s.wait(ctx, intent.TwapInterval); waitErr != nil {
				s.logger.Warn("TWAP 等待被取消，提前结束计划",
					zap.Int("completed", len(results)),
					zap.Error(waitErr),
				)
				return results, multierr.Append(failures, waitErr)
			}
		}
	}

	s.logger.Info("TWAP 计划执行完毕",
		zap.Int("slices", len(results)),
		zap.Int("succeeded", countSuccesses(results)),
	)

	return results, failures
}

func countSuccesses(results []order.Result) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}

func waitContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
