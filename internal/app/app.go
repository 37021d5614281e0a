package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"orderbot/internal/config"
	"orderbot/internal/exchange"
	"orderbot/internal/execution"
	"orderbot/internal/journal"
	"orderbot/internal/order"
)

// App 聚合核心依赖并完成一次订单执行：校验、分发、记账与汇总输出。
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  exchange.OrderPlacer
	journal *journal.Journal // 可为 nil，表示不落流水
	out     io.Writer
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, client exchange.OrderPlacer, jrnl *journal.Journal) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		journal: jrnl,
		out:     os.Stdout,
	}
}

// Run 校验意图后执行单笔订单或 TWAP 计划。
// 校验失败与全体分片失败返回错误；部分成交不算失败，只在汇总里体现。
func (a *App) Run(ctx context.Context, intent order.Intent) error {
	a.logger.Info("开始处理订单请求",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("base_url", a.cfg.Exchange.BaseURL),
		zap.String("symbol", intent.Symbol),
		zap.String("side", string(intent.Side)),
		zap.String("type", string(intent.Type)),
	)

	if err := order.Validate(intent); err != nil {
		a.logger.Error("订单参数校验失败",
			zap.String("symbol", intent.Symbol),
			zap.String("side", string(intent.Side)),
			zap.String("type", string(intent.Type)),
			zap.Error(err),
		)
		return err
	}

	if intent.Type == order.TypeTwap {
		return a.runTwap(ctx, intent)
	}
	return a.runSingle(ctx, intent)
}

func (a *App) runSingle(ctx context.Context, intent order.Intent) error {
	result, err := a.client.PlaceOrder(ctx, intent)
	a.record(intent, 0, result)

	if result.Success {
		fmt.Fprintf(a.out, "订单已接受: symbol=%s side=%s type=%s quantity=%s order_id=%s\n",
			intent.Symbol, intent.Side, intent.Type,
			exchange.FormatQuantity(intent.Quantity), result.OrderID)
		return nil
	}

	fmt.Fprintf(a.out, "订单失败: symbol=%s side=%s type=%s 原因=%s\n",
		intent.Symbol, intent.Side, intent.Type, result.Err)
	if err != nil {
		return err
	}
	return fmt.Errorf("app: 订单失败: %s", result.Err)
}

func (a *App) runTwap(ctx context.Context, intent order.Intent) error {
	scheduler := execution.NewScheduler(a.client, a.logger)

	results, runErr := scheduler.Run(ctx, intent)
	if len(results) == 0 {
		// 切片阶段就失败了，没有任何分片被提交。
		if runErr == nil {
			runErr = fmt.Errorf("app: TWAP 未产生任何分片")
		}
		return runErr
	}
	for i, result := range results {
		a.record(intent, i+1, result)
	}

	succeeded := 0
	for _, result := range results {
		if result.Success {
			succeeded++
		}
	}

	fmt.Fprintf(a.out, "TWAP 执行完成: symbol=%s side=%s 总量=%s 分片=%d 成功=%d\n",
		intent.Symbol, intent.Side,
		exchange.FormatQuantity(intent.Quantity), len(results), succeeded)
	for i, result := range results {
		status := "成功"
		detail := result.OrderID
		if !result.Success {
			status = "失败"
			detail = result.Err
		}
		fmt.Fprintf(a.out, "  分片 %d/%d: %s %s\n", i+1, len(results), status, detail)
	}

	if succeeded == 0 {
		return fmt.Errorf("app: TWAP 全部分片失败: %w", runErr)
	}

	if runErr != nil {
		a.logger.Warn("TWAP 部分分片失败",
			zap.Int("slices", len(results)),
			zap.Int("succeeded", succeeded),
			zap.Error(runErr),
		)
	}

	return nil
}

func (a *App) record(intent order.Intent, sliceIndex int, result order.Result) {
	if a.journal == nil {
		return
	}
	if err := a.journal.Record(intent, sliceIndex, result); err != nil {
		a.logger.Warn("写入订单流水失败", zap.Error(err))
	}
}
