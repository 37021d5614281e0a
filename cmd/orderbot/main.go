package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"orderbot/internal/app"
	"orderbot/internal/config"
	"orderbot/internal/exchange"
	"orderbot/internal/journal"
	"orderbot/internal/log"
	"orderbot/internal/order"
)

const (
	exitOK         = 0
	exitFailure    = 1
	exitBadRequest = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("orderbot", flag.ContinueOnError)

	var (
		configPath   = fs.String("config", "", "配置文件路径，默认使用 configs/config.yaml")
		mock         = fs.Bool("mock", false, "模拟模式：不访问交易所，返回合成的成交结果")
		symbol       = fs.String("symbol", "", "交易对，例如 BTCUSDT")
		side         = fs.String("side", "", "方向：BUY 或 SELL")
		orderType    = fs.String("type", "", "订单类型：MARKET/LIMIT/STOP/TWAP")
		quantity     = fs.Float64("quantity", 0, "数量（合约张数/币数）")
		price        = fs.Float64("price", 0, "委托价，LIMIT 与 STOP 必填")
		stopPrice    = fs.Float64("stop-price", 0, "触发价，STOP 必填")
		timeInForce  = fs.String("time-in-force", "GTC", "LIMIT/STOP 的有效期类型")
		reduceOnly   = fs.Bool("reduce-only", false, "仅减仓")
		twapSlices   = fs.Int("twap-slices", 0, "TWAP 分片数，0 表示使用配置默认值")
		twapInterval = fs.Duration("twap-interval", 0, "TWAP 分片间隔，0 表示使用配置默认值")
	)

	if err := fs.Parse(args); err != nil {
		return exitBadRequest
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		return exitFailure
	}

	logger, err := log.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		return exitFailure
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	intent, err := buildIntent(cfg, *symbol, *side, *orderType, *quantity, *price,
		*stopPrice, *timeInForce, *reduceOnly, *twapSlices, *twapInterval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误: %v\n", err)
		return exitBadRequest
	}

	var client exchange.OrderPlacer
	if *mock {
		logger.Info("以模拟模式运行，不会产生真实委托")
		client = exchange.NewMock(logger)
	} else {
		live, err := exchange.NewClient(cfg.Exchange, logger)
		if err != nil {
			// 凭证缺失等配置问题，在任何网络调用之前终止。
			fmt.Fprintf(os.Stderr, "初始化交易所客户端失败: %v\n", err)
			logger.Error("初始化交易所客户端失败", zap.Error(err))
			return exitFailure
		}
		client = live
	}

	var jrnl *journal.Journal
	if !cfg.Database.Disabled {
		jrnl, err = journal.Open(cfg.Database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "初始化订单流水库失败: %v\n", err)
			return exitFailure
		}
		defer func() {
			if closeErr := jrnl.Close(); closeErr != nil {
				logger.Warn("关闭订单流水库失败", zap.Error(closeErr))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, logger, client, jrnl)
	if err := application.Run(ctx, intent); err != nil {
		var vErr *order.ValidationError
		if errors.As(err, &vErr) {
			fmt.Fprintf(os.Stderr, "参数校验失败: %v\n", err)
			return exitBadRequest
		}
		logger.Error("订单执行失败", zap.Error(err))
		fmt.Fprintf(os.Stderr, "执行失败: %v\n", err)
		return exitFailure
	}

	return exitOK
}

func buildIntent(cfg *config.Config, symbol, side, orderType string, quantity, price,
	stopPrice float64, timeInForce string, reduceOnly bool,
	twapSlices int, twapInterval time.Duration) (order.Intent, error) {

	parsedSide, err := order.ParseSide(side)
	if err != nil {
		return order.Intent{}, err
	}
	parsedType, err := order.ParseType(orderType)
	if err != nil {
		return order.Intent{}, err
	}

	intent := order.Intent{
		Symbol:      symbol,
		Side:        parsedSide,
		Type:        parsedType,
		Quantity:    quantity,
		Price:       price,
		StopPrice:   stopPrice,
		TimeInForce: timeInForce,
		ReduceOnly:  reduceOnly,
	}

	if parsedType == order.TypeTwap {
		intent.TwapSlices = twapSlices
		intent.TwapInterval = twapInterval
		if intent.TwapSlices == 0 {
			intent.TwapSlices = cfg.Execution.TwapSlices
		}
		if intent.TwapInterval == 0 {
			intent.TwapInterval = cfg.Execution.TwapInterval
		}
	}

	return intent, nil
}
