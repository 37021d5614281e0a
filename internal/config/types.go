package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config 聚合了系统运行所需的全部配置项。
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Exchange  ExchangeConfig  `mapstructure:"exchange"`
	Execution ExecutionConfig `mapstructure:"execution"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// ExchangeConfig 描述交易所连接信息。
// APIKey/APISecret 通常通过环境变量 BINANCE_API_KEY / BINANCE_API_SECRET 注入。
type ExchangeConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	APISecret  string        `mapstructure:"api_secret"`
	RecvWindow int64         `mapstructure:"recv_window"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ExecutionConfig 控制 TWAP 执行的默认参数。
type ExecutionConfig struct {
	TwapSlices   int           `mapstructure:"twap_slices"`
	TwapInterval time.Duration `mapstructure:"twap_interval"`
}

// DatabaseConfig 管理订单流水库。
type DatabaseConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
	Disabled bool   `mapstructure:"disabled"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// Validate 对配置进行基本校验。
// API 凭证不在这里强制：模拟模式允许为空，真实客户端构造时再检查。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.Exchange.BaseURL == "" {
		err = multierr.Append(err, errors.New("exchange.base_url 不能为空"))
	}
	if c.Exchange.Timeout <= 0 {
		err = multierr.Append(err, errors.New("exchange.timeout 必须大于0"))
	}
	if c.Exchange.RecvWindow < 0 {
		err = multierr.Append(err, errors.New("exchange.recv_window 不能为负"))
	}
	if c.Execution.TwapSlices <= 0 {
		err = multierr.Append(err, errors.New("execution.twap_slices 必须大于0"))
	}
	if c.Execution.TwapInterval <= 0 {
		err = multierr.Append(err, errors.New("execution.twap_interval 必须大于0"))
	}
	if !c.Database.Disabled && !c.Database.InMemory && c.Database.Path == "" {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
