package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "configs/config.yaml"
	envPrefix         = "bot"

	// DefaultTestnetBaseURL 为 Binance USDⓈ-M 期货测试网地址。
	// 不要把主网密钥用在测试网上，反之亦然。
	DefaultTestnetBaseURL = "https://testnet.binancefuture.com"
)

// Load 读取配置文件并结合环境变量返回 Config。
// path 为空时使用默认路径；默认路径不存在则仅依赖默认值与环境变量。
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	// 凭证走独立的环境变量，不带 BOT_ 前缀。
	_ = v.BindEnv("exchange.api_key", "BINANCE_API_KEY")
	_ = v.BindEnv("exchange.api_secret", "BINANCE_API_SECRET")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if explicit {
			return nil, fmt.Errorf("未找到配置文件 %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "testnet")

	v.SetDefault("exchange.base_url", DefaultTestnetBaseURL)
	v.SetDefault("exchange.recv_window", 5000)
	v.SetDefault("exchange.timeout", "10s")

	v.SetDefault("execution.twap_slices", 5)
	v.SetDefault("execution.twap_interval", "1s")

	v.SetDefault("database.path", "data/orderbot.db")
	v.SetDefault("database.in_memory", false)
	v.SetDefault("database.disabled", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.output_paths", []string{"stdout", "logs/orderbot.log"})
	v.SetDefault("logging.error_output_paths", []string{"stderr"})
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
