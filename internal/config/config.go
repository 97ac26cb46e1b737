package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	EtherscanURL    string
	EtherscanAPIKey string
	PriceURL        string
	PageSize        int
	MaxRetries      int
	RetryBackoff    time.Duration
	CachePath       string
	CacheTTL        time.Duration
	ListenAddr      string
	AllowedOrigins  []string
	PostgresDSN     string
	LogLevel        string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TOKENFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("etherscan-url", "https://api.etherscan.io/api")
	v.SetDefault("price-url", "https://api.coingecko.com/api/v3/simple/price")
	v.SetDefault("page-size", 10000)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 100*time.Millisecond)
	v.SetDefault("cache-path", "./data/wallets.json.gz")
	v.SetDefault("cache-ttl", 3*time.Hour)
	v.SetDefault("listen-addr", ":8080")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		EtherscanURL:    v.GetString("etherscan-url"),
		EtherscanAPIKey: v.GetString("etherscan-api-key"),
		PriceURL:        v.GetString("price-url"),
		PageSize:        v.GetInt("page-size"),
		MaxRetries:      v.GetInt("max-retries"),
		RetryBackoff:    v.GetDuration("retry-backoff"),
		CachePath:       v.GetString("cache-path"),
		CacheTTL:        v.GetDuration("cache-ttl"),
		ListenAddr:      v.GetString("listen-addr"),
		AllowedOrigins:  getStringSlice(v, "allowed-origins"),
		PostgresDSN:     v.GetString("pg-dsn"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
