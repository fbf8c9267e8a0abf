package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds replay configuration loaded from flags, env, or config file.
type Config struct {
	Input        string
	Out          string
	PGDSN        string
	BatchSize    int
	StateFile    string
	Custody      string
	FeeNum       uint64
	FeeDen       uint64
	MinLiquidity uint64
	LogLevel     string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AMMPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("out", "./data/events.jsonl")
	v.SetDefault("batch-size", 1000)
	v.SetDefault("custody", "pool:custody")
	v.SetDefault("fee-num", uint64(369))
	v.SetDefault("fee-den", uint64(100_000))
	v.SetDefault("min-liquidity", uint64(0))
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
		Input:        v.GetString("in"),
		Out:          v.GetString("out"),
		PGDSN:        v.GetString("pg-dsn"),
		BatchSize:    v.GetInt("batch-size"),
		StateFile:    v.GetString("state-file"),
		Custody:      v.GetString("custody"),
		FeeNum:       v.GetUint64("fee-num"),
		FeeDen:       v.GetUint64("fee-den"),
		MinLiquidity: v.GetUint64("min-liquidity"),
		LogLevel:     v.GetString("log-level"),
	}

	if cfg.FeeDen == 0 {
		return Config{}, fmt.Errorf("fee-den must be greater than zero")
	}
	if cfg.FeeNum >= cfg.FeeDen {
		return Config{}, fmt.Errorf("fee-num must be smaller than fee-den")
	}

	return cfg, nil
}
