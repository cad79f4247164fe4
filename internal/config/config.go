package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, postgres; empty disables the store
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttlSeconds"`
}

type SimulationConfig struct {
	Mode    string        `mapstructure:"mode"` // preflop, postflop
	Rounds  int64         `mapstructure:"rounds"`
	Players int           `mapstructure:"players"`
	Workers int           `mapstructure:"workers"` // 0 = one per CPU
	Seed    int64         `mapstructure:"seed"`    // 0 = random
	Timeout time.Duration `mapstructure:"timeout"` // 0 = no deadline
	Output  string        `mapstructure:"output"`
}

// OutputPath defaults to "<players>_<mode>.csv".
func (c SimulationConfig) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return fmt.Sprintf("%d_%s.csv", c.Players, c.Mode)
}

func (c RedisConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

var GlobalConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "")
	v.SetDefault("database.dsn", "royal_odds.db")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttlSeconds", 300)
	v.SetDefault("simulation.mode", "postflop")
	v.SetDefault("simulation.rounds", 1_000_000)
	v.SetDefault("simulation.players", 3)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.timeout", "0s")
	v.SetDefault("simulation.output", "")
}

// LoadConfig reads the YAML file at path into GlobalConfig. An empty path
// loads defaults and environment overrides only.
func LoadConfig(path string) error {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("ROYAL_ODDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	GlobalConfig = &cfg
	return nil
}
