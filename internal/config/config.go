package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env     string        `yaml:"env" env-default:"prod"`
	Link    LinkConfig    `yaml:"link"`
	Monitor MonitorConfig `yaml:"monitor"`
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log"`
}

type LinkConfig struct {
	// Address is the UDP listen address for inbound MAVLink traffic.
	Address string `yaml:"address" env:"LINK_ADDRESS" env-default:"0.0.0.0:14550"`
	// TickInterval is the dispatch period: one non-blocking receive
	// attempt is made per tick.
	TickInterval time.Duration `yaml:"tick_interval" env-default:"50ms"`
	// HeartbeatTimeout bounds the startup heartbeat gate.
	// Zero means wait forever.
	HeartbeatTimeout time.Duration `yaml:"heartbeat_timeout" env-default:"0"`
}

type MonitorConfig struct {
	// MaxMessages caps the status log; the oldest entry is evicted
	// when a new one would exceed it.
	MaxMessages int `yaml:"max_messages" env-default:"100"`
	// StaleAfter is how long without any telemetry before the health
	// endpoint reports the link as degraded.
	StaleAfter time.Duration `yaml:"stale_after" env-default:"5s"`
}

type APIConfig struct {
	Enabled bool   `yaml:"enabled" env-default:"true"`
	Address string `yaml:"address" env-default:":8080"`
}

type LogConfig struct {
	Level  string `yaml:"level" env-default:"info"`
	Format string `yaml:"format" env-default:"text"`
	// File receives log output in interactive mode, where the terminal
	// belongs to the TUI. Empty means discard (interactive) or stderr
	// (headless).
	File string `yaml:"file" env-default:""`
}

func MustLoad(configPath string) *Config {
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	var cfg Config

	// Without a config file the defaults plus environment are enough to
	// run; a path that is given but missing is an operator error.
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			panic("failed to read config from environment: " + err.Error())
		}
		return &cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("failed to read config: " + err.Error())
	}

	return &cfg
}
