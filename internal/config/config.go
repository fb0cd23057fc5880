package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"botpoker-server/internal/util"
)

// Config provides configuration for the bot poker server
type Config struct {
	loaded bool

	Addr string `yaml:"addr" envconfig:"addr"`

	// Players is the number of seats to wait for before the game starts
	Players int `yaml:"players" envconfig:"players"`

	// CallBots is how many built-in call bots join the table
	CallBots int `yaml:"callBots" envconfig:"call_bots"`

	// RandomBots is how many built-in random-action bots join the table
	RandomBots int `yaml:"randomBots" envconfig:"random_bots"`

	StartingStack int `yaml:"startingStack" envconfig:"starting_stack"`
	Ante          int `yaml:"ante" envconfig:"ante"`

	// TurnTimeoutMs is the decision window per turn, in milliseconds
	TurnTimeoutMs int `yaml:"turnTimeoutMs" envconfig:"turn_timeout_ms"`

	// JoinWindowSec is how long the server waits for players to connect
	JoinWindowSec int `yaml:"joinWindowSec" envconfig:"join_window_sec"`

	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is fine; the
// environment and defaults still apply.
func Load() error {
	config = Config{}

	configFile := util.Getenv("BP_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		err = yaml.NewDecoder(file).Decode(&config)
		_ = file.Close()
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("bp", &config); err != nil {
		return err
	}

	config.applyDefaults()
	config.loaded = true
	return nil
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":5000"
	}

	if c.Players == 0 {
		c.Players = 4
	}

	if c.StartingStack == 0 {
		c.StartingStack = 500
	}

	if c.Ante == 0 {
		c.Ante = 1
	}

	if c.TurnTimeoutMs == 0 {
		c.TurnTimeoutMs = 1000
	}

	if c.JoinWindowSec == 0 {
		c.JoinWindowSec = 60
	}
}

// TurnTimeout returns the per-turn decision window
func (c Config) TurnTimeout() time.Duration {
	return time.Duration(c.TurnTimeoutMs) * time.Millisecond
}

// JoinWindow returns how long the server waits for the table to fill
func (c Config) JoinWindow() time.Duration {
	return time.Duration(c.JoinWindowSec) * time.Second
}
