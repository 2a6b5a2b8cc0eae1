// Package config loads the static configuration of the bot and its
// environment. Both are read once at startup and never modified afterwards.
package config

import (
	"fmt"
	"os"
	"time"

	"go.n16f.net/ejson"
	"go.n16f.net/log"
)

const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 27015
	DefaultIntervalSeconds = 60
	DefaultQueryTimeout    = 3
)

type Config struct {
	DefaultServer ServerCfg        `json:"defaultServer"`
	Query         QueryCfg         `json:"query"`
	RCON          RCONCfg          `json:"rcon"`
	UpdateMessage UpdateMessageCfg `json:"updateMessage"`
	StatusFeed    *StatusFeedCfg   `json:"statusFeed,omitempty"`
	Logger        *LoggerCfg       `json:"logger,omitempty"`
}

func (cfg *Config) ValidateJSON(v *ejson.Validator) {
	v.CheckObject("defaultServer", &cfg.DefaultServer)
	v.CheckObject("query", &cfg.Query)
	v.CheckObject("rcon", &cfg.RCON)
	v.CheckObject("updateMessage", &cfg.UpdateMessage)
	v.CheckOptionalObject("statusFeed", cfg.StatusFeed)
	v.CheckOptionalObject("logger", cfg.Logger)
}

type ServerCfg struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (cfg *ServerCfg) ValidateJSON(v *ejson.Validator) {
	if cfg.Port != 0 {
		v.CheckIntMinMax("port", cfg.Port, 1, 65535)
	}
}

// Address returns the configured server address, falling back to the local
// host and the default game port.
func (cfg *ServerCfg) Address() (string, int) {
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	return host, port
}

type QueryCfg struct {
	TimeoutSeconds int `json:"timeoutSeconds"`
}

func (cfg *QueryCfg) ValidateJSON(v *ejson.Validator) {
	if cfg.TimeoutSeconds != 0 {
		v.CheckIntMinMax("timeoutSeconds", cfg.TimeoutSeconds, 1, 60)
	}
}

func (cfg *QueryCfg) Timeout() time.Duration {
	if cfg.TimeoutSeconds == 0 {
		return DefaultQueryTimeout * time.Second
	}

	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

type RCONCfg struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
}

func (cfg *RCONCfg) ValidateJSON(v *ejson.Validator) {
	if cfg.Port != 0 {
		v.CheckIntMinMax("port", cfg.Port, 1, 65535)
	}
}

// Address returns the console address, using the address of the queried
// server for missing values.
func (cfg *RCONCfg) Address(host string, port int) (string, int) {
	if cfg.Host != "" {
		host = cfg.Host
	}
	if cfg.Port != 0 {
		port = cfg.Port
	}

	return host, port
}

type UpdateMessageCfg struct {
	Enabled         bool   `json:"enabled"`
	ChannelId       string `json:"channelId"`
	IntervalSeconds int    `json:"intervalSeconds"`
	MessageId       string `json:"messageId"`
}

func (cfg *UpdateMessageCfg) ValidateJSON(v *ejson.Validator) {
	if cfg.IntervalSeconds != 0 {
		v.CheckIntMinMax("intervalSeconds", cfg.IntervalSeconds, 1, 86400)
	}
}

func (cfg *UpdateMessageCfg) Interval() time.Duration {
	if cfg.IntervalSeconds == 0 {
		return DefaultIntervalSeconds * time.Second
	}

	return time.Duration(cfg.IntervalSeconds) * time.Second
}

type StatusFeedCfg struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address"`
}

func (cfg *StatusFeedCfg) ValidateJSON(v *ejson.Validator) {
	if cfg.Enabled {
		v.CheckNetworkAddress("address", cfg.Address)
	}
}

type LoggerCfg struct {
	DebugLevel int  `json:"debugLevel"`
	JSON       bool `json:"json"`
	Color      bool `json:"color"`
}

func (cfg *LoggerCfg) ValidateJSON(v *ejson.Validator) {
	v.CheckIntMinMax("debugLevel", cfg.DebugLevel, 0, 2)
}

func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", filePath, err)
	}

	var cfg Config
	if err := ejson.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse %q: %w", filePath, err)
	}

	return &cfg, nil
}

// NewLogger creates the logger described by the configuration, or the
// default terminal logger if there is no logger block.
func (cfg *Config) NewLogger(name string) (*log.Logger, error) {
	if cfg.Logger == nil {
		return log.DefaultLogger(name), nil
	}

	var loggerCfg log.LoggerCfg

	if cfg.Logger.JSON {
		loggerCfg.BackendType = log.BackendTypeJSON
		loggerCfg.JSONBackend = &log.JSONBackendCfg{}
	} else {
		loggerCfg.BackendType = log.BackendTypeTerminal
		loggerCfg.TerminalBackend = &log.TerminalBackendCfg{
			Color: cfg.Logger.Color,
		}
	}

	loggerCfg.DebugLevel = cfg.Logger.DebugLevel

	logger, err := log.NewLogger(name, loggerCfg)
	if err != nil {
		return nil, fmt.Errorf("cannot create logger: %w", err)
	}

	return logger, nil
}
