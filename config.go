package mqtt311

import (
	"crypto/tls"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config mirrors the option surface for file-based configuration.
// Zero values fall back to the documented defaults; pointer fields
// distinguish "absent" from an explicit false or zero.
type Config struct {
	Server       string      `yaml:"server"`
	Port         int         `yaml:"port"`
	ClientID     string      `yaml:"client_id"`
	User         string      `yaml:"user"`
	Password     string      `yaml:"password"`
	Keepalive    *uint16     `yaml:"keepalive"`
	PingInterval int         `yaml:"ping_interval"`
	SSL          bool        `yaml:"ssl"`
	ResponseTime int         `yaml:"response_time"`
	CleanInit    *bool       `yaml:"clean_init"`
	Clean        *bool       `yaml:"clean"`
	MaxRepubs    *int        `yaml:"max_repubs"`
	Will         *WillConfig `yaml:"will"`
}

// WillConfig is the will message section of a Config.
type WillConfig struct {
	Topic   string `yaml:"topic"`
	Message string `yaml:"message"`
	Retain  bool   `yaml:"retain"`
	QoS     byte   `yaml:"qos"`
}

// LoadConfig reads a YAML client configuration from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Options translates the configuration into client options.
func (c *Config) Options() []Option {
	opts := []Option{WithServer(c.Server)}

	if c.Port != 0 {
		opts = append(opts, WithPort(c.Port))
	}
	if c.ClientID != "" {
		opts = append(opts, WithClientID(c.ClientID))
	}
	if c.User != "" {
		opts = append(opts, WithCredentials(c.User, c.Password))
	}
	if c.Keepalive != nil {
		opts = append(opts, WithKeepAlive(*c.Keepalive))
	}
	if c.PingInterval > 0 {
		opts = append(opts, WithPingInterval(time.Duration(c.PingInterval)*time.Second))
	}
	if c.SSL {
		opts = append(opts, WithTLS(&tls.Config{ServerName: c.Server}))
	}
	if c.ResponseTime > 0 {
		opts = append(opts, WithResponseTime(time.Duration(c.ResponseTime)*time.Second))
	}
	if c.CleanInit != nil {
		opts = append(opts, WithCleanInit(*c.CleanInit))
	}
	if c.Clean != nil {
		opts = append(opts, WithCleanReconnect(*c.Clean))
	}
	if c.MaxRepubs != nil {
		opts = append(opts, WithMaxRepubs(*c.MaxRepubs))
	}
	if c.Will != nil {
		opts = append(opts, WithWill(c.Will.Topic, []byte(c.Will.Message), c.Will.Retain, c.Will.QoS))
	}

	return opts
}
