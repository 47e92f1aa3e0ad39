package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the spectrum engine.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Engine  EngineConfig  `yaml:"engine"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
}

// ServerConfig controls gRPC listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// EngineConfig sizes histories and sets the scan cadence advertised to scanners.
type EngineConfig struct {
	CongestionCapacity int           `yaml:"congestionCapacity"`
	HuntCapacity       int           `yaml:"huntCapacity"`
	TrendWindow        time.Duration `yaml:"trendWindow"`
	ScanInterval       time.Duration `yaml:"scanInterval"`
	HuntInterval       time.Duration `yaml:"huntInterval"`
	HopProxyThreshold  int           `yaml:"hopProxyThreshold"`
	RulesPath          string        `yaml:"rulesPath"`
}

// MQTTConfig controls snapshot ingest and report publishing over MQTT.
type MQTTConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Broker      string        `yaml:"broker"`
	ClientID    string        `yaml:"clientID"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	TopicPrefix string        `yaml:"topicPrefix"`
	QoS         int           `yaml:"qos"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SPECTRUM_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.ScanInterval < 3*time.Second || c.Engine.ScanInterval > 120*time.Second {
		return fmt.Errorf("engine.scanInterval %s outside 3s-120s", c.Engine.ScanInterval)
	}
	if c.Engine.HuntInterval <= 0 {
		return fmt.Errorf("engine.huntInterval must be positive")
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos %d must be 0, 1 or 2", c.MQTT.QoS)
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":50061",
			MetricsAddress:  ":2113",
			GracefulTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Engine: EngineConfig{
			CongestionCapacity: 100,
			HuntCapacity:       1000,
			TrendWindow:        5 * time.Minute,
			ScanInterval:       5 * time.Second,
			HuntInterval:       2 * time.Second,
			HopProxyThreshold:  15,
			RulesPath:          "configs/rules/default.yaml",
		},
		MQTT: MQTTConfig{
			Enabled:     false,
			ClientID:    "spectrum-engine",
			TopicPrefix: "spectrum",
			QoS:         1,
			Timeout:     5 * time.Second,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPECTRUM_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("SPECTRUM_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("SPECTRUM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SPECTRUM_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("SPECTRUM_RULES_PATH"); v != "" {
		cfg.Engine.RulesPath = v
	}
	if v := os.Getenv("SPECTRUM_SCAN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Engine.ScanInterval = d
		}
	}
	if v := os.Getenv("SPECTRUM_HUNT_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Engine.HuntInterval = d
		}
	}
	if v := os.Getenv("SPECTRUM_TREND_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Engine.TrendWindow = d
		}
	}
	if v := os.Getenv("SPECTRUM_HUNT_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.HuntCapacity = n
		}
	}
	if v := os.Getenv("SPECTRUM_CONGESTION_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.CongestionCapacity = n
		}
	}
	if v := os.Getenv("SPECTRUM_MQTT_ENABLED"); v != "" {
		cfg.MQTT.Enabled = strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
	}
	if v := os.Getenv("SPECTRUM_MQTT_BROKER"); v != "" {
		cfg.MQTT.Broker = v
	}
	if v := os.Getenv("SPECTRUM_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Username = v
	}
	if v := os.Getenv("SPECTRUM_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Password = v
	}
	if v := os.Getenv("SPECTRUM_MQTT_TOPIC_PREFIX"); v != "" {
		cfg.MQTT.TopicPrefix = v
	}
}
