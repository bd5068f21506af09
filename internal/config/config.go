package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env       string          `mapstructure:"env"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Checks    ChecksConfig    `mapstructure:"checks"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type StorageConfig struct {
	URI          string `mapstructure:"uri"`
	SeedDefaults bool   `mapstructure:"seed_defaults"`
	ResultsLimit int    `mapstructure:"results_limit"`
}

type SchedulerConfig struct {
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	KillGrace      time.Duration `mapstructure:"kill_grace"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type ChecksConfig struct {
	Ping       PingConfig       `mapstructure:"ping"`
	Traceroute TracerouteConfig `mapstructure:"traceroute"`
	DNS        DNSConfig        `mapstructure:"dns"`
	Ookla      OoklaConfig      `mapstructure:"ookla"`
	IPerf3     IPerf3Config     `mapstructure:"iperf3"`
	Fast       FastConfig       `mapstructure:"fast"`
}

type PingConfig struct {
	Mode       string `mapstructure:"mode"`
	Privileged bool   `mapstructure:"privileged"`
	Count      int    `mapstructure:"count"`
}

type TracerouteConfig struct {
	MaxHops int `mapstructure:"max_hops"`
}

type DNSConfig struct {
	ResolvConf      string   `mapstructure:"resolv_conf"`
	FallbackServers []string `mapstructure:"fallback_servers"`
}

type OoklaConfig struct {
	Binary string `mapstructure:"binary"`
}

type IPerf3Config struct {
	Binary   string `mapstructure:"binary"`
	Duration int    `mapstructure:"duration"`
}

type FastConfig struct {
	URLCount int           `mapstructure:"url_count"`
	Duration time.Duration `mapstructure:"duration"`
}

type KafkaConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Brokers []string    `mapstructure:"brokers"`
	GroupID string      `mapstructure:"group_id"`
	Topics  KafkaTopics `mapstructure:"topics"`
}

type KafkaTopics struct {
	Results     string `mapstructure:"results"`
	Definitions string `mapstructure:"definitions"`
}

type BackendConfig struct {
	URL               string        `mapstructure:"url"`
	Name              string        `mapstructure:"name"`
	Token             string        `mapstructure:"token"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load reads CONFIG_PATH when set, otherwise config/local.yaml or ./local.yaml
// if present. Environment variables override file values (server.address is
// SERVER_ADDRESS).
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("CONFIG_PATH"))
}

func LoadFrom(path string) (*Config, error) {
	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("local")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return current()
}

func current() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Watch calls onChange with the reloaded config every time the config file
// changes. Reloads that fail to decode or validate are reported to onError.
func Watch(onChange func(*Config), onError func(error)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := current()
		if err != nil {
			onError(fmt.Errorf("reload %s: %w", e.Name, err))
			return
		}
		onChange(cfg)
	})
	viper.WatchConfig()
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("invalid env %q: want %s, %s or %s", c.Env, EnvLocal, EnvDev, EnvProd)
	}

	if c.Storage.URI == "" {
		return errors.New("storage.uri is required")
	}
	if c.Scheduler.TickInterval <= 0 {
		return errors.New("scheduler.tick_interval must be positive")
	}

	switch c.Checks.Ping.Mode {
	case "exec", "native":
	default:
		return fmt.Errorf("invalid checks.ping.mode %q: want exec or native", c.Checks.Ping.Mode)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required when kafka is enabled")
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("env", EnvLocal)

	viper.SetDefault("server.address", ":8000")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})

	viper.SetDefault("storage.uri", "memory://")
	viper.SetDefault("storage.seed_defaults", true)
	viper.SetDefault("storage.results_limit", 1000)

	viper.SetDefault("scheduler.tick_interval", 10*time.Second)
	viper.SetDefault("scheduler.kill_grace", 2*time.Second)
	viper.SetDefault("scheduler.publish_timeout", 10*time.Second)

	viper.SetDefault("checks.ping.mode", "exec")
	viper.SetDefault("checks.ping.privileged", false)
	viper.SetDefault("checks.ping.count", 3)
	viper.SetDefault("checks.traceroute.max_hops", 15)
	viper.SetDefault("checks.dns.resolv_conf", "/etc/resolv.conf")
	viper.SetDefault("checks.dns.fallback_servers", []string{"8.8.8.8", "1.1.1.1", "8.8.4.4", "1.0.0.1"})
	viper.SetDefault("checks.ookla.binary", "speedtest")
	viper.SetDefault("checks.iperf3.binary", "iperf3")
	viper.SetDefault("checks.iperf3.duration", 5)
	viper.SetDefault("checks.fast.url_count", 5)
	viper.SetDefault("checks.fast.duration", 10*time.Second)

	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.group_id", "pingdumb")
	viper.SetDefault("kafka.topics.results", "check-results")
	viper.SetDefault("kafka.topics.definitions", "check-definitions")

	viper.SetDefault("backend.url", "")
	viper.SetDefault("backend.name", "")
	viper.SetDefault("backend.token", "")
	viper.SetDefault("backend.heartbeat_interval", 30*time.Second)

	viper.SetDefault("log.level", "")
	viper.SetDefault("log.file", "")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age_days", 28)
}
