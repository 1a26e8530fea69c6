package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultShell           = "/index.html"
	DefaultSyncTag         = "sync-tasks"
	DefaultQueueBackend    = QueueBackendBadger
	DefaultListenAddr      = ":8080"
	DefaultPushTitle       = "Tasks"
	DefaultPushBody        = "You have new task updates"
	DefaultPushRootURL     = "/"
	DefaultKeyDBKeyPrefix  = "offline-worker:"
	defaultSyncTimeout     = 10 * time.Second
	defaultFetchTimeout    = 30 * time.Second
	defaultTokenTTL        = 5 * time.Minute
	defaultConnectTimeout  = 2 * time.Second
	defaultIOTimeout       = 2 * time.Second
	defaultPoolSize        = 10
	defaultMaxIdleTimeout  = 30 * time.Second
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultOutboxCapacity  = 100
	defaultMetricsInterval = 30 * time.Second
)

// Queue backends
const (
	QueueBackendBadger = "badger"
	QueueBackendSQLite = "sqlite"
)

var validate = validator.New()

// Config represents the main configuration structure
type Config struct {
	Worker     WorkerConfig     `yaml:"worker"`
	BigCache   BigCacheConfig   `yaml:"bigcache"`
	KeyDB      KeyDBConfig      `yaml:"keydb"`
	MultiCache MultiCacheConfig `yaml:"multi_cache"`
	Network    NetworkConfig    `yaml:"network"`
	Queue      QueueConfig      `yaml:"queue"`
	Sync       SyncConfig       `yaml:"sync"`
	Push       PushConfig       `yaml:"push"`
	Server     ServerConfig     `yaml:"server"`
}

// WorkerConfig holds the values injected into the worker at start-up
type WorkerConfig struct {
	// Version names the current cache generation. Bump it whenever the
	// manifest changes so the previous generation is purged on activation.
	Version  string   `yaml:"version" validate:"required"`
	Origin   string   `yaml:"origin" validate:"required,url"`
	Shell    string   `yaml:"shell" validate:"required,startswith=/"`
	Manifest []string `yaml:"manifest" validate:"dive,required,startswith=/"`
	SyncTag  string   `yaml:"sync_tag" validate:"required"`
}

// BigCacheConfig configures the in-memory L1 generation store. It is
// unbounded: entries only leave with their generation.
type BigCacheConfig struct {
	// Enabled defaults to true. Disabling it requires KeyDB.
	Enabled *bool `yaml:"enabled"`
}

// ApplyDefaults fills missing BigCache values
func (c *BigCacheConfig) ApplyDefaults() {
	if c.Enabled == nil {
		enabled := true
		c.Enabled = &enabled
	}
}

// IsEnabled reports whether the L1 level is used
func (c *BigCacheConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// KeyDBConnection holds KeyDB connection timeouts
type KeyDBConnection struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SendTimeout    time.Duration `yaml:"send_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

// KeyDBKeepalive holds KeyDB pool settings
type KeyDBKeepalive struct {
	PoolSize       int           `yaml:"pool_size" validate:"gte=0"`
	MaxIdleTimeout time.Duration `yaml:"max_idle_timeout"`
}

// KeyDBConfig configures the durable L2 generation store
type KeyDBConfig struct {
	Enabled    bool            `yaml:"enabled"`
	KeyPrefix  string          `yaml:"key_prefix"`
	Connection KeyDBConnection `yaml:"connection"`
	Keepalive  KeyDBKeepalive  `yaml:"keepalive"`
}

// ApplyDefaults fills missing KeyDB values
func (c *KeyDBConfig) ApplyDefaults() {
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyDBKeyPrefix
	}
	if c.Connection.ConnectTimeout == 0 {
		c.Connection.ConnectTimeout = defaultConnectTimeout
	}
	if c.Connection.SendTimeout == 0 {
		c.Connection.SendTimeout = defaultIOTimeout
	}
	if c.Connection.ReadTimeout == 0 {
		c.Connection.ReadTimeout = defaultIOTimeout
	}
	if c.Keepalive.PoolSize == 0 {
		c.Keepalive.PoolSize = defaultPoolSize
	}
	if c.Keepalive.MaxIdleTimeout == 0 {
		c.Keepalive.MaxIdleTimeout = defaultMaxIdleTimeout
	}
}

// GetReadTimeout returns the timeout applied to KeyDB reads
func (c *KeyDBConfig) GetReadTimeout() time.Duration {
	if c.Connection.ReadTimeout == 0 {
		return defaultIOTimeout
	}
	return c.Connection.ReadTimeout
}

// GetSendTimeout returns the timeout applied to KeyDB writes
func (c *KeyDBConfig) GetSendTimeout() time.Duration {
	if c.Connection.SendTimeout == 0 {
		return defaultIOTimeout
	}
	return c.Connection.SendTimeout
}

// MultiCacheConfig configures the layered generation store
type MultiCacheConfig struct {
	EnablePropagation bool `yaml:"enable_propagation"`
}

// NetworkConfig configures the fetcher that reaches the origin
type NetworkConfig struct {
	// Upstream is where same-origin requests are actually sent, for when the
	// worker itself is served on the public origin. Empty means the origin.
	Upstream string        `yaml:"upstream" validate:"omitempty,url"`
	Timeout  time.Duration `yaml:"timeout"`
}

// QueueConfig configures the durable record store
type QueueConfig struct {
	Backend string `yaml:"backend" validate:"oneof=badger sqlite"`
	// Path is the Badger directory or the SQLite file. An empty Badger path
	// keeps the queue in memory.
	Path string `yaml:"path"`
}

// SyncAuthConfig configures bearer tokens sent with deliveries
type SyncAuthConfig struct {
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// SyncConfig configures delivery of deferred writes
type SyncConfig struct {
	Endpoint string        `yaml:"endpoint" validate:"required,url"`
	Timeout  time.Duration `yaml:"timeout"`
	// Interval is the cadence at which the host re-triggers sync on its
	// own. Zero leaves sync to external triggers only.
	Interval time.Duration  `yaml:"interval"`
	Auth     SyncAuthConfig `yaml:"auth"`
}

// PushConfig configures notifications built from push messages
type PushConfig struct {
	Title          string `yaml:"title"`
	DefaultBody    string `yaml:"default_body"`
	Icon           string `yaml:"icon"`
	Badge          string `yaml:"badge"`
	OpenTitle      string `yaml:"open_title"`
	CloseTitle     string `yaml:"close_title"`
	RootURL        string `yaml:"root_url"`
	OutboxCapacity int    `yaml:"outbox_capacity" validate:"gte=0"`
}

// ServerConfig configures the HTTP host
type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	SocketPath      string        `yaml:"socket_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	MetricsInterval time.Duration `yaml:"metrics_interval"`
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	// Apply defaults
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ErrNoCacheLevel is returned when both cache levels are disabled
var ErrNoCacheLevel = errors.New("at least one of bigcache and keydb must be enabled")

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !c.BigCache.IsEnabled() && !c.KeyDB.Enabled {
		return fmt.Errorf("invalid configuration: %w", ErrNoCacheLevel)
	}
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Worker.Shell == "" {
		c.Worker.Shell = DefaultShell
	}
	if c.Worker.SyncTag == "" {
		c.Worker.SyncTag = DefaultSyncTag
	}

	c.BigCache.ApplyDefaults()
	c.KeyDB.ApplyDefaults()

	if c.Network.Timeout == 0 {
		c.Network.Timeout = defaultFetchTimeout
	}

	if c.Queue.Backend == "" {
		c.Queue.Backend = DefaultQueueBackend
	}

	if c.Sync.Timeout == 0 {
		c.Sync.Timeout = defaultSyncTimeout
	}
	if c.Sync.Auth.TokenTTL == 0 {
		c.Sync.Auth.TokenTTL = defaultTokenTTL
	}

	if c.Push.Title == "" {
		c.Push.Title = DefaultPushTitle
	}
	if c.Push.DefaultBody == "" {
		c.Push.DefaultBody = DefaultPushBody
	}
	if c.Push.OpenTitle == "" {
		c.Push.OpenTitle = "Open"
	}
	if c.Push.CloseTitle == "" {
		c.Push.CloseTitle = "Close"
	}
	if c.Push.RootURL == "" {
		c.Push.RootURL = DefaultPushRootURL
	}
	if c.Push.OutboxCapacity == 0 {
		c.Push.OutboxCapacity = defaultOutboxCapacity
	}

	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListenAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaultWriteTimeout
	}
	if c.Server.MetricsInterval == 0 {
		c.Server.MetricsInterval = defaultMetricsInterval
	}
}
