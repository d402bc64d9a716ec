package recipedex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey", "redis" or "badger"
	addrs    []string
	password string
	path     string
	inMemory bool

	keyPrefix     string
	defaultLimit  int
	maxLimit      int
	maxImportSize int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithBadger stores the catalog in a BadgerDB directory, created if missing.
func WithBadger(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "badger"
		c.path = path
		c.inMemory = false
	})
}

// WithInMemory keeps the catalog in an in-memory BadgerDB. Nothing is persisted.
func WithInMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "badger"
		c.path = ""
		c.inMemory = true
	})
}

// WithKeyPrefix namespaces every stored key. Default: "recipedex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithLimits sets the result count used when a query passes no limit, and
// the ceiling applied to every query. Defaults: 20 and 100.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithMaxImportSize caps the number of recipes per Import call. Default: 5000.
func WithMaxImportSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxImportSize = size
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
