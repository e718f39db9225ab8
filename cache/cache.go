// Package cache is a thin wrapper around a remote cache server, based on
// github.com/redis/go-redis/v9. It adds no serialization, retries or
// invalidation logic of its own.
package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the set of cache operations available to consumers of the
// query builder.
type Store interface {
	// Set stores a value under key. A zero ttl means the value doesn't
	// expire.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Get returns the value stored under key. ok is false if the key
	// doesn't exist (or expired).
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// FlushAll removes every key from the server.
	FlushAll(ctx context.Context) error

	// Stats returns the server's statistics as key/value pairs.
	Stats(ctx context.Context) (map[string]string, error)

	// Close closes the connection to the server.
	Close() error
}

// Config holds the parameters for the cache connection.
type Config struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// DefaultConfig returns the fixed configuration used by GetInstance when
// nothing else was registered with Configure: the fixed cache host on the
// standard redis port.
func DefaultConfig() Config {
	return Config{
		Host: "www.cat.com",
		Port: 6379,
	}
}

// Addr returns the host:port address of the server.
func (cfg Config) Addr() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}

// Client implements Store over a redis connection.
type Client struct {
	rdb redis.UniversalClient
}

var _ Store = (*Client)(nil)

// New creates a client for the server described by cfg. The connection
// is established on first use. Failed commands are not retried.
func New(cfg Config) *Client {
	return NewFromRedis(redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
		MaxRetries:  -1,
	}))
}

// NewFromRedis creates a client from an existing redis client.
func NewFromRedis(rdb redis.UniversalClient) *Client {
	return &Client{rdb: rdb}
}

var (
	instanceMu  sync.Mutex
	instance    *Client
	instanceCfg = DefaultConfig()
)

// Configure sets the configuration GetInstance uses the next time it has
// to create the client.
func Configure(cfg Config) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	instanceCfg = cfg
}

// GetInstance returns the process-wide client, creating it on first use.
func GetInstance() *Client {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance == nil {
		instance = New(instanceCfg)
	}
	return instance
}

// Set implements Store.
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Get implements Store.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.rdb.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	return value, true, nil
}

// Delete implements Store.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache: delete %s: %w", key, err)
	}
	return nil
}

// FlushAll implements Store.
func (c *Client) FlushAll(ctx context.Context) error {
	if err := c.rdb.FlushAll(ctx).Err(); err != nil {
		return fmt.Errorf("cache: flush: %w", err)
	}
	return nil
}

// Stats implements Store.
func (c *Client) Stats(ctx context.Context) (map[string]string, error) {
	info, err := c.rdb.Info(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("cache: stats: %w", err)
	}
	return parseInfo(info), nil
}

// Close implements Store. If c is the process-wide client, the next call
// to GetInstance creates a new one.
func (c *Client) Close() error {
	instanceMu.Lock()
	if instance == c {
		instance = nil
	}
	instanceMu.Unlock()

	return c.rdb.Close()
}

// parseInfo turns the output of the INFO command ("# Section" headers
// followed by "key:value" lines) into a map.
func parseInfo(info string) map[string]string {
	stats := make(map[string]string)
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		stats[key] = value
	}
	return stats
}
