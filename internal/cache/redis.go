package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client caches raw upstream JSON for the optional PMS catalogs (extra
// charges, configured payment gateways). Booking state is never cached; the
// PMS stays the only owner of reservations.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	return &Client{client: rdb, ttl: ttl}, nil
}

// GetCatalogRaw returns the cached raw JSON for a catalog key
func (c *Client) GetCatalogRaw(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, "catalog:"+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("catalog %s not in cache", key)
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

// SetCatalogRaw stores the raw JSON for a catalog key under the configured TTL
func (c *Client) SetCatalogRaw(ctx context.Context, key string, data []byte) error {
	return c.client.Set(ctx, "catalog:"+key, data, c.ttl).Err()
}

func (c *Client) Close() error {
	return c.client.Close()
}
