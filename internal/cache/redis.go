package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pawal-karki/airwings-core/config"
	"github.com/pawal-karki/airwings-core/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
	searchTTL  time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
		searchTTL:  searchTTL,
	}
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	return c.getFlights(ctx, flightsKey())
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	return c.setFlights(ctx, flightsKey(), flights, c.flightsTTL)
}

// InvalidateFlights drops the full catalog entry and every cached search
// result. Called after any catalog or seat mutation.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, searchKeyPrefix()+"*").Result()
	if err != nil {
		return err
	}
	keys = append(keys, flightsKey())
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) GetSearch(ctx context.Context, query string) ([]domain.Flight, error) {
	return c.getFlights(ctx, searchKey(query))
}

func (c *RedisCache) SetSearch(ctx context.Context, query string, flights []domain.Flight) error {
	return c.setFlights(ctx, searchKey(query), flights, c.searchTTL)
}

func (c *RedisCache) getFlights(ctx context.Context, key string) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) setFlights(ctx context.Context, key string, flights []domain.Flight, ttl time.Duration) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func searchKeyPrefix() string {
	return "cache:search:"
}

func searchKey(query string) string {
	return fmt.Sprintf("%s%s", searchKeyPrefix(), strings.ToLower(query))
}
