package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"orderledger/internal/app/config"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const blobPrefix = "ledger:"

type Client struct {
	cfg    config.RedisConfig
	client *redis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := &Client{cfg: cfg}

	client.client = redis.NewClient(&redis.Options{
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Username:    cfg.User,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if _, err := client.client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("cant ping redis: %w", err)
	}
	logrus.Infof("connected to redis at %s:%d", cfg.Host, cfg.Port)

	return client, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// GetBlob returns the blob stored under key. found is false when the key is absent.
func (c *Client) GetBlob(ctx context.Context, key string) (data []byte, found bool, err error) {
	data, err = c.client.Get(ctx, blobPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *Client) PutBlob(ctx context.Context, key string, data []byte) error {
	return c.client.Set(ctx, blobPrefix+key, data, 0).Err()
}

func (c *Client) DeleteBlob(ctx context.Context, key string) error {
	return c.client.Del(ctx, blobPrefix+key).Err()
}
