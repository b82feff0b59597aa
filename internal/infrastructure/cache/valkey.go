package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"etf-fortune/internal/domain/dataingestion"

	"github.com/valkey-io/valkey-go"
	"github.com/vmihailenco/msgpack/v5"
)

// ValkeyCache 以 msgpack 編碼價格序列存放於 Valkey。
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "etf-fortune"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) ([]dataingestion.DailyPrice, bool, error) {
	raw, err := c.client.Do(ctx, c.client.B().Get().Key(c.key(key)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	prices, err := Decode(raw)
	if err != nil {
		return nil, false, err
	}
	return prices, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, prices []dataingestion.DailyPrice, ttl time.Duration) error {
	payload, err := Encode(prices)
	if err != nil {
		return err
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	cmd := c.client.B().Set().Key(c.key(key)).Value(valkey.BinaryString(payload)).Ex(ttl).Build()
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) key(k string) string {
	return fmt.Sprintf("%s:%s", c.prefix, k)
}

// Encode 以 msgpack 序列化價格序列。
func Encode(prices []dataingestion.DailyPrice) ([]byte, error) {
	return msgpack.Marshal(prices)
}

// Decode 還原 Encode 的輸出。
func Decode(raw []byte) ([]dataingestion.DailyPrice, error) {
	var prices []dataingestion.DailyPrice
	if err := msgpack.Unmarshal(raw, &prices); err != nil {
		return nil, fmt.Errorf("decode cached prices: %w", err)
	}
	return prices, nil
}

// NewValkeyClient 支援 host:port 或 redis:// URL，並以 Ping 確認連線。
func NewValkeyClient(ctx context.Context, addr string) (valkey.Client, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(addr, "://") {
		opt, err = valkey.ParseURL(addr)
		if err != nil {
			return nil, err
		}
	} else {
		opt = valkey.ClientOption{InitAddress: []string{addr}}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping: %w", err)
	}
	return client, nil
}
