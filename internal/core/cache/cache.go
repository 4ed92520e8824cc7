package cache

import (
	"context"

	"onlypans/internal/infrastructure/config"
)

// Store 推薦結果快取的統一介面
// 值為序列化後的 JSON 字串，鍵由呼叫端決定
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// NewStore 依設定選擇快取實作；快取停用時回傳 nil
func NewStore(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Cache.Driver == "redis" {
		return NewRedisStore(cfg)
	}
	return NewManager(cfg), nil
}
