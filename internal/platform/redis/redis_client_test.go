package redis

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestLoadConfig は環境変数から設定を読み込み、未設定値にデフォルトを適用することを検証します。
func TestLoadConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.local")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASSWORD", "pw")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadConfig()
	if cfg.Addr() != "cache.local:6379" {
		t.Errorf("expected addr cache.local:6379, got %q", cfg.Addr())
	}
	if cfg.Password != "pw" || cfg.DB != 2 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

// TestNewRedisClient_NotConfigured はホスト未設定時に ErrNotConfigured を返すことを検証します。
func TestNewRedisClient_NotConfigured(t *testing.T) {
	t.Parallel()

	_, err := NewRedisClient(context.Background(), Config{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

// TestNewRedisClient_Unreachable は接続できない場合にエラーを返すことを検証します。
func TestNewRedisClient_Unreachable(t *testing.T) {
	t.Parallel()

	_, err := NewRedisClient(context.Background(), Config{Host: "127.0.0.1", Port: "1", DialTimeout: 200 * time.Millisecond})
	if err == nil {
		t.Error("expected error for unreachable redis")
	}
}
