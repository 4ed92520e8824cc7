package common

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

// 未呼叫 InitLogger 的程序（例如測試）也必須能安全使用日誌封裝
func TestLogWrappersWithoutInit(t *testing.T) {
	if Logger == nil {
		t.Fatal("Logger 預設值不可為 nil")
	}

	LogInfo("流程訊息", zap.String("key", "value"))
	LogDebug("除錯訊息")
	LogWarn("警告訊息")
	LogError("錯誤訊息", zap.Error(errors.New("boom")))
	LogCacheHit("recommendations", "abc")
	LogCacheMiss("recommendations", "abc")
	LogMailDispatch("comment", 5*time.Millisecond, nil)
	LogMailDispatch("rating", 5*time.Millisecond, errors.New("gateway down"))
	Sync()
}

func TestFilterSensitiveFields(t *testing.T) {
	fields := []zap.Field{
		zap.String("email", "user@example.com"),
		zap.String("recipient", "user@example.com"),
		zap.String("mail_body", "hello"),
		zap.String("kind", "weekly_digest"),
	}
	filtered := filterSensitiveFields(fields)
	if len(filtered) != 1 || filtered[0].Key != "kind" {
		t.Fatalf("個資欄位未被過濾: %v", filtered)
	}
}
