package logger

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLBeforeInitIsNop(t *testing.T) {
	Set(nil)
	if L() == nil {
		t.Fatal("expected no-op logger before init")
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	Info(ctx, "hello")
	LogRequest(ctx, "GET", "/healthz", 200, 5*time.Millisecond, "127.0.0.1")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.ContextMap()["request_id"] != "req-42" {
			t.Fatalf("expected request_id field, got %v", entry.ContextMap())
		}
	}
	if entries[1].ContextMap()["status"] != int64(200) {
		t.Fatalf("expected status field, got %v", entries[1].ContextMap()["status"])
	}
}

func TestWithContextNil(t *testing.T) {
	//nolint:staticcheck // nil context is handled explicitly
	if WithContext(nil) == nil {
		t.Fatal("expected base logger for nil context")
	}
}
