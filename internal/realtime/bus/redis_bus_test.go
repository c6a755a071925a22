package bus

import (
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/realtime"
)

func TestNewRedisBusValidation(t *testing.T) {
	if _, err := NewRedisBus(nil, goredis.NewClient(&goredis.Options{}), ""); err == nil {
		t.Fatalf("expected error for nil logger")
	}
	if _, err := NewRedisBus(logger.Nop(), nil, ""); err == nil {
		t.Fatalf("expected error for nil client")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	b, err := NewRedisBus(logger.Nop(), rdb, "  ")
	if err != nil {
		t.Fatalf("NewRedisBus: %v", err)
	}
	if got := b.(*redisBus).channel; got != DefaultChannel {
		t.Fatalf("expected default channel, got %q", got)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close without subscription: %v", err)
	}
}

func TestDecodePayload(t *testing.T) {
	msg, err := decode(`{"channel":"group:1","event":"MessageCreated","data":{"content":"hi"}}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Channel != "group:1" || msg.Event != realtime.SSEEventMessageCreated {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if _, err := decode(`{"event":"MessageCreated"}`); err == nil {
		t.Fatalf("expected error for missing channel")
	}
	if _, err := decode(`not json`); err == nil {
		t.Fatalf("expected error for bad json")
	}
}
