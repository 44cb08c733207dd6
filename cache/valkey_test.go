package cache

import (
	"context"
	"testing"
	"time"
)

func TestNewValkeyCache_Validation(t *testing.T) {
	if _, err := NewValkeyCache(ValkeyConfig{}, nil); err == nil {
		t.Error("missing addr should fail")
	}
}

func TestNewValkeyCache_TLSByDefault(t *testing.T) {
	c, err := NewValkeyCache(ValkeyConfig{Addr: "cache.local:6379"}, nil)
	if err != nil {
		t.Fatalf("NewValkeyCache failed: %v", err)
	}
	defer c.Close()

	tlsConf := c.client.Options().TLSConfig
	if tlsConf == nil {
		t.Fatal("transport should be TLS unless NoTLS is set")
	}
	if tlsConf.InsecureSkipVerify {
		t.Error("hostname verification should be on by default")
	}

	plain, err := NewValkeyCache(ValkeyConfig{Addr: "cache.local:6379", NoTLS: true}, nil)
	if err != nil {
		t.Fatalf("NewValkeyCache failed: %v", err)
	}
	defer plain.Close()
	if plain.client.Options().TLSConfig != nil {
		t.Error("NoTLS should leave the transport unencrypted")
	}
}

func TestValkeyCache_TransportFailureIsMiss(t *testing.T) {
	// Point at a port nothing listens on: every operation fails at dial,
	// and Get must degrade to a miss rather than surface an error.
	c, err := NewValkeyCache(ValkeyConfig{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		OpTimeout:   200 * time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("NewValkeyCache failed: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	val, ok := c.Get(ctx, "any-key")
	if ok {
		t.Error("Get against unreachable endpoint should report a miss")
	}
	if val != nil {
		t.Error("Get against unreachable endpoint should return nil value")
	}

	// Set and Ping do surface transport errors to their callers.
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err == nil {
		t.Error("Set against unreachable endpoint should error")
	}
	if err := c.Ping(ctx); err == nil {
		t.Error("Ping against unreachable endpoint should error")
	}
}

func TestValkeyCache_SetZeroTTLIsNoop(t *testing.T) {
	c, err := NewValkeyCache(ValkeyConfig{Addr: "127.0.0.1:1"}, nil)
	if err != nil {
		t.Fatalf("NewValkeyCache failed: %v", err)
	}
	defer c.Close()

	// TTL=0 never touches the transport, so no error even when unreachable.
	if err := c.Set(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Errorf("Set with TTL=0 should be a no-op, got %v", err)
	}
}
