package dsql

import (
	"strings"
	"testing"
	"time"
)

func TestNewDialer_Validation(t *testing.T) {
	if _, err := NewDialer(Config{}); err == nil {
		t.Error("missing endpoint should fail")
	}
}

func TestDialer_DSN(t *testing.T) {
	d, err := NewDialer(Config{
		Endpoint:       "cluster.dsql.us-east-1.on.aws",
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewDialer failed: %v", err)
	}

	dsn := d.dsn()
	for _, want := range []string{
		"host=cluster.dsql.us-east-1.on.aws",
		"port=5432",
		"user=admin",
		"dbname=postgres",
		"sslmode=require",
		"connect_timeout=10",
	} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}
	if strings.Contains(dsn, "password") {
		t.Error("dsn must not embed credentials; the token is set per dial")
	}
}

func TestDialer_DSNOverrides(t *testing.T) {
	d, err := NewDialer(Config{
		Endpoint: "db.local",
		Port:     5433,
		Database: "bench",
		User:     "reporting",
	})
	if err != nil {
		t.Fatalf("NewDialer failed: %v", err)
	}

	dsn := d.dsn()
	for _, want := range []string{"port=5433", "dbname=bench", "user=reporting"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}
}

func TestStringify(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{[]byte("bytes"), "bytes"},
		{int64(42), "42"},
		{3.5, "3.5"},
		{true, "true"},
		{ts, "2025-06-01T12:00:00Z"},
	}
	for _, tt := range tests {
		if got := stringify(tt.in); got != tt.want {
			t.Errorf("stringify(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
