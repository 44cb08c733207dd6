package cache

import (
	"errors"
	"strings"
	"testing"
)

func TestQueryKeyer_Verbatim(t *testing.T) {
	keyer := NewQueryKeyer()

	query := "SELECT * FROM users1;"
	key, err := keyer.Key(query)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if key != query {
		t.Errorf("Key = %q, want the literal query %q", key, query)
	}
}

func TestQueryKeyer_NoNormalization(t *testing.T) {
	keyer := NewQueryKeyer()

	// Whitespace and case differences are distinct entries.
	variants := []string{
		"SELECT * FROM users1;",
		"select * from users1;",
		"SELECT  *  FROM users1;",
	}
	seen := make(map[string]bool)
	for _, q := range variants {
		key, err := keyer.Key(q)
		if err != nil {
			t.Fatalf("Key(%q) failed: %v", q, err)
		}
		if seen[key] {
			t.Errorf("variant %q collided with another key", q)
		}
		seen[key] = true
	}
}

func TestQueryKeyer_InvalidKeys(t *testing.T) {
	keyer := NewQueryKeyer()

	if _, err := keyer.Key(""); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("empty query = %v, want ErrInvalidKey", err)
	}
	if _, err := keyer.Key("   "); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("blank query = %v, want ErrInvalidKey", err)
	}
}

func TestQueryKeyer_OversizedFallsBackToHash(t *testing.T) {
	keyer := NewQueryKeyer()

	query := "SELECT * FROM users1 WHERE note = '" + strings.Repeat("x", MaxKeyLength) + "';"
	key1, err := keyer.Key(query)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if key1 == query {
		t.Fatal("oversized query should not be used verbatim")
	}
	if len(key1) > MaxKeyLength {
		t.Errorf("fallback key length %d exceeds MaxKeyLength", len(key1))
	}
	if !strings.HasPrefix(key1, "q:") {
		t.Errorf("fallback key %q missing hash prefix", key1)
	}

	// Still deterministic, still distinct per query.
	key2, err := keyer.Key(query)
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if key1 != key2 {
		t.Errorf("same oversized query produced different keys: %q vs %q", key1, key2)
	}
	other, err := keyer.Key(query + " ")
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if other == key1 {
		t.Error("distinct oversized queries produced the same key")
	}
}

func TestHashKeyer(t *testing.T) {
	keyer := NewHashKeyer("sql")

	key1, err := keyer.Key("SELECT 1")
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if !strings.HasPrefix(key1, "sql:") {
		t.Errorf("key %q missing prefix", key1)
	}

	// Deterministic
	key2, err := keyer.Key("SELECT 1")
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if key1 != key2 {
		t.Errorf("same query produced different keys: %q vs %q", key1, key2)
	}

	// Distinct inputs, distinct keys
	key3, err := keyer.Key("SELECT 2")
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if key1 == key3 {
		t.Error("distinct queries produced the same key")
	}
}

func TestHashKeyer_DefaultPrefix(t *testing.T) {
	keyer := NewHashKeyer("")
	key, err := keyer.Key("SELECT 1")
	if err != nil {
		t.Fatalf("Key failed: %v", err)
	}
	if !strings.HasPrefix(key, "q:") {
		t.Errorf("key %q missing default prefix", key)
	}
}
