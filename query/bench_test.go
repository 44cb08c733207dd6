package query

import (
	"context"
	"testing"

	"github.com/jonwraymond/querycache/cache"
	"github.com/jonwraymond/querycache/pool"
)

func BenchmarkDo_Hit(b *testing.B) {
	ctx := context.Background()
	dialer := &fakeDialer{payload: []byte(`{"row_count":1}`)}
	p, err := pool.New(ctx, pool.Config{Min: 1, Max: 4}, dialer, fakeProvider{}, nil, nil)
	if err != nil {
		b.Fatalf("pool.New failed: %v", err)
	}
	defer p.Close(ctx)

	o, err := NewOrchestrator(cache.NewMemoryCache(), p)
	if err != nil {
		b.Fatalf("NewOrchestrator failed: %v", err)
	}
	if _, err := o.Do(ctx, "SELECT 1"); err != nil {
		b.Fatalf("warm Do failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := o.Do(ctx, "SELECT 1"); err != nil {
			b.Fatalf("Do failed: %v", err)
		}
	}
}

func BenchmarkDo_Miss(b *testing.B) {
	ctx := context.Background()
	dialer := &fakeDialer{payload: []byte(`{"row_count":1}`)}
	p, err := pool.New(ctx, pool.Config{Min: 2, Max: 8}, dialer, fakeProvider{}, nil, nil)
	if err != nil {
		b.Fatalf("pool.New failed: %v", err)
	}
	defer p.Close(ctx)

	o, err := NewOrchestrator(cache.NewMemoryCache(), p, WithPolicy(cache.NoCachePolicy()))
	if err != nil {
		b.Fatalf("NewOrchestrator failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := o.Do(ctx, "SELECT 1"); err != nil {
			b.Fatalf("Do failed: %v", err)
		}
	}
}
