package predcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/segmenter/internal/db"
	"github.com/kailas-cloud/segmenter/internal/domain/customer"
	"github.com/kailas-cloud/segmenter/internal/domain/feature"
)

type mockPredictor struct {
	label int
	err   error
	calls int
}

func (m *mockPredictor) Predict(_ context.Context, _ feature.Vector) (int, error) {
	m.calls++
	return m.label, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedPredictor(t *testing.T, inner *mockPredictor) (*CachedPredictor, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cp := New(inner, ms, "0123456789abcdef0123", time.Hour, nil, zap.NewNop())
	return cp, ms
}

func testVector() feature.Vector {
	p := customer.Default()
	p.Income = 50000
	p.TotalSpending = 800
	return feature.Assemble(p)
}
