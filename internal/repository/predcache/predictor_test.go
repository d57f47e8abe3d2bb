package predcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/segmenter/internal/domain/customer"
	"github.com/kailas-cloud/segmenter/internal/domain/feature"
)

func TestPredict_CacheMiss(t *testing.T) {
	inner := &mockPredictor{label: 3}
	cp, ms := newTestCachedPredictor(t, inner)

	var setKey, setVal string
	var setTTL time.Duration
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		setKey, setVal, setTTL = key, string(value), ttl
		return nil
	}

	label, err := cp.Predict(context.Background(), testVector())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 3 {
		t.Fatalf("expected label 3, got %d", label)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if setVal != "3" {
		t.Errorf("expected cached value \"3\", got %q", setVal)
	}
	if setTTL != time.Hour {
		t.Errorf("expected TTL 1h, got %s", setTTL)
	}
	if !strings.HasPrefix(setKey, KeyPrefix+"0123456789abcdef:") {
		t.Errorf("key missing fingerprint prefix: %s", setKey)
	}
}

func TestPredict_CacheHit(t *testing.T) {
	inner := &mockPredictor{label: 0}
	cp, ms := newTestCachedPredictor(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("2"), nil
	}

	label, err := cp.Predict(context.Background(), testVector())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 2 {
		t.Errorf("expected cached label 2, got %d", label)
	}
	if inner.calls != 0 {
		t.Errorf("inner predictor called on cache hit")
	}
}

func TestPredict_InnerError(t *testing.T) {
	innerErr := errors.New("model exploded")
	inner := &mockPredictor{err: innerErr}
	cp, ms := newTestCachedPredictor(t, inner)

	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		setCalled = true
		return nil
	}

	_, err := cp.Predict(context.Background(), testVector())
	if !errors.Is(err, innerErr) {
		t.Fatalf("expected wrapped inner error, got %v", err)
	}
	if setCalled {
		t.Error("failed prediction must not be cached")
	}
}

func TestPredict_StoreErrorsDegrade(t *testing.T) {
	inner := &mockPredictor{label: 1}
	cp, ms := newTestCachedPredictor(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection refused")
	}

	label, err := cp.Predict(context.Background(), testVector())
	if err != nil {
		t.Fatalf("store failure should not fail prediction: %v", err)
	}
	if label != 1 {
		t.Errorf("expected label 1, got %d", label)
	}
}

func TestPredict_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockPredictor{label: 1}
	cp, ms := newTestCachedPredictor(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("not-a-number"), nil
	}

	label, err := cp.Predict(context.Background(), testVector())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 1 || inner.calls != 1 {
		t.Errorf("expected fallback to inner predictor, got label=%d calls=%d", label, inner.calls)
	}
}

func TestCacheKey_DependsOnFeaturesAndFingerprint(t *testing.T) {
	inner := &mockPredictor{}
	a := New(inner, &mockKVStore{}, "aaaa", time.Hour, nil, zap.NewNop())
	b := New(inner, &mockKVStore{}, "bbbb", time.Hour, nil, zap.NewNop())

	v1 := testVector()
	p := customer.Default()
	p.Income = 50001
	p.TotalSpending = 800
	v2 := feature.Assemble(p)

	if a.cacheKey(v1) == a.cacheKey(v2) {
		t.Error("different features produced the same key")
	}
	if a.cacheKey(v1) == b.cacheKey(v1) {
		t.Error("different fingerprints produced the same key")
	}
	if a.cacheKey(v1) != a.cacheKey(testVector()) {
		t.Error("key is not deterministic")
	}
}

func TestPredict_CountsHitsAndMisses(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	inner := &mockPredictor{label: 1}

	cached := map[string][]byte{}
	ms := &mockKVStore{
		getFn: func(_ context.Context, key string) ([]byte, error) {
			if v, ok := cached[key]; ok {
				return v, nil
			}
			return nil, errors.New("miss")
		},
		setFn: func(_ context.Context, key string, value []byte, _ time.Duration) error {
			cached[key] = value
			return nil
		},
	}
	cp := New(inner, ms, "fp", time.Hour, counter, zap.NewNop())

	for range 3 {
		if _, err := cp.Predict(context.Background(), testVector()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 2 {
		t.Errorf("expected 2 hits, got %v", got)
	}
}
