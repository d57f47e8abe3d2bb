package predcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/segmenter/internal/db"
	"github.com/kailas-cloud/segmenter/internal/domain/feature"
)

// KeyPrefix namespaces prediction cache keys.
const KeyPrefix = "segmenter:pred:"

// predictor is the wrapped prediction pipeline.
type predictor interface {
	Predict(ctx context.Context, v feature.Vector) (int, error)
}

// store is the consumer interface for the prediction cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedPredictor caches cluster labels per feature row in a key-value store.
// Keys include the artifact fingerprint, so a new model never reads labels
// produced by an old one.
type CachedPredictor struct {
	inner       predictor
	store       store
	fingerprint string
	ttl         time.Duration
	cacheTotal  *prometheus.CounterVec
	logger      *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner predictor,
	s store,
	fingerprint string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedPredictor {
	return &CachedPredictor{
		inner:       inner,
		store:       s,
		fingerprint: fingerprint,
		ttl:         ttl,
		cacheTotal:  cacheTotal,
		logger:      logger,
	}
}

// Predict returns a cached label or calls the inner predictor.
// Store failures degrade to an uncached prediction.
func (c *CachedPredictor) Predict(ctx context.Context, v feature.Vector) (int, error) {
	key := c.cacheKey(v)

	if label, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return label, nil
	}

	c.incCache("miss")

	label, err := c.inner.Predict(ctx, v)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}

	c.putToCache(ctx, key, label)
	return label, nil
}

func (c *CachedPredictor) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedPredictor) cacheKey(v feature.Vector) string {
	values := v.Values()
	buf := make([]byte, len(values)*8)
	for i, f := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	h := sha256.Sum256(buf)

	fp := c.fingerprint
	if len(fp) > 16 {
		fp = fp[:16]
	}
	return KeyPrefix + fp + ":" + hex.EncodeToString(h[:])
}

func (c *CachedPredictor) getFromCache(ctx context.Context, key string) (int, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached prediction", zap.String("key", key), zap.Error(err))
		}
		return 0, false
	}

	label, err := strconv.Atoi(string(data))
	if err != nil {
		c.logger.Warn("Failed to parse cached prediction", zap.String("key", key), zap.Error(err))
		return 0, false
	}
	return label, true
}

func (c *CachedPredictor) putToCache(ctx context.Context, key string, label int) {
	if err := c.store.SetWithTTL(ctx, key, []byte(strconv.Itoa(label)), c.ttl); err != nil {
		c.logger.Warn("Failed to cache prediction", zap.String("key", key), zap.Error(err))
	}
}
