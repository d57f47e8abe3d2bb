package segmenter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/segmenter/internal/db"
	dbRedis "github.com/kailas-cloud/segmenter/internal/db/redis"
	"github.com/kailas-cloud/segmenter/internal/domain/customer"
	domseg "github.com/kailas-cloud/segmenter/internal/domain/segment"
	"github.com/kailas-cloud/segmenter/internal/model"
	"github.com/kailas-cloud/segmenter/internal/repository/predcache"
	healthuc "github.com/kailas-cloud/segmenter/internal/usecase/health"
	segmentuc "github.com/kailas-cloud/segmenter/internal/usecase/segment"
)

const (
	defaultScalerPath       = "artifacts/scaler.json"
	defaultModelPath        = "artifacts/model.json"
	defaultCacheTTL         = time.Hour
	defaultReadinessTimeout = 10 * time.Second
)

// Internal interface for substitution in tests.
type segmentUseCase interface {
	Predict(ctx context.Context, p customer.Profile) (domseg.Prediction, error)
	Segments() []domseg.Segment
}

// Client is the segmenter SDK entry point.
type Client struct {
	store       db.Store
	fingerprint string
	segSvc      segmentUseCase
	healthSvc   healthUseCase
	obs         *observer
}

// New loads the artifacts and, when a cache is configured, connects to it.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		scalerPath: defaultScalerPath,
		modelPath:  defaultModelPath,
		cacheTTL:   defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	pipeline, err := model.Load(cfg.scalerPath, cfg.modelPath)
	if err != nil {
		return nil, fmt.Errorf("segmenter: load artifacts: %w", err)
	}

	var store db.Store
	if cfg.driver != "" {
		store, err = createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("segmenter: cache not ready: %w", err)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	obs.withModel(pipeline.Fingerprint())
	return wireClient(pipeline, store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("segmenter: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("segmenter: unknown driver %q", cfg.driver)
	}
}

func wireClient(pipeline *model.Pipeline, store db.Store, cfg *clientConfig, obs *observer) *Client {
	var predictor segmentuc.Predictor = pipeline
	var cachePinger healthuc.CachePinger
	if store != nil {
		predictor = predcache.New(pipeline, store, pipeline.Fingerprint(), cfg.cacheTTL, nil, zap.NewNop())
		cachePinger = store
	}

	return &Client{
		store:       store,
		fingerprint: pipeline.Fingerprint(),
		segSvc:      segmentuc.New(predictor, zap.NewNop()),
		healthSvc:   healthuc.New(pipeline, cachePinger),
		obs:         obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks cache connectivity. Without a cache it always succeeds.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "ping", start, err) }()

	if c.store == nil {
		return nil
	}
	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Fingerprint identifies the loaded scaler and model pair.
func (c *Client) Fingerprint() string {
	return c.fingerprint
}

// Predict scores one customer and returns its segment and charts.
func (c *Client) Predict(ctx context.Context, cust Customer) (res Prediction, err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "predict", start, err) }()

	p, err := c.segSvc.Predict(ctx, cust.profile())
	if err != nil {
		return Prediction{}, fmt.Errorf("predict: %w", err)
	}
	return predictionFromDomain(p), nil
}

// Segments lists every known segment ordered by cluster.
func (c *Client) Segments() []Segment {
	segs := c.segSvc.Segments()
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[i] = segmentFromDomain(s)
	}
	return out
}
