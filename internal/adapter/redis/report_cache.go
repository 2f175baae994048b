package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	keyPrefix = "reports"
	// loadTimeout bounds a shared report build once its callers are gone
	loadTimeout = 30 * time.Second
)

// Client is the part of *goredis.Client the cache uses
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// ReportCache serves reports from Redis for ttl and computes each missing
// report once however many requests ask for it concurrently. Redis failures
// degrade to computing the report directly.
type ReportCache struct {
	next   interfaces.ReportService
	client Client
	ttl    time.Duration
	group  singleflight.Group
	logger logger.Logger
}

func NewReportCache(next interfaces.ReportService, client Client, ttl time.Duration, log logger.Logger) *ReportCache {
	return &ReportCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

var _ interfaces.ReportService = (*ReportCache)(nil)

func (c *ReportCache) Sales(ctx context.Context, w domain.Window) (*domain.SalesReport, error) {
	return cached(ctx, c, reportKey("sales", w.Key()), func(ctx context.Context) (*domain.SalesReport, error) {
		return c.next.Sales(ctx, w)
	})
}

func (c *ReportCache) Popularity(ctx context.Context, w domain.Window) (*domain.PopularityReport, error) {
	return cached(ctx, c, reportKey("popularity", w.Key()), func(ctx context.Context) (*domain.PopularityReport, error) {
		return c.next.Popularity(ctx, w)
	})
}

func (c *ReportCache) WorkerPerformance(ctx context.Context, w domain.Window) (*domain.WorkerPerformanceReport, error) {
	return cached(ctx, c, reportKey("workers", w.Key()), func(ctx context.Context) (*domain.WorkerPerformanceReport, error) {
		return c.next.WorkerPerformance(ctx, w)
	})
}

func (c *ReportCache) DailyTrend(ctx context.Context, w domain.Window) (*domain.DailyTrendReport, error) {
	return cached(ctx, c, reportKey("daily", w.Key()), func(ctx context.Context) (*domain.DailyTrendReport, error) {
		return c.next.DailyTrend(ctx, w)
	})
}

func (c *ReportCache) InventoryStatus(ctx context.Context) (*domain.InventoryReport, error) {
	return cached(ctx, c, reportKey("inventory", "current"), func(ctx context.Context) (*domain.InventoryReport, error) {
		return c.next.InventoryStatus(ctx)
	})
}

func reportKey(name, window string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, name, window)
}

func cached[T any](ctx context.Context, c *ReportCache, key string, load func(context.Context) (*T, error)) (*T, error) {
	// 1. Serve a cached copy
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var report T
		if err := json.Unmarshal(raw, &report); err == nil {
			c.logger.Debug("report_cache_hit", "Served report from cache", "", map[string]interface{}{"key": key})
			return &report, nil
		}
		c.logger.Error("report_cache_decode_failed", "Discarding unreadable cached report", "",
			map[string]interface{}{"key": key}, err)
	case !errors.Is(err, goredis.Nil):
		c.logger.Error("report_cache_read_failed", "Failed to read report cache", "",
			map[string]interface{}{"key": key}, err)
	}

	// 2. Compute once per key and store the result. The shared build outlives
	// the caller that started it; each waiter gives up on its own ctx.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		report, err := load(loadCtx)
		if err != nil {
			return nil, err
		}

		body, err := json.Marshal(report)
		if err != nil {
			c.logger.Error("report_cache_encode_failed", "Failed to encode report", "",
				map[string]interface{}{"key": key}, err)
			return report, nil
		}
		if err := c.client.Set(loadCtx, key, body, c.ttl).Err(); err != nil {
			c.logger.Error("report_cache_write_failed", "Failed to write report cache", "",
				map[string]interface{}{"key": key}, err)
		}
		return report, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*T), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
