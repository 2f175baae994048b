package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	readErr error
	gets    atomic.Int32
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeClient) Get(ctx context.Context, key string) *goredis.StringCmd {
	f.gets.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return goredis.NewStringResult("", f.readErr)
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(string(v), nil)
}

func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.([]byte)
	f.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

// countingReports returns fixed reports and counts how often each is built
type countingReports struct {
	sales     atomic.Int32
	inventory atomic.Int32
	gate      chan struct{}
	err       error
}

func (r *countingReports) Sales(ctx context.Context, w domain.Window) (*domain.SalesReport, error) {
	r.sales.Add(1)
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return &domain.SalesReport{TotalSales: decimal.RequireFromString("12.50"), TotalOrders: 3}, nil
}

func (r *countingReports) Popularity(ctx context.Context, w domain.Window) (*domain.PopularityReport, error) {
	return &domain.PopularityReport{}, nil
}

func (r *countingReports) WorkerPerformance(ctx context.Context, w domain.Window) (*domain.WorkerPerformanceReport, error) {
	return &domain.WorkerPerformanceReport{}, nil
}

func (r *countingReports) DailyTrend(ctx context.Context, w domain.Window) (*domain.DailyTrendReport, error) {
	return &domain.DailyTrendReport{}, nil
}

func (r *countingReports) InventoryStatus(ctx context.Context) (*domain.InventoryReport, error) {
	r.inventory.Add(1)
	return &domain.InventoryReport{OutOfStock: []domain.ItemSummary{{ID: 4, Name: "Cake"}}}, nil
}

func TestReportCacheServesSecondCallFromRedis(t *testing.T) {
	client := newFakeClient()
	next := &countingReports{}
	cache := NewReportCache(next, client, time.Minute, logger.NewNop())
	ctx := context.Background()

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	w := domain.Window{From: &from}

	first, err := cache.Sales(ctx, w)
	require.NoError(t, err)
	second, err := cache.Sales(ctx, w)
	require.NoError(t, err)

	assert.Equal(t, int32(1), next.sales.Load())
	assert.True(t, second.TotalSales.Equal(first.TotalSales))
	assert.Equal(t, 3, second.TotalOrders)

	key := "reports:sales:2024-03-01T00:00:00Z_-"
	assert.Contains(t, client.data, key)
	assert.Equal(t, time.Minute, client.ttls[key])

	// A different window is a different entry
	_, err = cache.Sales(ctx, domain.Window{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.sales.Load())
}

func TestReportCacheCollapsesConcurrentMisses(t *testing.T) {
	client := newFakeClient()
	next := &countingReports{gate: make(chan struct{})}
	cache := NewReportCache(next, client, time.Minute, logger.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Sales(context.Background(), domain.Window{})
			assert.NoError(t, err)
		}()
	}

	// Every caller has missed the cache before the first build finishes
	require.Eventually(t, func() bool { return client.gets.Load() == 5 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(next.gate)
	wg.Wait()

	assert.Equal(t, int32(1), next.sales.Load())
}

func TestReportCacheFallsBackWhenRedisFails(t *testing.T) {
	client := newFakeClient()
	client.readErr = errors.New("connection refused")
	next := &countingReports{}
	cache := NewReportCache(next, client, time.Minute, logger.NewNop())

	report, err := cache.InventoryStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, report.OutOfStock, 1)
	assert.Equal(t, "Cake", report.OutOfStock[0].Name)
	assert.Equal(t, int32(1), next.inventory.Load())
}

func TestReportCacheDoesNotStoreFailures(t *testing.T) {
	client := newFakeClient()
	next := &countingReports{err: domain.ErrStorageUnavailable}
	cache := NewReportCache(next, client, time.Minute, logger.NewNop())

	_, err := cache.Sales(context.Background(), domain.Window{})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.Empty(t, client.data)
}

func TestReportCacheSharedBuildOutlivesFirstCaller(t *testing.T) {
	client := newFakeClient()
	next := &countingReports{gate: make(chan struct{})}
	cache := NewReportCache(next, client, time.Minute, logger.NewNop())

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.Sales(firstCtx, domain.Window{})
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return next.sales.Load() == 1 }, time.Second, 5*time.Millisecond)

	second := make(chan *domain.SalesReport, 1)
	go func() {
		report, err := cache.Sales(context.Background(), domain.Window{})
		assert.NoError(t, err)
		second <- report
	}()
	require.Eventually(t, func() bool { return client.gets.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	// The first client goes away while the build is still running
	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(next.gate)

	report := <-second
	require.NotNil(t, report)
	assert.Equal(t, 3, report.TotalOrders)
	assert.Equal(t, int32(1), next.sales.Load())
	assert.Contains(t, client.data, "reports:sales:-_-")
}
