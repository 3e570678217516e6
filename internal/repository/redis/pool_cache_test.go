package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"

	"sharpPicks/domain"
)

type countingReader struct {
	calls int
	picks []domain.Pick
	err   error
}

func (c *countingReader) Query(ctx context.Context, runDate string, category domain.Category, sport string) ([]domain.Pick, error) {
	c.calls++
	return c.picks, c.err
}

// unreachableClient points at a port nothing listens on.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPoolCache_DegradesToStore(t *testing.T) {
	store := &countingReader{picks: []domain.Pick{
		{ID: "1", Sport: "MLB"},
		{ID: "2", Sport: "NFL"},
	}}
	cache := NewPoolCache(unreachableClient(t), store, time.Minute)

	picks, err := cache.Query(context.Background(), "2025-09-23", domain.CategoryTeam, "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(picks) != 2 || store.calls != 1 {
		t.Fatalf("picks %d calls %d", len(picks), store.calls)
	}

	nfl, err := cache.Query(context.Background(), "2025-09-23", domain.CategoryTeam, "nfl")
	if err != nil || len(nfl) != 1 || nfl[0].ID != "2" {
		t.Fatalf("sport filter = %+v (%v)", nfl, err)
	}

	if err := cache.InvalidatePool(context.Background(), "2025-09-23", domain.CategoryTeam); err == nil {
		t.Fatal("expected invalidation error from unreachable redis")
	}
}

func TestPoolCache_PropagatesStoreErrors(t *testing.T) {
	storeErr := &domain.StorageError{Op: "query", Err: errors.New("down")}
	cache := NewPoolCache(unreachableClient(t), &countingReader{err: storeErr}, 0)

	if _, err := cache.Query(context.Background(), "2025-09-23", domain.CategoryTeam, ""); !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want store error", err)
	}
}

func TestPoolKey(t *testing.T) {
	if got := PoolKey("2025-09-23", domain.CategoryPlayerProp); got != "picks:pool:2025-09-23:player_prop" {
		t.Fatalf("PoolKey = %q", got)
	}
}

func TestNewRunEvent(t *testing.T) {
	run := &domain.GenerationRun{
		ID:         "r1",
		RunDate:    "2025-09-23",
		Category:   domain.CategoryTeam,
		Accepted:   5,
		RiskCounts: map[string]interface{}{"Low": 2, "Medium": float64(2), "High": int64(1)},
	}

	ev := newRunEvent(run)
	if ev.Low != 2 || ev.Medium != 2 || ev.High != 1 || ev.Accepted != 5 {
		t.Fatalf("event = %+v", ev)
	}
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func cachedPool() []domain.Pick {
	created := time.Date(2025, 9, 23, 12, 0, 0, 0, time.UTC)
	return []domain.Pick{
		{
			ID:         "1",
			RunDate:    "2025-09-23",
			Category:   domain.CategoryTeam,
			Sport:      "MLB",
			Subject:    "Yankees @ Red Sox",
			Selection:  "Yankees ML",
			Odds:       -180,
			Confidence: 80,
			RiskLevel:  domain.RiskLow,
			Reasoning:  "ace on the mound",
			Metadata:   datatypes.JSONMap{"risk_derived": true, "event_id": "e1"},
			CreatedAt:  created,
			UpdatedAt:  created,
		},
		{
			ID:         "2",
			RunDate:    "2025-09-23",
			Category:   domain.CategoryTeam,
			Sport:      "NFL",
			Subject:    "Bills @ Jets",
			Selection:  "Jets +3.5",
			Odds:       110,
			Confidence: 65,
			RiskLevel:  domain.RiskMedium,
			CreatedAt:  created,
			UpdatedAt:  created,
		},
	}
}

func TestPoolCache_MissFillsThenHitSkipsStore(t *testing.T) {
	mr, client := newMiniredis(t)
	store := &countingReader{picks: cachedPool()}
	cache := NewPoolCache(client, store, time.Minute)
	ctx := context.Background()
	key := PoolKey("2025-09-23", domain.CategoryTeam)

	if _, err := cache.Query(ctx, "2025-09-23", domain.CategoryTeam, ""); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !mr.Exists(key) {
		t.Fatal("miss did not fill the cache")
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}

	picks, err := cache.Query(ctx, "2025-09-23", domain.CategoryTeam, "")
	if err != nil {
		t.Fatalf("cached Query: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("store calls = %d, want 1", store.calls)
	}
	if len(picks) != 2 {
		t.Fatalf("len = %d, want 2", len(picks))
	}

	got, want := picks[0], cachedPool()[0]
	if got.RiskLevel != domain.RiskLow || got.Odds != -180 || got.Confidence != 80 || got.Reasoning != want.Reasoning {
		t.Errorf("cached pick = %+v", got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if got.Metadata["event_id"] != "e1" || got.Metadata["risk_derived"] != true {
		t.Errorf("metadata = %v", got.Metadata)
	}
}

func TestPoolCache_SportFilterOnCachedPool(t *testing.T) {
	_, client := newMiniredis(t)
	store := &countingReader{picks: cachedPool()}
	cache := NewPoolCache(client, store, time.Minute)
	ctx := context.Background()

	if _, err := cache.Query(ctx, "2025-09-23", domain.CategoryTeam, ""); err != nil {
		t.Fatalf("Query: %v", err)
	}
	nfl, err := cache.Query(ctx, "2025-09-23", domain.CategoryTeam, "nfl")
	if err != nil {
		t.Fatalf("Query nfl: %v", err)
	}
	if len(nfl) != 1 || nfl[0].ID != "2" || store.calls != 1 {
		t.Fatalf("nfl = %+v, store calls %d", nfl, store.calls)
	}
}

func TestPoolCache_EmptyPoolNotCached(t *testing.T) {
	mr, client := newMiniredis(t)
	cache := NewPoolCache(client, &countingReader{}, time.Minute)

	if _, err := cache.Query(context.Background(), "2025-09-23", domain.CategoryTeam, ""); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if mr.Exists(PoolKey("2025-09-23", domain.CategoryTeam)) {
		t.Fatal("empty pool was cached")
	}
}

func TestPoolCache_InvalidateForcesStoreRead(t *testing.T) {
	mr, client := newMiniredis(t)
	store := &countingReader{picks: cachedPool()}
	cache := NewPoolCache(client, store, time.Minute)
	ctx := context.Background()

	if _, err := cache.Query(ctx, "2025-09-23", domain.CategoryTeam, ""); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if err := cache.InvalidatePool(ctx, "2025-09-23", domain.CategoryTeam); err != nil {
		t.Fatalf("InvalidatePool: %v", err)
	}
	if mr.Exists(PoolKey("2025-09-23", domain.CategoryTeam)) {
		t.Fatal("pool key survived invalidation")
	}

	store.picks = cachedPool()[:1]
	picks, err := cache.Query(ctx, "2025-09-23", domain.CategoryTeam, "")
	if err != nil {
		t.Fatalf("Query after invalidate: %v", err)
	}
	if store.calls != 2 || len(picks) != 1 {
		t.Fatalf("store calls %d picks %d", store.calls, len(picks))
	}
}

// regeneratingReader invalidates the pool while a read-through is in flight,
// the way a generation run finishing mid-request would.
type regeneratingReader struct {
	cache *PoolCache
	picks []domain.Pick
}

func (r *regeneratingReader) Query(ctx context.Context, runDate string, category domain.Category, sport string) ([]domain.Pick, error) {
	if err := r.cache.InvalidatePool(ctx, runDate, category); err != nil {
		return nil, err
	}
	return r.picks, nil
}

func TestPoolCache_StaleReadIsNotCached(t *testing.T) {
	mr, client := newMiniredis(t)
	reader := &regeneratingReader{picks: cachedPool()}
	cache := NewPoolCache(client, reader, time.Minute)
	reader.cache = cache

	picks, err := cache.Query(context.Background(), "2025-09-23", domain.CategoryTeam, "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(picks) != 2 {
		t.Fatalf("len = %d, want 2", len(picks))
	}
	if mr.Exists(PoolKey("2025-09-23", domain.CategoryTeam)) {
		t.Fatal("pool read before invalidation was cached")
	}
}

func TestRunPublisher_PublishRun(t *testing.T) {
	_, client := newMiniredis(t)
	pub := NewRunPublisher(client)
	ctx := context.Background()

	run := &domain.GenerationRun{
		ID:         "r1",
		RunDate:    "2025-09-23",
		Category:   domain.CategoryPlayerProp,
		Accepted:   3,
		RiskCounts: datatypes.JSONMap{"Low": 1, "Medium": 1, "High": 1},
	}
	if err := pub.PublishRun(ctx, run); err != nil {
		t.Fatalf("PublishRun: %v", err)
	}

	entries, err := client.XRange(ctx, GeneratedStream, "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	values := entries[0].Values
	if values["date"] != "2025-09-23" || values["category"] != "player_prop" {
		t.Fatalf("values = %v", values)
	}

	var ev runEvent
	if err := json.Unmarshal([]byte(values["data"].(string)), &ev); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if ev.RunID != "r1" || ev.Accepted != 3 || ev.Low != 1 || ev.Medium != 1 || ev.High != 1 {
		t.Fatalf("event = %+v", ev)
	}
}
