package resultcache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type testSettings struct {
	Tone  string `json:"tone"`
	Level int    `json:"level"`
}

func TestKeyUsesPrefixAndSettings(t *testing.T) {
	base := strings.Repeat("x", 100)
	s := testSettings{Tone: "casual", Level: 3}

	if Key(base+"tail one", s, 100) != Key(base+"tail two", s, 100) {
		t.Fatalf("texts differing beyond the prefix should share a key")
	}
	if Key("short", s, 100) == Key("short", testSettings{Tone: "formal", Level: 3}, 100) {
		t.Fatalf("different settings must produce different keys")
	}
	if got := Key("héllo wörld", s, 3); !strings.HasPrefix(got, "hél|") {
		t.Fatalf("prefix should be cut on rune boundaries, got %q", got)
	}
	if got := Key("abc", s, 100); got != `abc|{"tone":"casual","level":3}` {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestGetOrComputeCachesResult(t *testing.T) {
	c := New[string]("test", DefaultConfig())
	calls := 0
	compute := func(context.Context) (string, error) {
		calls++
		return "value", nil
	}

	v, hit, err := c.GetOrCompute(context.Background(), "k", compute)
	if err != nil || hit || v != "value" {
		t.Fatalf("unexpected first call: %q %v %v", v, hit, err)
	}
	v, hit, err = c.GetOrCompute(context.Background(), "k", compute)
	if err != nil || !hit || v != "value" {
		t.Fatalf("unexpected second call: %q %v %v", v, hit, err)
	}
	if calls != 1 {
		t.Fatalf("expected one computation, got %d", calls)
	}
}

func TestComputeErrorIsNotCached(t *testing.T) {
	c := New[string]("test", DefaultConfig())
	boom := errors.New("boom")
	if _, _, err := c.GetOrCompute(context.Background(), "k", func(context.Context) (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("failed computation must not be cached")
	}
}

func TestEvictionFollowsInsertionOrder(t *testing.T) {
	c := New[int]("test", Config{TTL: time.Minute, MaxSize: 2})
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to be present")
	}
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("reads must not refresh entries; a should have been evicted first")
	}
	for _, k := range []string{"b", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("expected %s to be present", k)
		}
	}
	if c.Len() > 2 {
		t.Fatalf("cache exceeded max size: %d", c.Len())
	}
}

func TestEntriesExpire(t *testing.T) {
	c := New[int]("test", Config{TTL: 30 * time.Millisecond, MaxSize: 10})
	c.Set("a", 1)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected fresh entry to be served")
	}
	time.Sleep(80 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestConcurrentMissesComputeOnce(t *testing.T) {
	c := New[string]("test", DefaultConfig())
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := c.GetOrCompute(context.Background(), "k", func(context.Context) (string, error) {
				calls.Add(1)
				<-release
				return "v", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one computation, got %d", calls.Load())
	}
	for i, v := range results {
		if v != "v" {
			t.Fatalf("caller %d got %q", i, v)
		}
	}
}

type mapStore struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func (m *mapStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func TestSecondTierStore(t *testing.T) {
	store := &mapStore{data: map[string]string{}}
	first := New[string]("test", DefaultConfig(), WithStore[string](store))
	if _, _, err := first.GetOrCompute(context.Background(), "k", func(context.Context) (string, error) { return "v", nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.data["k"] != "v" {
		t.Fatalf("expected value written through to the store")
	}

	second := New[string]("test", DefaultConfig(), WithStore[string](store))
	v, hit, err := second.GetOrCompute(context.Background(), "k", func(context.Context) (string, error) {
		t.Fatalf("compute must not run when the store has the value")
		return "", nil
	})
	if err != nil || !hit || v != "v" {
		t.Fatalf("expected store hit, got %q %v %v", v, hit, err)
	}
	if _, ok := second.Get("k"); !ok {
		t.Fatalf("store hit should populate the memory tier")
	}
}

func TestFailingStoreIsIgnored(t *testing.T) {
	store := &mapStore{data: map[string]string{}, err: errors.New("redis down")}
	c := New[string]("test", DefaultConfig(), WithStore[string](store))
	v, hit, err := c.GetOrCompute(context.Background(), "k", func(context.Context) (string, error) { return "v", nil })
	if err != nil || hit || v != "v" {
		t.Fatalf("store failure must not fail the call: %q %v %v", v, hit, err)
	}
}

func TestCallerDeadlineDoesNotLeakIntoSharedCompute(t *testing.T) {
	c := New[string]("test", DefaultConfig())
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	compute := func(ctx context.Context) (string, error) {
		calls.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "v", nil
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, _, err := c.GetOrCompute(ctxA, "k", compute)
		errA <- err
	}()
	<-started

	type outcome struct {
		v   string
		hit bool
		err error
	}
	outB := make(chan outcome, 1)
	go func() {
		v, hit, err := c.GetOrCompute(context.Background(), "k", compute)
		outB <- outcome{v, hit, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller should see its own cancellation, got %v", err)
	}
	close(release)

	b := <-outB
	if b.err != nil || b.v != "v" || !b.hit {
		t.Fatalf("second caller must get the shared value, got %+v", b)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one computation, got %d", calls.Load())
	}
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("abandoned computation should still populate the cache")
	}
}

func TestCanceledCallerSkipsCompute(t *testing.T) {
	c := New[string]("test", DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := c.GetOrCompute(ctx, "k", func(context.Context) (string, error) {
		t.Fatalf("compute must not run for a canceled caller")
		return "", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}
