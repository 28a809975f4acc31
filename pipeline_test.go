package sheetcms

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/swezzy/sheetcms/cache"
	"github.com/swezzy/sheetcms/config"
	"github.com/swezzy/sheetcms/content"
	"github.com/swezzy/sheetcms/feed/mock_feed"
	"github.com/swezzy/sheetcms/log"
	"github.com/swezzy/sheetcms/parser"
)

const sheet = `id,title,excerpt,tag,date,img,span,content,featured,trending,hero
1,Older,First post,News,2025-01-01,a.png,span1x1,<p>one</p>,FALSE,TRUE,FALSE
2,Newer,Second post,Tech,2025-03-01,b.png,span2x1,<p>two</p>,TRUE,FALSE,TRUE
,No id,dropped,News,2025-02-01,c.png,span1x1,,FALSE,FALSE,FALSE
`

// Built-in posts, newest first.
var fallbackIDs = []string{"5", "3", "2", "1", "4", "6"}

var (
	logger = log.WithStd(config.Log{})
	epoch  = time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	source   *mock_feed.MockSource
	cache    *cache.Cache
	pipeline *Pipeline

	mu  sync.Mutex
	now time.Time
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newFixture(ctrl *gomock.Controller) *fixture {
	f := &fixture{now: epoch}
	f.source = mock_feed.NewMockSource(ctrl)
	f.cache = cache.New(cache.NewMemoryStore(), logger, cache.WithClock(f.clock))
	f.pipeline = NewPipeline(
		f.source, f.cache,
		parser.NewNormalizer(parser.WithNormalizerClock(f.clock)),
		logger, WithPipelineClock(f.clock),
	)

	return f
}

func postIDs(posts content.Posts) []string {
	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	return ids
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPipeline_Posts(t *testing.T) {
	fetchErr := errors.New("unreachable")
	cached := []content.Post{{ID: "c1", Title: "Cached", Date: "2024-12-01"}}

	tests := []struct {
		name     string
		seed     []content.Post
		age      time.Duration
		raw      string
		err      error
		fetch    bool
		origin   Origin
		ids      []string
		wantErr  bool
		cacheIDs []string
	}{
		{name: "fresh cache skips the network", seed: cached, age: 10 * time.Minute, origin: OriginCache, ids: []string{"c1"}, cacheIDs: []string{"c1"}},
		{name: "empty cache loads the sheet", raw: sheet, fetch: true, origin: OriginNetwork, ids: []string{"2", "1"}, cacheIDs: []string{"2", "1"}},
		{name: "stale cache is replaced", seed: cached, age: 31 * time.Minute, raw: sheet, fetch: true, origin: OriginNetwork, ids: []string{"2", "1"}, cacheIDs: []string{"2", "1"}},
		{name: "fetch failure serves the stale cache", seed: cached, age: time.Hour, err: fetchErr, fetch: true, origin: OriginStaleCache, ids: []string{"c1"}, wantErr: true, cacheIDs: []string{"c1"}},
		{name: "undecodable sheet serves the stale cache", seed: cached, age: time.Hour, raw: "<html>sign in</html>", fetch: true, origin: OriginStaleCache, ids: []string{"c1"}, wantErr: true, cacheIDs: []string{"c1"}},
		{name: "fetch failure without cache serves the fallback", err: fetchErr, fetch: true, origin: OriginFallback, ids: fallbackIDs, wantErr: true},
		{name: "empty cached entry, source down, serves the fallback", seed: []content.Post{}, age: time.Minute, err: fetchErr, fetch: true, origin: OriginFallback, ids: fallbackIDs, wantErr: true},
		{name: "empty fresh entry is reloaded", seed: []content.Post{}, age: time.Minute, raw: sheet, fetch: true, origin: OriginNetwork, ids: []string{"2", "1"}, cacheIDs: []string{"2", "1"}},
		{name: "header only sheet serves the fallback", raw: "id,title\n", fetch: true, origin: OriginFallback, ids: fallbackIDs, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newFixture(ctrl)
			if tt.seed != nil {
				f.cache.Write(tt.seed)
				f.advance(tt.age)
			}
			if tt.fetch {
				f.source.EXPECT().FetchRaw(gomock.Any()).Return(tt.raw, tt.err)
			}

			got := f.pipeline.Posts(context.Background())

			if got.Origin != tt.origin {
				t.Errorf("Posts() origin = %s, want %s", got.Origin, tt.origin)
			}
			if !sameIDs(postIDs(got.Posts), tt.ids) {
				t.Errorf("Posts() ids = %v, want %v", postIDs(got.Posts), tt.ids)
			}
			if (got.Err != nil) != tt.wantErr {
				t.Errorf("Posts() err = %v, wantErr %v", got.Err, tt.wantErr)
			}
			if got.Degraded() != tt.wantErr {
				t.Errorf("Posts() degraded = %v", got.Degraded())
			}
			if tt.err != nil && errors.Cause(got.Err) != tt.err {
				t.Errorf("Posts() err = %v, want %v", got.Err, tt.err)
			}

			e, ok := f.cache.Peek()
			if ok != (tt.cacheIDs != nil) {
				t.Fatalf("cache present = %v, want %v", ok, tt.cacheIDs != nil)
			}
			if ok && !sameIDs(postIDs(e.Posts), tt.cacheIDs) {
				t.Errorf("cache ids = %v, want %v", postIDs(e.Posts), tt.cacheIDs)
			}
		})
	}
}

func TestPipeline_Posts_decodeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	f.source.EXPECT().FetchRaw(gomock.Any()).Return("", nil)

	got := f.pipeline.Posts(context.Background())
	if !content.IsDecode(got.Err) {
		t.Errorf("Posts() err = %v, want a decode error", got.Err)
	}
}

func TestPipeline_Posts_normalized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	f.source.EXPECT().FetchRaw(gomock.Any()).Return(sheet, nil)

	got := f.pipeline.Posts(context.Background())
	if len(got.Posts) != 2 {
		t.Fatalf("Posts() len = %d, want 2", len(got.Posts))
	}

	p := got.Posts[0]
	if p.ID != "2" || p.Title != "Newer" || p.Span != "span2x1" || !p.Featured || p.Trending || !p.Hero {
		t.Errorf("Posts()[0] = %+v", p)
	}
	if p.Category != "tech" {
		t.Errorf("Posts()[0].Category = %q, want tech", p.Category)
	}
	if !got.FetchedAt.Equal(epoch) {
		t.Errorf("Posts() fetched at = %s, want %s", got.FetchedAt, epoch)
	}
}

func TestPipeline_Posts_singleFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	f.source.EXPECT().FetchRaw(gomock.Any()).DoAndReturn(func(ctx context.Context) (string, error) {
		close(started)
		<-release
		return sheet, nil
	}).Times(1)

	const callers = 8
	results := make(chan Result, callers)

	go func() {
		results <- f.pipeline.Posts(context.Background())
	}()
	<-started

	var wg sync.WaitGroup
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- f.pipeline.Posts(context.Background())
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		res := <-results
		if res.Err != nil || !sameIDs(postIDs(res.Posts), []string{"2", "1"}) {
			t.Errorf("caller %d got %s %v: %v", i, res.Origin, postIDs(res.Posts), res.Err)
		}
	}
}

func TestPipeline_Posts_cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)

	release := make(chan struct{})
	done := make(chan struct{})
	f.source.EXPECT().FetchRaw(gomock.Any()).DoAndReturn(func(ctx context.Context) (string, error) {
		defer close(done)
		<-release
		return sheet, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := f.pipeline.Posts(ctx)
	if got.Origin != OriginFallback || errors.Cause(got.Err) != context.Canceled {
		t.Errorf("Posts() = %s, %v; want fallback, context canceled", got.Origin, got.Err)
	}

	close(release)
	<-done

	// The abandoned load still completes for everyone else.
	deadline := time.Now().Add(time.Second)
	for {
		if _, ok := f.cache.Read(); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("abandoned load never reached the cache")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPipeline_Refresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	f.cache.Write([]content.Post{{ID: "c1", Title: "Cached", Date: "2024-12-01"}})

	f.source.EXPECT().FetchRaw(gomock.Any()).Return(sheet, nil)

	got := f.pipeline.Refresh(context.Background())
	if got.Origin != OriginNetwork || !sameIDs(postIDs(got.Posts), []string{"2", "1"}) {
		t.Errorf("Refresh() = %s %v", got.Origin, postIDs(got.Posts))
	}

	// Fresh again, so no second fetch.
	got = f.pipeline.Posts(context.Background())
	if got.Origin != OriginCache {
		t.Errorf("Posts() after Refresh() origin = %s, want cache", got.Origin)
	}
}

// gatedStore misses on the first read and holds the second one until the
// gate opens.
type gatedStore struct {
	cache.MemoryStore

	mu      sync.Mutex
	reads   int
	entered chan struct{}
	gate    chan struct{}
}

func (s *gatedStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	s.reads++
	n := s.reads
	s.mu.Unlock()

	switch n {
	case 1:
		return nil, cache.ErrNotFound
	case 2:
		close(s.entered)
		<-s.gate
	}

	return s.MemoryStore.Get(key)
}

func TestPipeline_Refresh_joinsCachedFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)

	store := &gatedStore{MemoryStore: cache.NewMemoryStore(), entered: make(chan struct{}), gate: make(chan struct{})}
	f.cache = cache.New(store, logger, cache.WithClock(f.clock))
	f.pipeline = NewPipeline(f.source, f.cache, parser.NewNormalizer(parser.WithNormalizerClock(f.clock)), logger, WithPipelineClock(f.clock))

	f.cache.Write([]content.Post{{ID: "c1", Title: "Cached", Date: "2024-12-01"}})

	f.source.EXPECT().FetchRaw(gomock.Any()).Return(sheet, nil).Times(1)

	posts := make(chan Result, 1)
	go func() {
		posts <- f.pipeline.Posts(context.Background())
	}()
	<-store.entered

	refreshed := make(chan Result, 1)
	go func() {
		refreshed <- f.pipeline.Refresh(context.Background())
	}()

	time.Sleep(50 * time.Millisecond)
	close(store.gate)

	if got := <-posts; got.Origin != OriginCache {
		t.Errorf("Posts() origin = %s, want cache", got.Origin)
	}

	got := <-refreshed
	if got.Origin != OriginNetwork || !sameIDs(postIDs(got.Posts), []string{"2", "1"}) {
		t.Errorf("Refresh() = %s %v, want a download", got.Origin, postIDs(got.Posts))
	}
}

func TestPipeline_StartRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	f.source.EXPECT().FetchRaw(gomock.Any()).Return(sheet, nil).MinTimes(1)

	stopped := make(chan struct{})
	go func() {
		f.pipeline.StartRefresh(ctx, 10*time.Millisecond)
		close(stopped)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("StartRefresh() did not stop after cancel")
	}

	if _, ok := f.cache.Read(); !ok {
		t.Error("StartRefresh() did not populate the cache")
	}
}

func TestOrigin_String(t *testing.T) {
	for o, want := range map[Origin]string{
		OriginCache:      "cache",
		OriginNetwork:    "network",
		OriginStaleCache: "stale-cache",
		OriginFallback:   "fallback",
		Origin(42):       "unknown",
	} {
		if got := o.String(); got != want {
			t.Errorf("Origin(%d).String() = %q, want %q", o, got, want)
		}
	}
}
