// Package sheetcms acquires the posts of the site from a spreadsheet
// published as CSV, caching the last good copy and degrading to stale or
// built-in content when the sheet cannot be reached.
package sheetcms

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/swezzy/sheetcms/cache"
	"github.com/swezzy/sheetcms/content"
	"github.com/swezzy/sheetcms/feed"
	"github.com/swezzy/sheetcms/log"
	"github.com/swezzy/sheetcms/parser"
)

// Origin tells where the posts of a Result came from.
type Origin int

const (
	OriginCache Origin = iota
	OriginNetwork
	OriginStaleCache
	OriginFallback
)

func (o Origin) String() string {
	switch o {
	case OriginCache:
		return "cache"
	case OriginNetwork:
		return "network"
	case OriginStaleCache:
		return "stale-cache"
	case OriginFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Result is what the pipeline hands to renderers. Posts is never empty when
// Origin is OriginFallback; Err holds the reason when the result is
// degraded.
type Result struct {
	Posts     content.Posts
	Origin    Origin
	FetchedAt time.Time
	Err       error
}

// Degraded reports whether the posts are anything other than current data.
func (r Result) Degraded() bool {
	return r.Origin == OriginStaleCache || r.Origin == OriginFallback
}

const flightKey = "posts"

// Pipeline fetches, decodes, normalizes and caches the posts of the sheet.
// At most one download is in flight at any time; concurrent callers share
// its outcome.
type Pipeline struct {
	source     feed.Source
	cache      *cache.Cache
	normalizer parser.Normalizer
	log        log.Log

	group singleflight.Group
	clock func() time.Time
}

type PipelineOption func(*Pipeline)

func WithPipelineClock(clock func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.clock = clock
	}
}

func NewPipeline(source feed.Source, cache *cache.Cache, normalizer parser.Normalizer, log log.Log, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		source:     source,
		cache:      cache,
		normalizer: normalizer,
		log:        log,
		clock:      time.Now,
	}

	for _, o := range opts {
		o(p)
	}

	return p
}

// Posts returns the current posts, preferring a fresh cached copy over the
// network. It never fails: when the sheet cannot be loaded the stale cache
// or the built-in fallback set is returned instead.
func (p *Pipeline) Posts(ctx context.Context) Result {
	if e, ok := p.cache.Peek(); ok && p.cache.Fresh(e) {
		return Result{Posts: e.Posts, Origin: OriginCache, FetchedAt: e.FetchedAt()}
	}

	return p.wait(ctx, p.group.DoChan(flightKey, func() (interface{}, error) {
		// Another load may have completed between the check above and
		// joining the flight.
		if e, ok := p.cache.Peek(); ok && p.cache.Fresh(e) {
			return Result{Posts: e.Posts, Origin: OriginCache, FetchedAt: e.FetchedAt()}, nil
		}

		return p.load(), nil
	}))
}

// Refresh downloads the sheet even if the cached copy is still fresh. It
// shares the in-flight download with Posts.
func (p *Pipeline) Refresh(ctx context.Context) Result {
	for {
		res := p.wait(ctx, p.group.DoChan(flightKey, func() (interface{}, error) {
			return p.load(), nil
		}))

		// Joined a Posts flight that was answered from the cache.
		if res.Origin != OriginCache {
			return res
		}
	}
}

// StartRefresh refreshes the posts every interval until ctx is done.
func (p *Pipeline) StartRefresh(ctx context.Context, interval time.Duration) {
	p.log.Infof("Refreshing posts every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Infof("Stopping post refresh")
			return
		case <-ticker.C:
			res := p.Refresh(ctx)
			if res.Err != nil {
				p.log.Printf("Background refresh served %s posts: %v", res.Origin, res.Err)
			} else {
				p.log.Debugf("Background refresh loaded %d posts", len(res.Posts))
			}
		}
	}
}

func (p *Pipeline) wait(ctx context.Context, ch <-chan singleflight.Result) Result {
	select {
	case res := <-ch:
		return res.Val.(Result)
	case <-ctx.Done():
		// The shared load keeps going for the other callers.
		return p.degrade(ctx.Err())
	}
}

// load runs detached from any caller's context, so that a caller giving up
// does not fail the download for everybody waiting on it.
func (p *Pipeline) load() Result {
	raw, err := p.source.FetchRaw(context.Background())
	if err != nil {
		p.log.Printf("Error fetching posts: %v", err)
		return p.degrade(err)
	}

	posts := p.normalizer.NormalizeAll(parser.DecodeCSV(raw))
	if len(posts) == 0 {
		err = errors.Wrapf(content.ErrDecode, "decoding %d bytes of sheet data", len(raw))
		p.log.Printf("Error decoding posts: %v", err)
		return p.degrade(err)
	}

	content.SortByDate(posts)
	p.cache.Write(posts)

	p.log.Infof("Loaded %d posts from the sheet", len(posts))

	return Result{Posts: posts, Origin: OriginNetwork, FetchedAt: p.clock()}
}

func (p *Pipeline) degrade(err error) Result {
	if e, ok := p.cache.ReadStale(); ok {
		p.log.Infof("Serving %d cached posts from %s", len(e.Posts), e.FetchedAt())
		return Result{Posts: e.Posts, Origin: OriginStaleCache, FetchedAt: e.FetchedAt(), Err: err}
	}

	posts := content.FallbackPosts()
	content.SortByDate(posts)

	p.log.Infof("Serving the built-in fallback posts")
	return Result{Posts: posts, Origin: OriginFallback, Err: err}
}
