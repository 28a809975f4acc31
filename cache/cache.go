// Package cache persists the last successfully fetched post list together
// with the time it was fetched.
package cache

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/swezzy/sheetcms/config"
	"github.com/swezzy/sheetcms/content"
	"github.com/swezzy/sheetcms/log"
)

const (
	DefaultKey = "sheetcms-posts"
	DefaultTTL = 30 * time.Minute
)

// Entry is the persisted form of a fetched post list. Timestamp holds epoch
// milliseconds.
type Entry struct {
	Posts     []content.Post `json:"data"`
	Timestamp int64          `json:"timestamp"`
}

func (e Entry) FetchedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

func (e Entry) validate() error {
	if e.Timestamp <= 0 {
		return errors.New("entry has no timestamp")
	}

	if len(e.Posts) == 0 {
		return errors.New("entry has no posts")
	}

	for _, p := range e.Posts {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Cache is a best-effort store for a single post list entry. None of its
// operations fail from the caller's point of view: storage problems are
// logged and treated as a miss.
type Cache struct {
	store Store
	key   string
	ttl   time.Duration
	clock func() time.Time
	log   log.Log
}

type Option func(*Cache)

func WithKey(key string) Option {
	return func(c *Cache) {
		if key != "" {
			c.key = key
		}
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

func New(store Store, log log.Log, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		key:   DefaultKey,
		ttl:   DefaultTTL,
		clock: time.Now,
		log:   log,
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

// Open creates the store selected by the cache config and wraps it in a
// Cache.
func Open(cfg config.Cache, logCfg config.Log, log log.Log) (*Cache, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Driver {
	case "", "bolt":
		store, err = NewBoltStore(cfg.Path)
	case "memory":
		store = NewMemoryStore()
	case "sqlite3", "postgres":
		connect := cfg.Connect
		if connect == "" && cfg.Driver == "sqlite3" {
			connect = "file:" + cfg.Path + "?cache=shared&mode=rwc"
		}
		store, err = NewSQLStore(cfg.Driver, connect)
	default:
		return nil, errors.Errorf("unknown cache driver %q", cfg.Driver)
	}

	if err != nil {
		return nil, errors.WithMessage(err, "opening cache store")
	}

	if logCfg.RepoCallDuration {
		store = WithCallLogging(store, log)
	}

	return New(store, log, WithKey(cfg.Key), WithTTL(cfg.Converted.TTL)), nil
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Fresh reports whether the entry is younger than the cache TTL.
func (c *Cache) Fresh(e Entry) bool {
	return c.clock().Sub(e.FetchedAt()) < c.ttl
}

// Peek returns the stored entry regardless of its age. An entry that cannot
// be decoded or fails validation is removed.
func (c *Cache) Peek() (Entry, bool) {
	b, err := c.store.Get(c.key)
	if err != nil {
		if !IsNotFound(err) {
			c.log.Print(&Error{Op: "read", Key: c.key, Err: err})
		}
		return Entry{}, false
	}

	var e Entry
	if err = json.Unmarshal(b, &e); err == nil {
		err = e.validate()
	}

	if err != nil {
		c.log.Print(&Error{Op: "decode", Key: c.key, Err: err})
		c.Clear()

		return Entry{}, false
	}

	return e, true
}

// Read returns the cached posts if they are still fresh. A stale entry is
// deleted.
func (c *Cache) Read() ([]content.Post, bool) {
	e, ok := c.Peek()
	if !ok {
		return nil, false
	}

	if !c.Fresh(e) {
		c.log.Debugf("Cache entry %s from %s is stale, removing", c.key, e.FetchedAt())
		c.Clear()

		return nil, false
	}

	return e.Posts, true
}

// ReadStale returns the cached entry whatever its age. It serves as the
// last resort when the source is unreachable.
func (c *Cache) ReadStale() (Entry, bool) {
	e, ok := c.Peek()
	if !ok {
		return Entry{}, false
	}

	c.log.Debugf("Reading cache entry %s from %s regardless of age", c.key, e.FetchedAt())

	return e, true
}

// Write replaces the entry with the given posts, stamped with the current
// time.
func (c *Cache) Write(posts []content.Post) {
	if posts == nil {
		posts = []content.Post{}
	}

	b, err := json.Marshal(Entry{Posts: posts, Timestamp: c.clock().UnixMilli()})
	if err != nil {
		c.log.Print(&Error{Op: "encode", Key: c.key, Err: err})
		return
	}

	if err := c.store.Put(c.key, b); err != nil {
		c.log.Print(&Error{Op: "write", Key: c.key, Err: err})
		return
	}

	c.log.Debugf("Cached %d posts under %s", len(posts), c.key)
}

func (c *Cache) Clear() {
	if err := c.store.Delete(c.key); err != nil {
		c.log.Print(&Error{Op: "delete", Key: c.key, Err: err})
	}
}

func (c *Cache) Close() error {
	return c.store.Close()
}
