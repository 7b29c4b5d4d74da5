package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agyouthrise/rise-backend/internal/changefeed"
	"github.com/agyouthrise/rise-backend/internal/common"
	"github.com/agyouthrise/rise-backend/internal/config"
	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/repository"
	"gorm.io/gorm"
)

const (
	defaultWriteTimeout = 5 * time.Second
	defaultQueryTimeout = 5 * time.Second
)

// Options store client policy
type Options struct {
	WriteTimeout time.Duration
	QueryTimeout time.Duration
	Retry        RetryPolicy
	// Sleeper replaces the backoff wait (tests)
	Sleeper func(time.Duration)
	// Clock is the host clock stamped on snapshots
	Clock func() time.Time
	// DocumentClock replaces the database clock used for createdAt (tests)
	DocumentClock func() time.Time
}

// OptionsFromConfig maps the store section of the config file
func OptionsFromConfig(cfg config.StoreConfig) Options {
	return Options{
		WriteTimeout: cfg.WriteTimeout,
		QueryTimeout: cfg.QueryTimeout,
		Retry: RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
		},
	}
}

func (o Options) withDefaults() Options {
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = defaultWriteTimeout
	}
	if o.QueryTimeout <= 0 {
		o.QueryTimeout = defaultQueryTimeout
	}
	if o.Retry.MaxAttempts <= 0 {
		o.Retry.MaxAttempts = defaultRetryAttempts
	}
	if o.Retry.BaseDelay <= 0 {
		o.Retry.BaseDelay = defaultRetryBaseDelay
	}
	if o.Retry.MaxDelay <= 0 {
		o.Retry.MaxDelay = defaultRetryMaxDelay
	}
	return o
}

// Client content store client. One typed collection per content kind.
type Client struct {
	db   *gorm.DB
	feed changefeed.Feed
	opts Options
	cols *repository.Collections

	Posts    *Collection[domain.Post, *domain.Post]
	Episodes *Collection[domain.Episode, *domain.Episode]
	Gallery  *Collection[domain.GalleryItem, *domain.GalleryItem]

	mu      sync.Mutex
	closed  bool
	nextSub uint64
	subs    map[uint64]func()
}

// New builds a client over an open database and a change feed.
// Call Init before use and Close on shutdown.
func New(db *gorm.DB, feed changefeed.Feed, opts Options) *Client {
	opts = opts.withDefaults()

	var repoOpts []repository.Option
	if opts.DocumentClock != nil {
		repoOpts = append(repoOpts, repository.WithClock(opts.DocumentClock))
	}
	cols := repository.NewCollections(db, repoOpts...)

	c := &Client{
		db:   db,
		feed: feed,
		opts: opts,
		cols: cols,
		subs: make(map[uint64]func()),
	}
	c.Posts = newCollection(c, domain.KindPosts, cols.Posts)
	c.Episodes = newCollection(c, domain.KindEpisodes, cols.Episodes)
	c.Gallery = newCollection(c, domain.KindGallery, cols.Gallery)
	return c
}

// Init migrates the three collection tables and checks the connection
func (c *Client) Init(ctx context.Context) error {
	if err := c.cols.MigrateAll(); err != nil {
		return fmt.Errorf("migrate collections: %w", err)
	}
	return c.Ping(ctx)
}

// Ping checks the database connection
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	pctx, cancel := context.WithTimeout(ctx, c.opts.QueryTimeout)
	defer cancel()
	return sqlDB.PingContext(pctx)
}

// Feed the change feed the client publishes to
func (c *Client) Feed() changefeed.Feed {
	return c.feed
}

// Close cancels every live subscription and closes the feed.
// Writes after Close fail with common.ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cancels := make([]func(), 0, len(c.subs))
	for _, cancel := range c.subs {
		cancels = append(cancels, cancel)
	}
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return c.feed.Close()
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// track registers a subscription so Close can cancel it
func (c *Client) track(cancel func()) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, false
	}
	c.nextSub++
	c.subs[c.nextSub] = cancel
	return c.nextSub, true
}

func (c *Client) untrack(id uint64) {
	c.mu.Lock()
	delete(c.subs, id)
	c.mu.Unlock()
}

// ActiveSubscriptions number of subscriptions not yet cancelled
func (c *Client) ActiveSubscriptions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

func closedErr(op string) error {
	return fmt.Errorf("%s: %w", op, common.ErrClosed)
}
