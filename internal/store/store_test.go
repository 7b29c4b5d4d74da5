package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agyouthrise/rise-backend/internal/changefeed"
	"github.com/agyouthrise/rise-backend/internal/common"
	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newTestClient(t *testing.T, opts Options) *Client {
	t.Helper()
	c := New(setupTestDB(t), changefeed.NewLocalFeed(), opts)
	require.NoError(t, c.Init(context.Background()))
	t.Cleanup(func() { c.Close() })
	return c
}

// steppingClock advances one second per call
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

// snapshotRecorder collects every snapshot a List handler receives
type snapshotRecorder[T any] struct {
	mu    sync.Mutex
	snaps []domain.Snapshot[T]
}

func (r *snapshotRecorder[T]) record(s domain.Snapshot[T]) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *snapshotRecorder[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *snapshotRecorder[T]) last() domain.Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

func TestCreate_RoundTripThroughList(t *testing.T) {
	c := newTestClient(t, Options{})
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	id, err := c.Posts.Create(ctx, &domain.Post{Title: "A", Content: "hello", ImageURL: ""})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec := &snapshotRecorder[domain.Post]{}
	cancel := c.Posts.List(ctx, rec.record)
	defer cancel()

	require.Eventually(t, func() bool { return rec.count() >= 1 }, time.Second, 5*time.Millisecond)
	first := rec.last()
	assert.False(t, first.Degraded)
	assert.Equal(t, domain.KindPosts, first.Kind)
	require.Len(t, first.Items, 1)

	got := first.Items[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, "", got.ImageURL)
	assert.False(t, got.CreatedAt.Before(before))
}

func TestCreate_IgnoresCallerIdentity(t *testing.T) {
	c := newTestClient(t, Options{})
	ctx := context.Background()

	post := &domain.Post{Title: "spoof"}
	post.ID = "caller-chosen"
	post.CreatedAt = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

	id, err := c.Posts.Create(ctx, post)
	require.NoError(t, err)
	assert.NotEqual(t, "caller-chosen", id)
	assert.True(t, post.CreatedAt.After(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCreate_GalleryNewestFirst(t *testing.T) {
	c := newTestClient(t, Options{DocumentClock: steppingClock(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))})
	ctx := context.Background()

	_, err := c.Gallery.Create(ctx, &domain.GalleryItem{Title: "opening", Category: domain.CategoryEvent})
	require.NoError(t, err)
	_, err = c.Gallery.Create(ctx, &domain.GalleryItem{Title: "workshop", Category: domain.CategoryTraining})
	require.NoError(t, err)

	items, err := c.Gallery.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.CategoryTraining, items[0].Category)
	assert.Equal(t, domain.CategoryEvent, items[1].Category)
}

func TestSnapshot_EqualCreatedAtNewestWriteFirst(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	c := newTestClient(t, Options{DocumentClock: func() time.Time { return at }})
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := c.Posts.Create(ctx, &domain.Post{Title: title})
		require.NoError(t, err)
	}

	items, err := c.Posts.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"three", "two", "one"}, []string{items[0].Title, items[1].Title, items[2].Title})
	for _, it := range items {
		assert.True(t, it.CreatedAt.Equal(at))
	}
}

func TestCreate_CreatedAtIgnoresHostClockSkew(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	hostA := New(db, changefeed.NewLocalFeed(), Options{})
	// host B runs two seconds behind
	hostB := New(db, changefeed.NewLocalFeed(), Options{Clock: func() time.Time {
		return time.Now().UTC().Add(-2 * time.Second)
	}})
	require.NoError(t, hostA.Init(ctx))
	require.NoError(t, hostB.Init(ctx))
	t.Cleanup(func() {
		hostA.Close()
		hostB.Close()
	})

	_, err := hostA.Episodes.Create(ctx, &domain.Episode{Title: "written first", Link: "https://example.org/a"})
	require.NoError(t, err)
	_, err = hostB.Episodes.Create(ctx, &domain.Episode{Title: "written second", Link: "https://example.org/b"})
	require.NoError(t, err)

	items, err := hostA.Episodes.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "written second", items[0].Title)
	assert.False(t, items[0].CreatedAt.Before(items[1].CreatedAt))
}

func TestSnapshot_SortedAndComplete(t *testing.T) {
	c := newTestClient(t, Options{})
	ctx := context.Background()

	ids := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := c.Episodes.Create(ctx, &domain.Episode{
			Title: fmt.Sprintf("Episode %d", i),
			Link:  fmt.Sprintf("https://example.org/ep/%d", i),
		})
		require.NoError(t, err)
		ids[id] = true
	}
	deleted := ""
	for id := range ids {
		deleted = id
		break
	}
	require.NoError(t, c.Episodes.Delete(ctx, deleted))
	delete(ids, deleted)

	items, err := c.Episodes.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, items, len(ids))
	for i, it := range items {
		assert.True(t, ids[it.ID], "unexpected id %s", it.ID)
		if i > 0 {
			assert.False(t, items[i-1].CreatedAt.Before(it.CreatedAt), "snapshot out of order at %d", i)
		}
	}
}

func TestCreate_InvalidPayloadWritesNothing(t *testing.T) {
	c := newTestClient(t, Options{})
	ctx := context.Background()

	_, err := c.Gallery.Create(ctx, &domain.GalleryItem{Title: "x", Category: "party"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = c.Episodes.Create(ctx, &domain.Episode{Title: "no link"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	g, err := c.Gallery.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, g)
}

func TestDelete_UnknownIDIsNoop(t *testing.T) {
	c := newTestClient(t, Options{})
	ctx := context.Background()

	id, err := c.Episodes.Create(ctx, &domain.Episode{Title: "Ep", Link: "https://example.org/1"})
	require.NoError(t, err)

	require.NoError(t, c.Episodes.Delete(ctx, "Y-does-not-exist"))

	items, err := c.Episodes.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)

	assert.ErrorIs(t, c.Episodes.Delete(ctx, "  "), common.ErrInvalidInput)
}

func TestList_ReceivesChanges(t *testing.T) {
	c := newTestClient(t, Options{})
	ctx := context.Background()

	rec := &snapshotRecorder[domain.Post]{}
	cancel := c.Posts.List(ctx, rec.record)
	defer cancel()

	require.Eventually(t, func() bool { return rec.count() >= 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, rec.last().Items)
	assert.NotNil(t, rec.last().Items)

	id, err := c.Posts.Create(ctx, &domain.Post{Title: "news"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(rec.last().Items) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Posts.Delete(ctx, id))
	require.Eventually(t, func() bool {
		for _, p := range rec.last().Items {
			if p.ID == id {
				return false
			}
		}
		return true
	}, time.Second, 5*time.Millisecond)
}

func TestList_CancelStopsCallbacks(t *testing.T) {
	c := newTestClient(t, Options{})
	ctx := context.Background()

	var calls atomic.Int32
	cancel := c.Posts.List(ctx, func(domain.Snapshot[domain.Post]) { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	_, err := c.Posts.Create(ctx, &domain.Post{Title: "after cancel"})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, c.ActiveSubscriptions())

	cancel() // second cancel is harmless
}

func TestList_CancelDuringHandlerFromAnotherGoroutine(t *testing.T) {
	c := newTestClient(t, Options{})
	ctx := context.Background()

	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	cancel := c.Posts.List(ctx, func(domain.Snapshot[domain.Post]) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
	})
	<-entered

	cancelled := make(chan struct{})
	go func() {
		cancel()
		close(cancelled)
	}()
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("cancel blocked behind a running handler")
	}

	// changes after cancel returned must not reach the handler
	_, err := c.Posts.Create(ctx, &domain.Post{Title: "after cancel"})
	require.NoError(t, err)
	close(release)

	require.Eventually(t, func() bool { return c.ActiveSubscriptions() == 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestList_CancelWhileIdleWaitsForLoopExit(t *testing.T) {
	c := newTestClient(t, Options{})
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		var calls atomic.Int32
		cancel := c.Gallery.List(ctx, func(domain.Snapshot[domain.GalleryItem]) { calls.Add(1) })
		if i%2 == 0 {
			require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
		}
		cancel()
		seen := calls.Load()
		assert.Equal(t, 0, c.ActiveSubscriptions())

		_, err := c.Gallery.Create(ctx, &domain.GalleryItem{Title: "g", Category: domain.CategoryGeneral})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		assert.Equal(t, seen, calls.Load(), "handler ran after cancel returned (iteration %d)", i)
	}
}

func TestList_CancelFromInsideHandler(t *testing.T) {
	c := newTestClient(t, Options{})
	ctx := context.Background()

	var calls atomic.Int32
	var cancel func()
	ready := make(chan struct{})
	cancel = c.Posts.List(ctx, func(domain.Snapshot[domain.Post]) {
		<-ready
		calls.Add(1)
		cancel()
	})
	close(ready)

	require.Eventually(t, func() bool { return c.ActiveSubscriptions() == 0 }, time.Second, 5*time.Millisecond)
	_, err := c.Posts.Create(ctx, &domain.Post{Title: "x"})
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestList_ContextCancellationEndsSubscription(t *testing.T) {
	c := newTestClient(t, Options{})
	ctx, cancelCtx := context.WithCancel(context.Background())

	var calls atomic.Int32
	cancel := c.Gallery.List(ctx, func(domain.Snapshot[domain.GalleryItem]) { calls.Add(1) })
	defer cancel()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancelCtx()
	require.Eventually(t, func() bool { return c.ActiveSubscriptions() == 0 }, time.Second, 5*time.Millisecond)

	_, err := c.Gallery.Create(context.Background(), &domain.GalleryItem{Title: "g", Category: domain.CategoryGeneral})
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSubscribe_ChannelForm(t *testing.T) {
	c := newTestClient(t, Options{})
	ctx := context.Background()

	sub := c.Episodes.Subscribe(ctx)

	select {
	case s := <-sub.Updates():
		assert.Empty(t, s.Items)
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	_, err := c.Episodes.Create(ctx, &domain.Episode{Title: "Ep 1", Link: "https://example.org/1"})
	require.NoError(t, err)

	select {
	case s := <-sub.Updates():
		require.Len(t, s.Items, 1)
		assert.Equal(t, "Ep 1", s.Items[0].Title)
	case <-time.After(time.Second):
		t.Fatal("no snapshot after create")
	}

	sub.Cancel()
	_, ok := <-sub.Updates()
	assert.False(t, ok)
}

func TestClose_CancelsSubscriptionsAndRejectsWrites(t *testing.T) {
	c := New(setupTestDB(t), changefeed.NewLocalFeed(), Options{})
	require.NoError(t, c.Init(context.Background()))
	ctx := context.Background()

	sub := c.Posts.Subscribe(ctx)
	<-sub.Updates()
	var calls atomic.Int32
	c.Gallery.List(ctx, func(domain.Snapshot[domain.GalleryItem]) { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Close())
	assert.Equal(t, 0, c.ActiveSubscriptions())

	_, ok := <-sub.Updates()
	assert.False(t, ok)

	_, err := c.Posts.Create(ctx, &domain.Post{Title: "late"})
	assert.ErrorIs(t, err, common.ErrClosed)
	assert.ErrorIs(t, c.Posts.Delete(ctx, "x"), common.ErrClosed)

	require.NoError(t, c.Close())
}

// flakyRepo injects failures in front of a real repository
type flakyRepo[T any, P repository.RecordPtr[T]] struct {
	repository.DocumentRepository[T, P]

	mu             sync.Mutex
	insertErrs     []error
	deleteErrs     []error
	findErrs       []error
	commitThenFail bool
	insertCalls    int
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (r *flakyRepo[T, P]) Insert(ctx context.Context, rec P) error {
	r.mu.Lock()
	r.insertCalls++
	err := pop(&r.insertErrs)
	commit := r.commitThenFail
	r.commitThenFail = false
	r.mu.Unlock()

	if commit {
		if e := r.DocumentRepository.Insert(ctx, rec); e != nil {
			return e
		}
		return context.DeadlineExceeded
	}
	if err != nil {
		return err
	}
	return r.DocumentRepository.Insert(ctx, rec)
}

func (r *flakyRepo[T, P]) DeleteByID(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	err := pop(&r.deleteErrs)
	r.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return r.DocumentRepository.DeleteByID(ctx, id)
}

func (r *flakyRepo[T, P]) FindAll(ctx context.Context) ([]T, error) {
	r.mu.Lock()
	err := pop(&r.findErrs)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.DocumentRepository.FindAll(ctx)
}

func newFlakyPosts(c *Client) (*Collection[domain.Post, *domain.Post], *flakyRepo[domain.Post, *domain.Post]) {
	repo := &flakyRepo[domain.Post, *domain.Post]{DocumentRepository: c.cols.Posts}
	return newCollection[domain.Post, *domain.Post](c, domain.KindPosts, repo), repo
}

type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) sleep(d time.Duration) {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
}

func TestCreate_RetriesTransientFailure(t *testing.T) {
	sleeper := &recordingSleeper{}
	c := newTestClient(t, Options{
		Retry:   RetryPolicy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second},
		Sleeper: sleeper.sleep,
	})
	posts, repo := newFlakyPosts(c)
	repo.insertErrs = []error{errors.New("connection reset"), errors.New("connection reset")}

	id, err := posts.Create(context.Background(), &domain.Post{Title: "retry me"})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.insertCalls)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, sleeper.delays)

	items, err := posts.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
}

func TestCreate_CommittedAttemptIsNotDuplicated(t *testing.T) {
	c := newTestClient(t, Options{Sleeper: func(time.Duration) {}})
	posts, repo := newFlakyPosts(c)
	repo.commitThenFail = true

	id, err := posts.Create(context.Background(), &domain.Post{Title: "once"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.insertCalls)

	items, err := posts.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
}

func TestCreate_ExhaustedRetriesFail(t *testing.T) {
	c := newTestClient(t, Options{
		Retry:   RetryPolicy{MaxAttempts: 2},
		Sleeper: func(time.Duration) {},
	})
	posts, repo := newFlakyPosts(c)
	repo.insertErrs = []error{errors.New("db down"), errors.New("db down")}

	_, err := posts.Create(context.Background(), &domain.Post{Title: "lost"})
	assert.ErrorIs(t, err, common.ErrWriteFailed)
	assert.Contains(t, err.Error(), "db down")
	assert.Equal(t, 2, repo.insertCalls)
}

func TestCreate_CallerCancellationStopsRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := newTestClient(t, Options{
		Retry:   RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond},
		Sleeper: func(time.Duration) { cancel() },
	})
	posts, repo := newFlakyPosts(c)
	repo.insertErrs = []error{errors.New("db down"), errors.New("db down")}

	_, err := posts.Create(ctx, &domain.Post{Title: "x"})
	assert.ErrorIs(t, err, common.ErrWriteFailed)
	assert.Equal(t, 1, repo.insertCalls)
}

func TestDelete_FailureKeepsItem(t *testing.T) {
	c := newTestClient(t, Options{Retry: RetryPolicy{MaxAttempts: 1}})
	posts, repo := newFlakyPosts(c)
	ctx := context.Background()

	id, err := posts.Create(ctx, &domain.Post{Title: "stays"})
	require.NoError(t, err)

	repo.deleteErrs = []error{errors.New("lock wait timeout")}
	err = posts.Delete(ctx, id)
	assert.ErrorIs(t, err, common.ErrDeleteFailed)

	items, err := posts.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestList_QueryFailureDeliversDegradedSnapshot(t *testing.T) {
	c := newTestClient(t, Options{Retry: RetryPolicy{MaxDelay: 20 * time.Millisecond}})
	posts, repo := newFlakyPosts(c)
	ctx := context.Background()

	_, err := posts.Create(ctx, &domain.Post{Title: "visible"})
	require.NoError(t, err)
	repo.findErrs = []error{errors.New("query timeout")}

	rec := &snapshotRecorder[domain.Post]{}
	cancel := posts.List(ctx, rec.record)
	defer cancel()

	require.Eventually(t, func() bool { return rec.count() >= 1 }, time.Second, 5*time.Millisecond)
	rec.mu.Lock()
	first := rec.snaps[0]
	rec.mu.Unlock()
	assert.True(t, first.Degraded)
	assert.NotNil(t, first.Items)
	assert.Empty(t, first.Items)

	// recovers without another write
	require.Eventually(t, func() bool {
		s := rec.last()
		return !s.Degraded && len(s.Items) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSnapshot_FailureIsSubscriptionError(t *testing.T) {
	c := newTestClient(t, Options{})
	posts, repo := newFlakyPosts(c)
	repo.findErrs = []error{errors.New("boom")}

	_, err := posts.Snapshot(context.Background())
	assert.ErrorIs(t, err, common.ErrSubscription)
}

func TestRetryPolicy_BackoffDelay(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}
	assert.Equal(t, 100*time.Millisecond, p.backoffDelay(1))
	assert.Equal(t, 200*time.Millisecond, p.backoffDelay(2))
	assert.Equal(t, 400*time.Millisecond, p.backoffDelay(3))
	assert.Equal(t, 800*time.Millisecond, p.backoffDelay(4))
	assert.Equal(t, time.Second, p.backoffDelay(5))
	assert.Equal(t, time.Second, p.backoffDelay(12))

	assert.Equal(t, time.Duration(0), RetryPolicy{}.backoffDelay(3))
	assert.Equal(t, 1, RetryPolicy{}.attempts())
}

func TestShouldRetry(t *testing.T) {
	ctx := context.Background()
	assert.True(t, shouldRetry(ctx, errors.New("driver: bad connection")))
	assert.True(t, shouldRetry(ctx, context.DeadlineExceeded))
	assert.False(t, shouldRetry(ctx, common.Invalid("x")))
	assert.False(t, shouldRetry(ctx, gorm.ErrDuplicatedKey))
	assert.False(t, shouldRetry(ctx, nil))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.False(t, shouldRetry(cancelled, errors.New("x")))
}

func TestOptionsFromConfigDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, defaultWriteTimeout, o.WriteTimeout)
	assert.Equal(t, defaultQueryTimeout, o.QueryTimeout)
	assert.Equal(t, defaultRetryAttempts, o.Retry.MaxAttempts)
	assert.Equal(t, defaultRetryBaseDelay, o.Retry.BaseDelay)
	assert.Equal(t, defaultRetryMaxDelay, o.Retry.MaxDelay)
}

func TestCreate_DefaultPolicyBacksOff(t *testing.T) {
	sleeper := &recordingSleeper{}
	c := newTestClient(t, Options{Sleeper: sleeper.sleep})
	posts, repo := newFlakyPosts(c)
	repo.insertErrs = []error{errors.New("connection reset")}

	_, err := posts.Create(context.Background(), &domain.Post{Title: "backoff"})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{defaultRetryBaseDelay}, sleeper.delays)
}
