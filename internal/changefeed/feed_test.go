package changefeed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFeed_PublishListen(t *testing.T) {
	f := NewLocalFeed()
	defer f.Close()

	sig, release := f.Listen(domain.KindPosts)
	defer release()

	require.NoError(t, f.Publish(context.Background(), Change{Kind: domain.KindPosts, Op: OpCreate, ID: "a"}))

	select {
	case got := <-sig:
		assert.Equal(t, "a", got.ID)
		assert.Equal(t, OpCreate, got.Op)
	case <-time.After(time.Second):
		t.Fatal("expected a signal")
	}
}

func TestLocalFeed_OtherCollectionNotSignalled(t *testing.T) {
	f := NewLocalFeed()
	defer f.Close()

	sig, release := f.Listen(domain.KindGallery)
	defer release()

	_ = f.Publish(context.Background(), Change{Kind: domain.KindEpisodes, Op: OpDelete, ID: "x"})

	select {
	case got := <-sig:
		t.Fatalf("unexpected signal %+v", got)
	default:
	}
}

func TestLocalFeed_CoalescesBursts(t *testing.T) {
	f := NewLocalFeed()
	defer f.Close()

	sig, release := f.Listen(domain.KindPosts)
	defer release()

	for i := 0; i < 10; i++ {
		_ = f.Publish(context.Background(), Change{Kind: domain.KindPosts, Op: OpCreate})
	}

	assert.Len(t, sig, 1)
}

func TestLocalFeed_ReleaseClosesChannel(t *testing.T) {
	f := NewLocalFeed()
	defer f.Close()

	sig, release := f.Listen(domain.KindPosts)
	assert.Equal(t, 1, f.ListenerCount(domain.KindPosts))

	release()
	release() // idempotent

	_, ok := <-sig
	assert.False(t, ok)
	assert.Equal(t, 0, f.ListenerCount(domain.KindPosts))

	// publishing after release must not panic
	_ = f.Publish(context.Background(), Change{Kind: domain.KindPosts})
}

func TestLocalFeed_CloseReleasesAll(t *testing.T) {
	f := NewLocalFeed()
	a, releaseA := f.Listen(domain.KindPosts)
	b, releaseB := f.Listen(domain.KindGallery)

	require.NoError(t, f.Close())

	_, okA := <-a
	_, okB := <-b
	assert.False(t, okA)
	assert.False(t, okB)

	// release after Close is a no-op
	releaseA()
	releaseB()

	late, _ := f.Listen(domain.KindPosts)
	_, ok := <-late
	assert.False(t, ok)
}

func TestLocalFeed_ConcurrentPublish(t *testing.T) {
	f := NewLocalFeed()
	defer f.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sig, release := f.Listen(domain.KindEpisodes)
			defer release()
			for j := 0; j < 50; j++ {
				_ = f.Publish(context.Background(), Change{Kind: domain.KindEpisodes})
				select {
				case <-sig:
				default:
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, f.ListenerCount(domain.KindEpisodes))
}

func TestDecodeChange(t *testing.T) {
	c, err := decodeChange(`{"kind":"gallery","op":"delete","id":"x","origin":"i1"}`)
	require.NoError(t, err)
	assert.Equal(t, domain.KindGallery, c.Kind)
	assert.Equal(t, OpDelete, c.Op)
	assert.Equal(t, "i1", c.Origin)

	_, err = decodeChange(`{"kind":"users"}`)
	assert.Error(t, err)

	_, err = decodeChange(`not json`)
	assert.Error(t, err)
}
