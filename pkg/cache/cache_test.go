package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestService_WithoutRedis(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil)

	assert.False(t, svc.IsAvailable())
	assert.Error(t, svc.Ping(ctx))

	_, err := svc.SnapshotGeneration(ctx, "blogs")
	assert.ErrorIs(t, err, ErrMiss)

	assert.NoError(t, svc.SetSnapshot(ctx, "blogs", 0, []string{"a"}))

	var out []string
	assert.ErrorIs(t, svc.GetSnapshot(ctx, "blogs", 0, &out), ErrMiss)
	assert.Nil(t, out)
	assert.NoError(t, svc.InvalidateSnapshot(ctx, "blogs"))
}

func TestSnapshotKeys(t *testing.T) {
	assert.Equal(t, "content:snapshot:gallery:0", SnapshotKey("gallery", 0))
	assert.Equal(t, "content:snapshot:gallery:12", SnapshotKey("gallery", 12))
	assert.Equal(t, "content:snapshot:gen:gallery", GenerationKey("gallery"))
	assert.NotEqual(t, SnapshotKey("podcasts", 1), SnapshotKey("podcasts", 2))
}
