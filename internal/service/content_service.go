package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agyouthrise/rise-backend/internal/changefeed"
	"github.com/agyouthrise/rise-backend/internal/common"
	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/media"
	"github.com/agyouthrise/rise-backend/internal/store"
	"github.com/agyouthrise/rise-backend/pkg/cache"
	pkglogger "github.com/agyouthrise/rise-backend/pkg/logger"
)

// ImageUpload an image attached to an authoring request
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// ListResult one filtered read of a collection
type ListResult struct {
	Kind     domain.Kind
	Items    interface{}
	Count    int  // items after filtering
	Total    int  // items in the full snapshot
	Degraded bool // store unreachable; Items is empty
	Cached   bool
}

// ContentService content read views and authoring
type ContentService interface {
	List(ctx context.Context, kind domain.Kind, q ListQuery) (*ListResult, error)
	Categories(ctx context.Context, kind domain.Kind) ([]domain.Category, error)

	CreatePost(ctx context.Context, req *domain.CreatePostRequest, image *ImageUpload) (*domain.CreatedResponse, error)
	CreateEpisode(ctx context.Context, req *domain.CreateEpisodeRequest) (*domain.CreatedResponse, error)
	CreateGalleryItem(ctx context.Context, req *domain.CreateGalleryRequest, image *ImageUpload) (*domain.CreatedResponse, error)
	Delete(ctx context.Context, kind domain.Kind, id string) error
	UploadImage(ctx context.Context, image *ImageUpload) (string, error)

	// WatchInvalidation drops cached snapshots whenever the feed reports a
	// change, including changes committed by other instances
	WatchInvalidation(ctx context.Context, feed changefeed.Feed)
}

// collection the store operations the service drives
type collection[T any, P any] interface {
	Create(ctx context.Context, rec P) (string, error)
	Delete(ctx context.Context, id string) error
	Snapshot(ctx context.Context) ([]T, error)
}

type contentService struct {
	posts    collection[domain.Post, *domain.Post]
	episodes collection[domain.Episode, *domain.Episode]
	gallery  collection[domain.GalleryItem, *domain.GalleryItem]
	gateway  media.Gateway
	cache    cache.Service
}

// NewContentService creates a new ContentService
func NewContentService(client *store.Client, gateway media.Gateway, cacheService cache.Service) ContentService {
	return &contentService{
		posts:    client.Posts,
		episodes: client.Episodes,
		gallery:  client.Gallery,
		gateway:  gateway,
		cache:    cacheService,
	}
}

// snapshot reads a collection through the snapshot cache. The generation is
// read before the store query, so a concurrent invalidation strands this
// write-back under a generation nobody reads.
func snapshot[T any, P any](ctx context.Context, c cache.Service, kind domain.Kind, coll collection[T, P]) ([]T, bool, error) {
	var items []T
	useCache := c != nil && c.IsAvailable()
	var gen int64
	if useCache {
		var err error
		gen, err = c.SnapshotGeneration(ctx, kind.String())
		switch {
		case err != nil:
			pkglogger.WithCollection(kind.String()).Debug().Err(err).Msg("snapshot generation read failed")
			useCache = false
		default:
			if err := c.GetSnapshot(ctx, kind.String(), gen, &items); err == nil {
				return items, true, nil
			} else if !errors.Is(err, cache.ErrMiss) {
				pkglogger.WithCollection(kind.String()).Debug().Err(err).Msg("snapshot cache read failed")
			}
		}
	}

	items, err := coll.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	if useCache {
		if err := c.SetSnapshot(ctx, kind.String(), gen, items); err != nil {
			pkglogger.WithCollection(kind.String()).Debug().Err(err).Msg("snapshot cache write failed")
		}
	}
	return items, false, nil
}

// degraded an empty result for a collection the store could not read
func degraded(kind domain.Kind, err error) *ListResult {
	pkglogger.WithCollection(kind.String()).Warn().Err(err).Msg("read failed, serving empty degraded list")
	var items interface{}
	switch kind {
	case domain.KindPosts:
		items = []domain.Post{}
	case domain.KindEpisodes:
		items = []domain.EpisodeView{}
	default:
		items = []domain.GalleryItem{}
	}
	return &ListResult{Kind: kind, Items: items, Degraded: true}
}

func (s *contentService) List(ctx context.Context, kind domain.Kind, q ListQuery) (*ListResult, error) {
	switch kind {
	case domain.KindPosts:
		items, cached, err := snapshot(ctx, s.cache, kind, s.posts)
		if err != nil {
			return degraded(kind, err), nil
		}
		out := FilterPosts(items, q)
		return &ListResult{Kind: kind, Items: out, Count: len(out), Total: len(items), Cached: cached}, nil

	case domain.KindEpisodes:
		items, cached, err := snapshot(ctx, s.cache, kind, s.episodes)
		if err != nil {
			return degraded(kind, err), nil
		}
		out := FilterEpisodes(items, q)
		return &ListResult{Kind: kind, Items: out, Count: len(out), Total: len(items), Cached: cached}, nil

	case domain.KindGallery:
		if q.Category != "" && !q.Category.Valid() {
			return nil, common.Invalid("unknown category %q", q.Category)
		}
		items, cached, err := snapshot(ctx, s.cache, kind, s.gallery)
		if err != nil {
			return degraded(kind, err), nil
		}
		out := FilterGallery(items, q)
		return &ListResult{Kind: kind, Items: out, Count: len(out), Total: len(items), Cached: cached}, nil
	}
	return nil, common.Invalid("unknown collection %q", kind)
}

func (s *contentService) Categories(ctx context.Context, kind domain.Kind) ([]domain.Category, error) {
	if kind != domain.KindGallery {
		return nil, common.Invalid("collection %q has no categories", kind)
	}
	items, _, err := snapshot(ctx, s.cache, kind, s.gallery)
	if err != nil {
		return nil, err
	}
	return GalleryCategories(items), nil
}

// uploadIfPresent an absent image is not an error; the item is stored without one
func (s *contentService) uploadIfPresent(ctx context.Context, image *ImageUpload, fallback string) (string, error) {
	if image == nil || image.Body == nil {
		return fallback, nil
	}
	return s.UploadImage(ctx, image)
}

func (s *contentService) CreatePost(ctx context.Context, req *domain.CreatePostRequest, image *ImageUpload) (*domain.CreatedResponse, error) {
	post := req.ToPost()
	if err := post.Validate(); err != nil {
		return nil, err
	}

	// 1. Upload image (nothing is written when this fails)
	imageURL, err := s.uploadIfPresent(ctx, image, post.ImageURL)
	if err != nil {
		return nil, err
	}
	post.ImageURL = imageURL

	// 2. Write document
	id, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, domain.KindPosts)
	return &domain.CreatedResponse{ID: id, ImageURL: imageURL}, nil
}

func (s *contentService) CreateEpisode(ctx context.Context, req *domain.CreateEpisodeRequest) (*domain.CreatedResponse, error) {
	if err := common.ValidateExternalLink(req.Link); err != nil {
		return nil, err
	}
	id, err := s.episodes.Create(ctx, req.ToEpisode())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, domain.KindEpisodes)
	return &domain.CreatedResponse{ID: id}, nil
}

func (s *contentService) CreateGalleryItem(ctx context.Context, req *domain.CreateGalleryRequest, image *ImageUpload) (*domain.CreatedResponse, error) {
	item := req.ToGalleryItem()
	if err := item.Validate(); err != nil {
		return nil, err
	}

	imageURL, err := s.uploadIfPresent(ctx, image, item.ImageURL)
	if err != nil {
		return nil, err
	}
	item.ImageURL = imageURL

	id, err := s.gallery.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, domain.KindGallery)
	return &domain.CreatedResponse{ID: id, ImageURL: imageURL}, nil
}

func (s *contentService) Delete(ctx context.Context, kind domain.Kind, id string) error {
	var err error
	switch kind {
	case domain.KindPosts:
		err = s.posts.Delete(ctx, id)
	case domain.KindEpisodes:
		err = s.episodes.Delete(ctx, id)
	case domain.KindGallery:
		err = s.gallery.Delete(ctx, id)
	default:
		return common.Invalid("unknown collection %q", kind)
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx, kind)
	return nil
}

func (s *contentService) UploadImage(ctx context.Context, image *ImageUpload) (string, error) {
	if image == nil || image.Body == nil {
		return "", common.Invalid("image is required")
	}
	if s.gateway == nil {
		return "", fmt.Errorf("%w: no media gateway configured", common.ErrUploadFailed)
	}
	url, err := s.gateway.Upload(ctx, image.Filename, image.Body)
	if err != nil {
		return "", err
	}
	pkglogger.GetLogger().Info().Str("filename", image.Filename).Str("url", url).Msg("image uploaded")
	return url, nil
}

func (s *contentService) invalidate(ctx context.Context, kind domain.Kind) {
	if s.cache == nil || !s.cache.IsAvailable() {
		return
	}
	if err := s.cache.InvalidateSnapshot(context.WithoutCancel(ctx), kind.String()); err != nil {
		pkglogger.WithCollection(kind.String()).Warn().Err(err).Msg("snapshot cache invalidation failed")
	}
}

func (s *contentService) WatchInvalidation(ctx context.Context, feed changefeed.Feed) {
	if s.cache == nil || !s.cache.IsAvailable() {
		return
	}
	for _, kind := range domain.Kinds {
		signals, release := feed.Listen(kind)
		go func(kind domain.Kind) {
			defer release()
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-signals:
					if !ok {
						return
					}
					s.invalidate(ctx, kind)
				}
			}
		}(kind)
	}
}
