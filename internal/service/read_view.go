package service

import (
	"strings"

	"github.com/agyouthrise/rise-backend/internal/domain"
)

// ListQuery read-side filters, applied to a full snapshot in memory
type ListQuery struct {
	Search   string
	Category domain.Category
	Limit    int
}

// containsFold case-insensitive substring match against any field
func containsFold(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func applyLimit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// FilterPosts search matches title or content
func FilterPosts(items []domain.Post, q ListQuery) []domain.Post {
	out := make([]domain.Post, 0, len(items))
	for _, p := range items {
		if containsFold(q.Search, p.Title, p.Content) {
			out = append(out, p)
		}
	}
	return applyLimit(out, q.Limit)
}

// NumberEpisodes numbers episodes by position in the full snapshot, newest
// highest: episodeNumber = len(snapshot) - index
func NumberEpisodes(items []domain.Episode) []domain.EpisodeView {
	views := make([]domain.EpisodeView, len(items))
	for i, e := range items {
		views[i] = domain.EpisodeView{Episode: e, EpisodeNumber: len(items) - i}
	}
	return views
}

// FilterEpisodes numbers the full snapshot first, then filters, so numbers
// stay stable under search
func FilterEpisodes(items []domain.Episode, q ListQuery) []domain.EpisodeView {
	views := NumberEpisodes(items)
	out := make([]domain.EpisodeView, 0, len(views))
	for _, v := range views {
		if containsFold(q.Search, v.Title, v.Description) {
			out = append(out, v)
		}
	}
	return applyLimit(out, q.Limit)
}

// FilterGallery category plus search on title or description
func FilterGallery(items []domain.GalleryItem, q ListQuery) []domain.GalleryItem {
	out := make([]domain.GalleryItem, 0, len(items))
	for _, g := range items {
		if q.Category != "" && g.Category != q.Category {
			continue
		}
		if containsFold(q.Search, g.Title, g.Description) {
			out = append(out, g)
		}
	}
	return applyLimit(out, q.Limit)
}

// GalleryCategories distinct categories present, in first-seen order
func GalleryCategories(items []domain.GalleryItem) []domain.Category {
	seen := make(map[domain.Category]bool)
	out := make([]domain.Category, 0, len(domain.Categories))
	for _, g := range items {
		if !seen[g.Category] {
			seen[g.Category] = true
			out = append(out, g.Category)
		}
	}
	return out
}
