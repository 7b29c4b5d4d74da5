package domain

import (
	"strings"
	"time"
)

// Kind identifies one of the three content collections
type Kind string

const (
	KindPosts    Kind = "blogs"
	KindEpisodes Kind = "podcasts"
	KindGallery  Kind = "gallery"
)

// Kinds lists every collection in display order
var Kinds = []Kind{KindPosts, KindEpisodes, KindGallery}

// ParseKind resolves a collection name; ok is false for unknown names
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindPosts, KindEpisodes, KindGallery:
		return k, true
	}
	return "", false
}

func (k Kind) String() string { return string(k) }

// Category gallery image category (closed set)
type Category string

const (
	CategoryEvent     Category = "event"
	CategoryTraining  Category = "training"
	CategoryCommunity Category = "community"
	CategoryGeneral   Category = "general"
)

// Categories lists every valid gallery category
var Categories = []Category{CategoryEvent, CategoryTraining, CategoryCommunity, CategoryGeneral}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryEvent, CategoryTraining, CategoryCommunity, CategoryGeneral:
		return true
	}
	return false
}

// Document store-owned identity shared by every entity.
// Seq only breaks createdAt ties and is never serialized.
type Document struct {
	Seq       int64     `gorm:"column:seq;primaryKey;autoIncrement" json:"-"`
	ID        string    `gorm:"column:doc_id;size:36;not null;uniqueIndex" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"createdAt"`
}

// Meta exposes the embedded document header to generic store code
func (d *Document) Meta() *Document { return d }

// Record is implemented by *Post, *Episode and *GalleryItem
type Record interface {
	Meta() *Document
	Kind() Kind
	Validate() error
}

// Post blog / news item (blogs 컬렉션)
type Post struct {
	Document `gorm:"embedded"`
	Title    string `gorm:"column:title;size:255;not null" json:"title"`
	Content  string `gorm:"column:content;type:text" json:"content"`
	ImageURL string `gorm:"column:image_url;size:1024" json:"imageUrl"`
}

// TableName maps Post onto the blogs collection
func (Post) TableName() string { return string(KindPosts) }

// Kind returns the collection the record lives in
func (*Post) Kind() Kind { return KindPosts }

// Validate checks the author-supplied fields
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return invalid("title is required")
	}
	return nil
}

// Episode podcast item (podcasts 컬렉션)
type Episode struct {
	Document    `gorm:"embedded"`
	Title       string `gorm:"column:title;size:255;not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Link        string `gorm:"column:link;size:1024;not null" json:"link"`
}

// TableName maps Episode onto the podcasts collection
func (Episode) TableName() string { return string(KindEpisodes) }

// Kind returns the collection the record lives in
func (*Episode) Kind() Kind { return KindEpisodes }

// Validate checks the author-supplied fields
func (e *Episode) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return invalid("title is required")
	}
	if strings.TrimSpace(e.Link) == "" {
		return invalid("link is required")
	}
	return nil
}

// GalleryItem gallery image (gallery 컬렉션)
type GalleryItem struct {
	Document    `gorm:"embedded"`
	Title       string   `gorm:"column:title;size:255;not null" json:"title"`
	Description string   `gorm:"column:description;type:text" json:"description"`
	Category    Category `gorm:"column:category;size:32;not null" json:"category"`
	ImageURL    string   `gorm:"column:image_url;size:1024" json:"imageUrl"`
}

// TableName maps GalleryItem onto the gallery collection
func (GalleryItem) TableName() string { return string(KindGallery) }

// Kind returns the collection the record lives in
func (*GalleryItem) Kind() Kind { return KindGallery }

// Validate checks the author-supplied fields
func (g *GalleryItem) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return invalid("title is required")
	}
	if !g.Category.Valid() {
		return invalid("unknown category %q", g.Category)
	}
	return nil
}

// Snapshot the complete, ordered content of a collection at one point in time.
// Degraded is set when the store could not be read; Items is then empty.
type Snapshot[T any] struct {
	Kind     Kind      `json:"kind"`
	Items    []T       `json:"items"`
	Degraded bool      `json:"degraded"`
	At       time.Time `json:"at"`
}
