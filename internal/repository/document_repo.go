package repository

import (
	"context"
	"time"

	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordPtr constrains P to a pointer to T that behaves as a domain.Record
type RecordPtr[T any] interface {
	*T
	domain.Record
}

// DocumentRepository 컬렉션 저장소 인터페이스
type DocumentRepository[T any, P RecordPtr[T]] interface {
	// Insert stores rec as a new document. When rec carries no id one is
	// generated; createdAt is always read from the database clock.
	Insert(ctx context.Context, rec P) error
	// FindAll returns every document ordered newest first
	FindAll(ctx context.Context) ([]T, error)
	// DeleteByID removes a document; an unknown id is not an error
	DeleteByID(ctx context.Context, id string) (int64, error)
	// Migrate creates or updates the collection table
	Migrate() error
}

// documentRepository GORM 구현체
type documentRepository[T any, P RecordPtr[T]] struct {
	db    *gorm.DB
	clock func() time.Time
}

// Option customizes a repository
type Option func(*options)

type options struct {
	clock func() time.Time
}

// WithClock replaces the database clock (tests)
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// NewDocumentRepository 생성자
func NewDocumentRepository[T any, P RecordPtr[T]](db *gorm.DB, opts ...Option) DocumentRepository[T, P] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &documentRepository[T, P]{db: db, clock: o.clock}
}

// sqliteTimeLayout strftime('%Y-%m-%d %H:%M:%f') output
const sqliteTimeLayout = "2006-01-02 15:04:05.000"

// DatabaseNow reads the current time from the database server, so documents
// written by different API hosts share one clock. Microsecond precision
// survives every driver.
func DatabaseNow(tx *gorm.DB) (time.Time, error) {
	var now time.Time
	switch tx.Dialector.Name() {
	case "sqlite":
		var raw string
		if err := tx.Raw("SELECT strftime('%Y-%m-%d %H:%M:%f', 'now')").Row().Scan(&raw); err != nil {
			return time.Time{}, err
		}
		parsed, err := time.ParseInLocation(sqliteTimeLayout, raw, time.UTC)
		if err != nil {
			return time.Time{}, err
		}
		now = parsed
	case "postgres":
		if err := tx.Raw("SELECT clock_timestamp()").Row().Scan(&now); err != nil {
			return time.Time{}, err
		}
	default:
		// mysql: DSN carries parseTime=True, loc=UTC
		if err := tx.Raw("SELECT UTC_TIMESTAMP(6)").Row().Scan(&now); err != nil {
			return time.Time{}, err
		}
	}
	return now.UTC().Truncate(time.Microsecond), nil
}

// NewDocumentID returns a fresh, time-ordered opaque id
func NewDocumentID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (r *documentRepository[T, P]) Insert(ctx context.Context, rec P) error {
	meta := rec.Meta()
	if meta.ID == "" {
		meta.ID = NewDocumentID()
	}
	meta.Seq = 0

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.clock != nil {
			meta.CreatedAt = r.clock()
		} else {
			now, err := DatabaseNow(tx)
			if err != nil {
				return err
			}
			meta.CreatedAt = now
		}
		return tx.Create(rec).Error
	})
}

func (r *documentRepository[T, P]) FindAll(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("seq DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *documentRepository[T, P]) DeleteByID(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("doc_id = ?", id).
		Delete(P(new(T)))
	return result.RowsAffected, result.Error
}

func (r *documentRepository[T, P]) Migrate() error {
	return r.db.AutoMigrate(P(new(T)))
}

// Collections bundles one repository per content kind
type Collections struct {
	Posts    DocumentRepository[domain.Post, *domain.Post]
	Episodes DocumentRepository[domain.Episode, *domain.Episode]
	Gallery  DocumentRepository[domain.GalleryItem, *domain.GalleryItem]
}

// NewCollections builds the three repositories over one connection
func NewCollections(db *gorm.DB, opts ...Option) *Collections {
	return &Collections{
		Posts:    NewDocumentRepository[domain.Post, *domain.Post](db, opts...),
		Episodes: NewDocumentRepository[domain.Episode, *domain.Episode](db, opts...),
		Gallery:  NewDocumentRepository[domain.GalleryItem, *domain.GalleryItem](db, opts...),
	}
}

// MigrateAll creates every collection table
func (c *Collections) MigrateAll() error {
	for _, m := range []func() error{c.Posts.Migrate, c.Episodes.Migrate, c.Gallery.Migrate} {
		if err := m(); err != nil {
			return err
		}
	}
	return nil
}
