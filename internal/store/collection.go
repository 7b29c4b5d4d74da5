package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agyouthrise/rise-backend/internal/changefeed"
	"github.com/agyouthrise/rise-backend/internal/common"
	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/repository"
	pkglogger "github.com/agyouthrise/rise-backend/pkg/logger"
	"gorm.io/gorm"
)

// Collection typed access to one content collection
type Collection[T any, P repository.RecordPtr[T]] struct {
	client *Client
	kind   domain.Kind
	repo   repository.DocumentRepository[T, P]
}

func newCollection[T any, P repository.RecordPtr[T]](client *Client, kind domain.Kind, repo repository.DocumentRepository[T, P]) *Collection[T, P] {
	return &Collection[T, P]{client: client, kind: kind, repo: repo}
}

// Kind collection name
func (c *Collection[T, P]) Kind() domain.Kind {
	return c.kind
}

// Create stores rec as a new document and returns its id.
// Any id or createdAt on rec is replaced by the store. rec is updated in place.
func (c *Collection[T, P]) Create(ctx context.Context, rec P) (string, error) {
	if c.client.isClosed() {
		return "", closedErr("create " + c.kind.String())
	}
	if err := rec.Validate(); err != nil {
		return "", err
	}

	// 재시도 시에도 같은 ID 유지
	meta := rec.Meta()
	meta.ID = repository.NewDocumentID()
	id := meta.ID

	attempts := 0
	err := c.client.withRetry(ctx, func(actx context.Context, attempt int) error {
		attempts = attempt
		meta.ID = id
		err := c.repo.Insert(actx, rec)
		if attempt > 1 && errors.Is(err, gorm.ErrDuplicatedKey) {
			// an earlier attempt committed before its deadline fired
			return nil
		}
		return err
	})
	contentWritesTotal.WithLabelValues(c.kind.String(), "create", resultLabel(err)).Inc()
	contentWriteAttempts.WithLabelValues(c.kind.String(), "create").Observe(float64(attempts))
	if err != nil {
		pkglogger.WithCollection(c.kind.String()).Error().Err(err).
			Str("id", id).Int("attempts", attempts).Msg("create failed")
		return "", fmt.Errorf("%w: %s: %w", common.ErrWriteFailed, c.kind, err)
	}

	c.publish(ctx, changefeed.OpCreate, id)
	return id, nil
}

// Delete removes a document. An unknown id is a successful no-op.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	if c.client.isClosed() {
		return closedErr("delete " + c.kind.String())
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return common.Invalid("id is required")
	}

	var removed int64
	attempts := 0
	err := c.client.withRetry(ctx, func(actx context.Context, attempt int) error {
		attempts = attempt
		n, err := c.repo.DeleteByID(actx, id)
		removed += n
		return err
	})
	contentWritesTotal.WithLabelValues(c.kind.String(), "delete", resultLabel(err)).Inc()
	contentWriteAttempts.WithLabelValues(c.kind.String(), "delete").Observe(float64(attempts))
	if err != nil {
		pkglogger.WithCollection(c.kind.String()).Error().Err(err).
			Str("id", id).Int("attempts", attempts).Msg("delete failed")
		return fmt.Errorf("%w: %s %s: %w", common.ErrDeleteFailed, c.kind, id, err)
	}
	if removed == 0 {
		pkglogger.WithCollection(c.kind.String()).Debug().Str("id", id).Msg("delete of unknown id")
	}

	// a retried delete may report 0 rows even though it removed the document
	c.publish(ctx, changefeed.OpDelete, id)
	return nil
}

// Snapshot one-shot read of the whole collection, newest first
func (c *Collection[T, P]) Snapshot(ctx context.Context) ([]T, error) {
	qctx, cancel := context.WithTimeout(ctx, c.client.opts.QueryTimeout)
	defer cancel()
	items, err := c.repo.FindAll(qctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrSubscription, c.kind, err)
	}
	return items, nil
}

func (c *Collection[T, P]) publish(ctx context.Context, op changefeed.Op, id string) {
	change := changefeed.Change{Kind: c.kind, Op: op, ID: id, At: c.client.now()}
	// the write already committed; a lost notification must not fail it
	if err := c.client.feed.Publish(context.WithoutCancel(ctx), change); err != nil {
		pkglogger.WithCollection(c.kind.String()).Warn().Err(err).
			Str("op", string(op)).Str("id", id).Msg("change publish failed")
	}
}
