package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agyouthrise/rise-backend/internal/domain"
	pkglogger "github.com/agyouthrise/rise-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "content:changes"

// RedisFeed local fan-out plus Redis pub/sub so every API instance refreshes
// its subscribers after a write committed on any instance
type RedisFeed struct {
	*LocalFeed
	client   *redis.Client
	instance string
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRedisFeed subscribes to the shared channel and starts relaying.
// The subscription is confirmed before returning.
func NewRedisFeed(ctx context.Context, client *redis.Client) (*RedisFeed, error) {
	fctx, cancel := context.WithCancel(context.Background())
	f := &RedisFeed{
		LocalFeed: NewLocalFeed(),
		client:    client,
		instance:  uuid.NewString(),
		ctx:       fctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	pubsub := client.Subscribe(fctx, redisPubSubChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", redisPubSubChannel, err)
	}

	go f.relay(pubsub)
	return f, nil
}

// Instance unique id of this process on the shared channel
func (f *RedisFeed) Instance() string {
	return f.instance
}

// Publish fans out locally, then to other instances.
// A Redis failure is returned but local listeners have already been signalled.
func (f *RedisFeed) Publish(ctx context.Context, ch Change) error {
	ch.Origin = f.instance
	f.broadcast(ch)

	data, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	if err := f.client.Publish(ctx, redisPubSubChannel, data).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// relay listens for changes from other instances
func (f *RedisFeed) relay(pubsub *redis.PubSub) {
	defer close(f.done)
	defer pubsub.Close()

	log := pkglogger.GetLogger()
	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			change, err := decodeChange(msg.Payload)
			if err != nil {
				log.Warn().Err(err).Msg("dropping malformed change message")
				continue
			}
			// 자기 자신이 보낸 메시지는 이미 로컬에 전달됨
			if change.Origin == f.instance {
				continue
			}
			f.broadcast(change)
		case <-f.ctx.Done():
			return
		}
	}
}

func decodeChange(payload string) (Change, error) {
	var c Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Change{}, err
	}
	if _, ok := domain.ParseKind(string(c.Kind)); !ok {
		return Change{}, fmt.Errorf("unknown collection %q", c.Kind)
	}
	return c, nil
}

// Close stops relaying and closes local listeners
func (f *RedisFeed) Close() error {
	f.cancel()
	<-f.done
	return f.LocalFeed.Close()
}
