package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	typ  int
	data []byte
}

// fakeConn in-memory connection: reads block until Close
type fakeConn struct {
	mu      sync.Mutex
	written []frame
	done    chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}

func (f *fakeConn) isClosed() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.done) })
	return nil
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.done
	return 0, nil, errors.New("closed")
}

func (f *fakeConn) WriteMessage(typ int, data []byte) error {
	if f.isClosed() {
		return errors.New("closed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, frame{typ: typ, data: data})
	return nil
}

func (f *fakeConn) frames(typ int) []frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []frame
	for _, fr := range f.written {
		if fr.typ == typ {
			out = append(out, fr)
		}
	}
	return out
}

// fakeStream records the deliver callback and cancellation
type fakeStream struct {
	mu        sync.Mutex
	deliver   func([]byte)
	cancelled atomic.Bool
}

func (s *fakeStream) subscribe(deliver func([]byte)) func() {
	s.mu.Lock()
	s.deliver = deliver
	s.mu.Unlock()
	deliver([]byte(`{"type":"snapshot","kind":"blogs","degraded":false,"items":[]}`))
	return func() { s.cancelled.Store(true) }
}

func (s *fakeStream) push(b []byte) {
	s.mu.Lock()
	d := s.deliver
	s.mu.Unlock()
	d(b)
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func TestHub_ClientReceivesSnapshots(t *testing.T) {
	h := startHub(t)
	conn := newFakeConn()
	stream := &fakeStream{}

	c := NewClient(h, conn, domain.KindPosts, stream.subscribe)
	require.True(t, h.Register(c))
	go c.WritePump()
	go c.ReadPump()

	require.Eventually(t, func() bool { return len(conn.frames(websocket.TextMessage)) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, h.ClientCount(domain.KindPosts))

	stream.push([]byte(`{"type":"snapshot","kind":"blogs","degraded":false,"items":[{"id":"x"}]}`))
	require.Eventually(t, func() bool { return len(conn.frames(websocket.TextMessage)) == 2 }, time.Second, 5*time.Millisecond)
}

func TestHub_DisconnectCancelsSubscription(t *testing.T) {
	h := startHub(t)
	conn := newFakeConn()
	stream := &fakeStream{}

	c := NewClient(h, conn, domain.KindGallery, stream.subscribe)
	require.True(t, h.Register(c))
	go c.WritePump()
	go c.ReadPump()
	require.Eventually(t, func() bool { return h.ClientCount(domain.KindGallery) == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool { return h.ClientCount(domain.KindGallery) == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, stream.cancelled.Load())

	// frames after disconnect are dropped, not panicking on a closed channel
	stream.push([]byte(`{}`))
}

func TestHub_StopClosesClients(t *testing.T) {
	h := NewHub()
	go h.Run()
	conn := newFakeConn()
	stream := &fakeStream{}

	c := NewClient(h, conn, domain.KindEpisodes, stream.subscribe)
	require.True(t, h.Register(c))
	writerDone := make(chan struct{})
	go func() {
		c.WritePump()
		close(writerDone)
	}()

	h.Stop()
	assert.True(t, stream.cancelled.Load())

	select {
	case <-writerDone:
	case <-time.After(time.Second):
		t.Fatal("write pump did not exit")
	}
	assert.Len(t, conn.frames(websocket.CloseMessage), 1)

	assert.False(t, h.Register(NewClient(h, newFakeConn(), domain.KindPosts, stream.subscribe)))
}

func TestClient_SlowReaderIsDisconnected(t *testing.T) {
	h := NewHub()
	conn := newFakeConn()
	c := NewClient(h, conn, domain.KindPosts, func(func([]byte)) func() { return func() {} })

	for i := 0; i < sendBuffer; i++ {
		c.enqueue([]byte("x"))
	}
	assert.False(t, conn.isClosed())

	c.enqueue([]byte("overflow"))
	assert.True(t, conn.isClosed())
}

func TestEncodeSnapshot(t *testing.T) {
	data, err := EncodeSnapshot(domain.KindGallery, true, []domain.GalleryItem{})
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "snapshot", m["type"])
	assert.Equal(t, "gallery", m["kind"])
	assert.Equal(t, true, m["degraded"])
	assert.Equal(t, []interface{}{}, m["items"])
}
