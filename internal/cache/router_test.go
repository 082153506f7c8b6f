package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"zamar-backend/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrigin struct {
	mu     sync.Mutex
	body   string
	status int
	err    error
	calls  int32
	gate   chan struct{}
}

func (o *fakeOrigin) Fetch(_ context.Context, _ Request) (*Entry, error) {
	atomic.AddInt32(&o.calls, 1)
	if o.gate != nil {
		<-o.gate
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	return &Entry{Status: o.status, ContentType: "text/plain", Body: []byte(o.body)}, nil
}

func (o *fakeOrigin) set(body string, status int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.body, o.status, o.err = body, status, err
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	store, err := NewMemoryStore(16, 0)
	require.NoError(t, err)
	return NewRouter(store, "v1", logger.Discard())
}

func get(path string) Request {
	return Request{Method: "GET", Path: path, Accept: "*/*"}
}

func TestRouter_CacheFirst(t *testing.T) {
	r := newTestRouter(t)
	origin := &fakeOrigin{body: "v1", status: 200}
	ctx := context.Background()

	res, err := r.Handle(ctx, get("/assets/app.js"), origin)
	require.NoError(t, err)
	assert.Equal(t, StatusMiss, res.Status)
	assert.Equal(t, KindStatic, res.Kind)

	origin.set("v2", 200, nil)
	res, err = r.Handle(ctx, get("/assets/app.js"), origin)
	require.NoError(t, err)
	assert.Equal(t, StatusHit, res.Status)
	assert.Equal(t, "v1", string(res.Entry.Body))
	assert.Equal(t, int32(1), atomic.LoadInt32(&origin.calls))
}

func TestRouter_CacheFirst_DoesNotStoreErrors(t *testing.T) {
	r := newTestRouter(t)
	origin := &fakeOrigin{body: "missing", status: 404}
	ctx := context.Background()

	_, err := r.Handle(ctx, get("/logo.png"), origin)
	require.NoError(t, err)

	origin.set("found", 200, nil)
	res, err := r.Handle(ctx, get("/logo.png"), origin)
	require.NoError(t, err)
	assert.Equal(t, StatusMiss, res.Status)
	assert.Equal(t, "found", string(res.Entry.Body))
}

func TestRouter_StaleWhileRevalidate(t *testing.T) {
	r := newTestRouter(t)
	origin := &fakeOrigin{body: "v1", status: 200}
	ctx := context.Background()

	res, err := r.Handle(ctx, get("/media/audio/a.mp3"), origin)
	require.NoError(t, err)
	assert.Equal(t, StatusMiss, res.Status)

	origin.set("v2", 200, nil)
	res, err = r.Handle(ctx, get("/media/audio/a.mp3"), origin)
	require.NoError(t, err)
	assert.Equal(t, StatusHit, res.Status)
	assert.Equal(t, "v1", string(res.Entry.Body), "cached copy is served immediately")

	r.Wait()
	res, err = r.Handle(ctx, get("/media/audio/a.mp3"), origin)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(res.Entry.Body), "background refresh updated the cache")
	r.Wait()
}

func TestRouter_StaleWhileRevalidate_OneRefreshPerKey(t *testing.T) {
	r := newTestRouter(t)
	origin := &fakeOrigin{body: "v1", status: 200}
	ctx := context.Background()

	_, err := r.Handle(ctx, get("/media/covers/c.jpg"), origin)
	require.NoError(t, err)

	origin.gate = make(chan struct{})
	for i := 0; i < 5; i++ {
		res, err := r.Handle(ctx, get("/media/covers/c.jpg"), origin)
		require.NoError(t, err)
		assert.Equal(t, StatusHit, res.Status)
	}
	close(origin.gate)
	r.Wait()

	// one initial miss plus a single background refresh
	assert.Equal(t, int32(2), atomic.LoadInt32(&origin.calls))
}

func TestRouter_StaleWhileRevalidate_RefreshErrorKeepsEntry(t *testing.T) {
	r := newTestRouter(t)
	origin := &fakeOrigin{body: "v1", status: 200}
	ctx := context.Background()

	_, err := r.Handle(ctx, get("/media/a.mp3"), origin)
	require.NoError(t, err)

	origin.set("", 0, errors.New("storage down"))
	_, err = r.Handle(ctx, get("/media/a.mp3"), origin)
	require.NoError(t, err)
	r.Wait()

	res, err := r.Handle(ctx, get("/media/a.mp3"), origin)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(res.Entry.Body))
	r.Wait()
}

func TestRouter_NetworkFirst(t *testing.T) {
	r := newTestRouter(t)
	origin := &fakeOrigin{body: "fresh", status: 200}
	ctx := context.Background()

	res, err := r.Handle(ctx, get("/api/songs"), origin)
	require.NoError(t, err)
	assert.Equal(t, StatusMiss, res.Status)

	origin.set("boom", 503, nil)
	res, err = r.Handle(ctx, get("/api/songs"), origin)
	require.NoError(t, err)
	assert.Equal(t, StatusStale, res.Status)
	assert.Equal(t, "fresh", string(res.Entry.Body))

	origin.set("", 0, errors.New("connection refused"))
	res, err = r.Handle(ctx, get("/api/songs"), origin)
	require.NoError(t, err)
	assert.Equal(t, StatusStale, res.Status)
}

func TestRouter_NetworkFirst_NoCachePassesThrough(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()

	res, err := r.Handle(ctx, get("/api/testimonies"), &fakeOrigin{body: "down", status: 500})
	require.NoError(t, err)
	assert.Equal(t, 500, res.Entry.Status)

	_, err = r.Handle(ctx, get("/api/testimonies"), &fakeOrigin{err: errors.New("offline")})
	require.Error(t, err)
}

func TestRouter_NavigationFallsBackToAppShell(t *testing.T) {
	r := newTestRouter(t)
	ctx := context.Background()
	nav := Request{Method: "GET", Path: AppShellPath, Accept: "text/html"}

	// .html has an extension, so the shell is primed through HandleAs.
	_, err := r.HandleAs(ctx, KindNavigation, nav, &fakeOrigin{body: "<html>shell</html>", status: 200})
	require.NoError(t, err)

	res, err := r.Handle(ctx, Request{Method: "GET", Path: "/songs/9", Accept: "text/html"}, &fakeOrigin{err: errors.New("offline")})
	require.NoError(t, err)
	assert.Equal(t, StatusStale, res.Status)
	assert.Equal(t, "<html>shell</html>", string(res.Entry.Body))
}

func TestRouter_VersionedKeys(t *testing.T) {
	store, err := NewMemoryStore(16, 0)
	require.NoError(t, err)
	ctx := context.Background()

	v1 := NewRouter(store, "v1", logger.Discard())
	_, err = v1.Handle(ctx, get("/assets/app.js"), &fakeOrigin{body: "old", status: 200})
	require.NoError(t, err)

	v2 := NewRouter(store, "v2", logger.Discard())
	res, err := v2.Handle(ctx, get("/assets/app.js"), &fakeOrigin{body: "new", status: 200})
	require.NoError(t, err)
	assert.Equal(t, StatusMiss, res.Status)
	assert.Equal(t, "zamar-v2:static:/assets/app.js", v2.Key(KindStatic, "/assets/app.js"))
}

func TestMemoryStore_TTL(t *testing.T) {
	s, err := NewMemoryStore(4, time.Minute)
	require.NoError(t, err)
	ms := s.(*memoryStore)
	now := time.Now()
	ms.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", &Entry{Status: 200, StoredAt: now}))
	_, ok, _ := s.Get(ctx, "k")
	assert.True(t, ok)

	ms.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, ok, _ = s.Get(ctx, "k")
	assert.False(t, ok)
}
