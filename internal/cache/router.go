package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"zamar-backend/internal/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	StatusHit    = "HIT"
	StatusMiss   = "MISS"
	StatusStale  = "STALE"
	StatusBypass = "BYPASS"
)

// AppShellPath is served for navigations when the network is unavailable.
const AppShellPath = "/index.html"

type Request struct {
	Method string
	Path   string
	Accept string
}

type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Entry, error)
}

type FetchFunc func(ctx context.Context, req Request) (*Entry, error)

func (f FetchFunc) Fetch(ctx context.Context, req Request) (*Entry, error) {
	return f(ctx, req)
}

type Result struct {
	Entry  *Entry
	Kind   Kind
	Status string
}

type Router struct {
	store          Store
	version        string
	refreshTimeout time.Duration
	log            *logrus.Logger
	now            func() time.Time

	misses singleflight.Group

	mu         sync.Mutex
	refreshing map[string]bool
	wg         sync.WaitGroup
}

func NewRouter(store Store, version string, log *logrus.Logger) *Router {
	return &Router{
		store:          store,
		version:        version,
		refreshTimeout: 30 * time.Second,
		log:            log,
		now:            time.Now,
		refreshing:     make(map[string]bool),
	}
}

// Key namespaces an entry by cache version and kind, e.g.
// "zamar-v1:image:/media/covers/a.png".
func (r *Router) Key(kind Kind, path string) string {
	return fmt.Sprintf("zamar-%s:%s:%s", r.version, kind, path)
}

// Handle classifies req and serves it with the strategy for its kind.
func (r *Router) Handle(ctx context.Context, req Request, origin Fetcher) (*Result, error) {
	kind := Classify(req.Method, req.Path, req.Accept)
	return r.HandleAs(ctx, kind, req, origin)
}

// HandleAs serves req as kind, skipping classification. Route-mounted
// handlers use it when the mount point already determines the kind.
func (r *Router) HandleAs(ctx context.Context, kind Kind, req Request, origin Fetcher) (*Result, error) {
	var (
		res *Result
		err error
	)
	switch StrategyFor(kind) {
	case CacheFirst:
		res, err = r.cacheFirst(ctx, kind, req, origin)
	case StaleWhileRevalidate:
		res, err = r.staleWhileRevalidate(ctx, kind, req, origin)
	case NetworkFirst:
		res, err = r.networkFirst(ctx, kind, req, origin)
	default:
		var e *Entry
		e, err = origin.Fetch(ctx, req)
		res = &Result{Entry: e, Kind: kind, Status: StatusBypass}
	}
	if err != nil {
		metrics.RecordCacheLookup(string(kind), "error")
		return nil, err
	}
	metrics.RecordCacheLookup(string(kind), res.Status)
	return res, nil
}

// Wait blocks until background revalidations finish.
func (r *Router) Wait() {
	r.wg.Wait()
}

func (r *Router) cacheFirst(ctx context.Context, kind Kind, req Request, origin Fetcher) (*Result, error) {
	key := r.Key(kind, req.Path)
	if e, ok := r.lookup(ctx, key); ok {
		return &Result{Entry: e, Kind: kind, Status: StatusHit}, nil
	}
	e, err := r.fetchShared(ctx, key, req, origin)
	if err != nil {
		return nil, err
	}
	return &Result{Entry: e, Kind: kind, Status: StatusMiss}, nil
}

func (r *Router) staleWhileRevalidate(ctx context.Context, kind Kind, req Request, origin Fetcher) (*Result, error) {
	key := r.Key(kind, req.Path)
	if e, ok := r.lookup(ctx, key); ok {
		r.revalidate(key, req, origin)
		return &Result{Entry: e, Kind: kind, Status: StatusHit}, nil
	}
	e, err := r.fetchShared(ctx, key, req, origin)
	if err != nil {
		return nil, err
	}
	return &Result{Entry: e, Kind: kind, Status: StatusMiss}, nil
}

func (r *Router) networkFirst(ctx context.Context, kind Kind, req Request, origin Fetcher) (*Result, error) {
	key := r.Key(kind, req.Path)

	e, err := origin.Fetch(ctx, req)
	if err == nil && e.Status < 500 {
		r.save(ctx, key, e)
		return &Result{Entry: e, Kind: kind, Status: StatusMiss}, nil
	}

	if cached, ok := r.lookup(ctx, key); ok {
		return &Result{Entry: cached, Kind: kind, Status: StatusStale}, nil
	}
	if kind == KindNavigation {
		if shell, ok := r.lookup(ctx, r.Key(KindNavigation, AppShellPath)); ok {
			return &Result{Entry: shell, Kind: kind, Status: StatusStale}, nil
		}
	}

	if err != nil {
		return nil, err
	}
	// A 5xx with nothing cached is passed through as is.
	return &Result{Entry: e, Kind: kind, Status: StatusMiss}, nil
}

// fetchShared collapses concurrent misses on one key into a single origin fetch.
func (r *Router) fetchShared(ctx context.Context, key string, req Request, origin Fetcher) (*Entry, error) {
	v, err, _ := r.misses.Do(key, func() (interface{}, error) {
		e, err := origin.Fetch(ctx, req)
		if err != nil {
			return nil, err
		}
		r.save(ctx, key, e)
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Entry), nil
}

func (r *Router) revalidate(key string, req Request, origin Fetcher) {
	r.mu.Lock()
	if r.refreshing[key] {
		r.mu.Unlock()
		return
	}
	r.refreshing[key] = true
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			r.mu.Lock()
			delete(r.refreshing, key)
			r.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.refreshTimeout)
		defer cancel()

		e, err := origin.Fetch(ctx, req)
		if err != nil {
			r.log.WithError(err).WithField("key", key).Warn("cache revalidation failed")
			return
		}
		r.save(ctx, key, e)
	}()
}

func (r *Router) lookup(ctx context.Context, key string) (*Entry, bool) {
	e, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.log.WithError(err).WithField("key", key).Warn("cache read failed")
		return nil, false
	}
	return e, ok
}

// save stores e when it is a 2xx response. Store errors are logged only; a
// failed write must not fail the request that produced the response.
func (r *Router) save(ctx context.Context, key string, e *Entry) {
	if !e.cacheable() {
		return
	}
	if e.StoredAt.IsZero() {
		e.StoredAt = r.now()
	}
	if err := r.store.Set(ctx, key, e); err != nil && !errors.Is(err, context.Canceled) {
		r.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}
