package cache

import (
	"net/http"
	"path"
	"strings"
)

// Kind is the class of a request as seen by the router.
type Kind string

const (
	KindNavigation Kind = "navigation"
	KindStatic     Kind = "static"
	KindImage      Kind = "image"
	KindStorage    Kind = "storage"
	KindAPI        Kind = "api"
	KindBypass     Kind = "bypass"
)

// Strategy is the caching policy applied to a Kind.
type Strategy string

const (
	CacheFirst           Strategy = "cache-first"
	NetworkFirst         Strategy = "network-first"
	StaleWhileRevalidate Strategy = "stale-while-revalidate"
	NetworkOnly          Strategy = "network-only"
)

var staticExts = map[string]bool{
	".js": true, ".mjs": true, ".css": true, ".map": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true,
	".webmanifest": true, ".json": true,
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".svg": true, ".ico": true, ".avif": true,
}

// Classify sorts a request into a Kind by method, URL path and Accept header.
// Order matters: storage objects are matched before image extensions so a
// cover image under /media is revalidated rather than pinned forever.
func Classify(method, rawPath, accept string) Kind {
	if method != http.MethodGet {
		return KindBypass
	}

	p := rawPath
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	switch {
	case strings.HasPrefix(p, "/api/webhooks/"):
		return KindBypass
	case strings.HasPrefix(p, "/media/"), strings.HasPrefix(p, "/storage/v1/object/"):
		return KindStorage
	case strings.HasPrefix(p, "/api/"):
		return KindAPI
	}

	ext := strings.ToLower(path.Ext(p))
	switch {
	case imageExts[ext]:
		return KindImage
	case strings.HasPrefix(p, "/assets/"), staticExts[ext]:
		return KindStatic
	case ext == "" && strings.Contains(accept, "text/html"):
		return KindNavigation
	}
	return KindBypass
}

// StrategyFor returns the dispatch table entry for k.
func StrategyFor(k Kind) Strategy {
	switch k {
	case KindStatic, KindImage:
		return CacheFirst
	case KindStorage:
		return StaleWhileRevalidate
	case KindAPI, KindNavigation:
		return NetworkFirst
	default:
		return NetworkOnly
	}
}
