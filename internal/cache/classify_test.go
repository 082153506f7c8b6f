package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		accept string
		want   Kind
	}{
		{"navigation", "GET", "/songs/12", "text/html,application/xhtml+xml", KindNavigation},
		{"root navigation", "GET", "/", "text/html", KindNavigation},
		{"bundle", "GET", "/assets/index-4f2a.js", "*/*", KindStatic},
		{"asset without ext", "GET", "/assets/fonts/inter", "*/*", KindStatic},
		{"stylesheet", "GET", "/main.css?v=3", "text/css", KindStatic},
		{"image", "GET", "/logo.PNG", "image/*", KindImage},
		{"storage object", "GET", "/media/covers/a.jpg", "image/*", KindStorage},
		{"supabase object", "GET", "/storage/v1/object/public/media/audio/a.mp3", "*/*", KindStorage},
		{"api", "GET", "/api/songs?page=2", "application/json", KindAPI},
		{"webhook", "GET", "/api/webhooks/stripe", "*/*", KindBypass},
		{"post", "POST", "/api/songs", "application/json", KindBypass},
		{"unknown", "GET", "/robots.txt", "text/plain", KindBypass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.method, tt.path, tt.accept))
		})
	}
}

func TestStrategyFor(t *testing.T) {
	assert.Equal(t, CacheFirst, StrategyFor(KindStatic))
	assert.Equal(t, CacheFirst, StrategyFor(KindImage))
	assert.Equal(t, StaleWhileRevalidate, StrategyFor(KindStorage))
	assert.Equal(t, NetworkFirst, StrategyFor(KindAPI))
	assert.Equal(t, NetworkFirst, StrategyFor(KindNavigation))
	assert.Equal(t, NetworkOnly, StrategyFor(KindBypass))
}
