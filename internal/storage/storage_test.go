package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	key := NewKey("/audio/", "Amazing Grace.MP3")
	assert.True(t, strings.HasPrefix(key, "audio/"))
	assert.True(t, strings.HasSuffix(key, ".mp3"))
	assert.NotContains(t, key, "Amazing")
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "covers/a.png", "image/png", strings.NewReader("png-bytes")))

	obj, err := s.Open(ctx, "covers/a.png")
	require.NoError(t, err)
	body, _ := io.ReadAll(obj)
	obj.Close()
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, int64(9), obj.Size)

	require.NoError(t, s.Delete(ctx, "covers/a.png"))
	_, err = s.Open(ctx, "covers/a.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	err = s.Put(context.Background(), "../etc/passwd", "", strings.NewReader("x"))
	assert.Error(t, err)
	_, err = s.Open(context.Background(), "/abs")
	assert.Error(t, err)
}

func TestSupabaseStorage(t *testing.T) {
	objects := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		key := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/media/")
		switch r.Method {
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			objects[key] = string(body)
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			v, ok := objects[key]
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"not_found"}`))
				return
			}
			w.Header().Set("Content-Type", "audio/mpeg")
			_, _ = w.Write([]byte(v))
		case http.MethodDelete:
			delete(objects, key)
		}
	}))
	defer srv.Close()

	s, err := NewSupabase(SupabaseConfig{ProjectURL: srv.URL + "/", ServiceKey: "service-key", Bucket: "media"})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "audio/song.mp3", "audio/mpeg", strings.NewReader("mp3")))

	obj, err := s.Open(ctx, "audio/song.mp3")
	require.NoError(t, err)
	body, _ := io.ReadAll(obj)
	obj.Close()
	assert.Equal(t, "mp3", string(body))
	assert.Equal(t, "audio/mpeg", obj.ContentType)

	require.NoError(t, s.Delete(ctx, "audio/song.mp3"))
	_, err = s.Open(ctx, "audio/song.mp3")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNewSupabase_Validation(t *testing.T) {
	_, err := NewSupabase(SupabaseConfig{ServiceKey: "k", Bucket: "b"})
	assert.Error(t, err)
	_, err = NewSupabase(SupabaseConfig{ProjectURL: "http://x", Bucket: "b"})
	assert.Error(t, err)
	_, err = NewSupabase(SupabaseConfig{ProjectURL: "http://x", ServiceKey: "k"})
	assert.Error(t, err)
}
