package handler_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"zamar-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) publishedSong(title, genre string) *model.Song {
	e.t.Helper()
	s := &model.Song{Title: title, Artist: "Choir", Genre: genre, AudioKey: "songs/" + strings.ToLower(title) + ".mp3", IsPublished: true}
	require.NoError(e.t, e.db.Create(s).Error)
	return s
}

func TestSongs_AdminCreatePublishAndList(t *testing.T) {
	env := newTestEnv(t, &mockGateway{})
	artist := env.user("artist@example.com", model.RoleArtist, nil)
	token := env.token(artist)

	req := multipartRequest(t, "/api/admin/songs", token,
		map[string]string{"title": "Still Waters", "artist": "Zamar Choir", "genre": "Hymn", "scripture": "Psalm 23:2"},
		formFile{field: "audio", name: "still.mp3", contentType: "audio/mpeg", content: []byte("ID3-audio")},
		formFile{field: "cover", name: "still.png", contentType: "image/png", content: []byte("png")},
	)
	resp, body := env.do(req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	song := dataMap(t, body)
	assert.Equal(t, false, song["is_published"])
	assert.True(t, strings.HasPrefix(song["audio_url"].(string), "/media/songs/"))
	assert.True(t, strings.HasPrefix(song["cover_url"].(string), "/media/covers/"))
	id := uint(song["ID"].(float64))

	// Unpublished songs stay out of the public catalogue
	resp, _ = env.do(jsonRequest(http.MethodGet, fmt.Sprintf("/api/songs/%d", id), "", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.do(jsonRequest(http.MethodPut, fmt.Sprintf("/api/admin/songs/%d/publish", id), token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Song published", body["message"])

	resp, body = env.do(jsonRequest(http.MethodGet, "/api/songs?genre=Hymn", "", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	list := dataList(t, body)
	require.Len(t, list, 1)
	assert.Equal(t, "Still Waters", list[0].(map[string]interface{})["title"])
}

func TestSongs_CreateRequiresAudioAndPermission(t *testing.T) {
	env := newTestEnv(t, &mockGateway{})
	artist := env.user("artist@example.com", model.RoleArtist, nil)
	listener := env.user("listener@example.com", model.RoleListener, nil)

	fields := map[string]string{"title": "No Audio", "artist": "Someone"}

	resp, body := env.do(multipartRequest(t, "/api/admin/songs", env.token(artist), fields))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Audio file is required", body["error"])

	resp, _ = env.do(multipartRequest(t, "/api/admin/songs", env.token(listener), fields))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSongs_CreateFailureRemovesUploads(t *testing.T) {
	env := newTestEnv(t, &mockGateway{})
	token := env.token(env.user("artist@example.com", model.RoleArtist, nil))
	require.NoError(t, env.db.Exec("DROP TABLE songs").Error)

	resp, body := env.do(multipartRequest(t, "/api/admin/songs", token,
		map[string]string{"title": "Lost", "artist": "Choir"},
		formFile{field: "audio", name: "lost.mp3", contentType: "audio/mpeg", content: []byte("ID3")},
		formFile{field: "cover", name: "lost.png", contentType: "image/png", content: []byte("png")},
	))
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to create song", body["error"])
	assert.Zero(t, env.storedFiles())
}

func TestSongs_StreamRedirectsToMedia(t *testing.T) {
	env := newTestEnv(t, &mockGateway{})
	song := env.publishedSong("Psalm", "Worship")

	resp, _ := env.do(jsonRequest(http.MethodGet, fmt.Sprintf("/api/songs/%d/stream", song.ID), "", nil))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/media/songs/psalm.mp3", resp.Header.Get("Location"))

	resp, _ = env.do(jsonRequest(http.MethodGet, "/api/songs/999/stream", "", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSongs_PlayFavoritesHistory(t *testing.T) {
	env := newTestEnv(t, &mockGateway{})
	song := env.publishedSong("Hallelujah", "Gospel")
	token := env.token(env.user("fan@example.com", model.RoleListener, nil))

	resp, _ := env.do(jsonRequest(http.MethodPost, fmt.Sprintf("/api/songs/%d/play", song.ID), token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reloaded model.Song
	require.NoError(t, env.db.First(&reloaded, song.ID).Error)
	assert.Equal(t, int64(1), reloaded.PlayCount)

	resp, body := env.do(jsonRequest(http.MethodGet, "/api/me/history", token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, dataList(t, body), 1)

	resp, _ = env.do(jsonRequest(http.MethodPost, fmt.Sprintf("/api/me/favorites/%d", song.ID), token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// Adding twice is harmless
	resp, _ = env.do(jsonRequest(http.MethodPost, fmt.Sprintf("/api/me/favorites/%d", song.ID), token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(jsonRequest(http.MethodGet, "/api/me/favorites", token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	favs := dataList(t, body)
	require.Len(t, favs, 1)
	assert.Equal(t, "Hallelujah", favs[0].(map[string]interface{})["song"].(map[string]interface{})["title"])

	resp, _ = env.do(jsonRequest(http.MethodDelete, fmt.Sprintf("/api/me/favorites/%d", song.ID), token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = env.do(jsonRequest(http.MethodGet, "/api/me/favorites", token, nil))
	assert.Empty(t, body["data"])
}

func TestSongs_GetServesCachedCopyWhenDatabaseFails(t *testing.T) {
	env := newTestEnv(t, &mockGateway{})
	song := env.publishedSong("Refuge", "Worship")
	target := fmt.Sprintf("/api/songs/%d", song.ID)

	resp, body := env.do(jsonRequest(http.MethodGet, target, "", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))

	require.NoError(t, env.db.Exec("DROP TABLE songs").Error)

	// The cached body holds no host, so replaying it under another name is safe
	req := jsonRequest(http.MethodGet, target, "", nil)
	req.Host = "mirror.zamar.test"
	resp, body = env.do(req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "STALE", resp.Header.Get("X-Cache"))
	cached := dataMap(t, body)
	assert.Equal(t, "Refuge", cached["title"])
	assert.Equal(t, "/media/songs/refuge.mp3", cached["audio_url"])

	// Nothing cached for this one, so the failure is reported as is
	resp, body = env.do(jsonRequest(http.MethodGet, "/api/songs/999", "", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to load song", body["error"])
}

func TestSongs_PlayUnknownSong(t *testing.T) {
	env := newTestEnv(t, &mockGateway{})
	token := env.token(env.user("fan@example.com", model.RoleListener, nil))

	resp, _ := env.do(jsonRequest(http.MethodPost, "/api/songs/42/play", token, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(jsonRequest(http.MethodPost, "/api/songs/abc/play", token, nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
