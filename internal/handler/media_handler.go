package handler

import (
	"context"
	"errors"
	"io"
	"strings"

	"zamar-backend/internal/cache"
	"zamar-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// Audio objects are streamed straight from storage; everything else under
// /media goes through the cache router.
const streamedFolder = "songs/"

type MediaHandler struct {
	router *cache.Router
	store  storage.Storage
}

func NewMediaHandler(router *cache.Router, store storage.Storage) *MediaHandler {
	return &MediaHandler{router: router, store: store}
}

func (h *MediaHandler) Serve(c *fiber.Ctx) error {
	key := strings.TrimPrefix(c.Params("*"), "/")
	if key == "" || strings.Contains(key, "..") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Object not found"})
	}

	if strings.HasPrefix(key, streamedFolder) {
		obj, err := h.store.Open(c.UserContext(), key)
		if err != nil {
			return h.openError(c, err)
		}
		c.Set(fiber.HeaderContentType, obj.ContentType)
		c.Set("X-Cache", cache.StatusBypass)
		return c.SendStream(obj, int(obj.Size))
	}

	req := cache.Request{Method: c.Method(), Path: storage.MediaPath(key), Accept: c.Get(fiber.HeaderAccept)}
	res, err := h.router.HandleAs(c.UserContext(), cache.KindStorage, req, cache.FetchFunc(func(ctx context.Context, _ cache.Request) (*cache.Entry, error) {
		return h.fetch(ctx, key)
	}))
	if err != nil {
		return h.openError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")
	return cache.Write(c, res)
}

// fetch reads a whole object. A missing object becomes a 404 entry, which the
// router does not store.
func (h *MediaHandler) fetch(ctx context.Context, key string) (*cache.Entry, error) {
	obj, err := h.store.Open(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return &cache.Entry{Status: fiber.StatusNotFound, ContentType: fiber.MIMETextPlainCharsetUTF8, Body: []byte("not found")}, nil
	}
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}
	return &cache.Entry{Status: fiber.StatusOK, ContentType: obj.ContentType, Body: body}, nil
}

func (h *MediaHandler) openError(c *fiber.Ctx, err error) error {
	if errors.Is(err, storage.ErrObjectNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Object not found"})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Storage unavailable"})
}
