package handler

import (
	"context"
	"errors"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"zamar-backend/internal/cache"

	"github.com/gofiber/fiber/v2"
)

// WebHandler serves the built web client from dir through the cache router.
// Paths without an extension are client-side routes and get index.html.
type WebHandler struct {
	router *cache.Router
	dir    string
}

func NewWebHandler(router *cache.Router, dir string) *WebHandler {
	return &WebHandler{router: router, dir: dir}
}

func (h *WebHandler) Serve(c *fiber.Ctx) error {
	// Unknown API routes fall through to here; they are not client routes.
	if p := c.Path(); p == "/api" || strings.HasPrefix(p, "/api/") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Route not found"})
	}
	req := cache.Request{Method: c.Method(), Path: c.Path(), Accept: c.Get(fiber.HeaderAccept)}
	res, err := h.router.Handle(c.UserContext(), req, cache.FetchFunc(h.fetch))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load page"})
	}
	return cache.Write(c, res)
}

// PrimeShell stores index.html as the offline fallback for navigations.
func (h *WebHandler) PrimeShell(ctx context.Context) error {
	req := cache.Request{Method: fiber.MethodGet, Path: cache.AppShellPath, Accept: fiber.MIMETextHTML}
	_, err := h.router.HandleAs(ctx, cache.KindNavigation, req, cache.FetchFunc(h.fetch))
	return err
}

func (h *WebHandler) fetch(_ context.Context, req cache.Request) (*cache.Entry, error) {
	clean := path.Clean("/" + req.Path)
	if clean == "/" || path.Ext(clean) == "" {
		clean = cache.AppShellPath
	}

	body, err := os.ReadFile(filepath.Join(h.dir, filepath.FromSlash(clean)))
	if errors.Is(err, os.ErrNotExist) {
		return &cache.Entry{Status: fiber.StatusNotFound, ContentType: fiber.MIMETextPlainCharsetUTF8, Body: []byte("not found")}, nil
	}
	if err != nil {
		return nil, err
	}

	contentType := mime.TypeByExtension(path.Ext(clean))
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	return &cache.Entry{Status: fiber.StatusOK, ContentType: contentType, Body: body}, nil
}
