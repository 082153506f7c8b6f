package cache

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Middleware applies the router to fiber routes. Only network-first kinds are
// handled: the origin here is the rest of the handler chain, which cannot be
// replayed after the request ends. Authenticated requests are never served
// from or written to the cache.
func Middleware(r *Router) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) != "" {
			return c.Next()
		}

		req := Request{Method: c.Method(), Path: c.OriginalURL(), Accept: c.Get(fiber.HeaderAccept)}
		kind := Classify(req.Method, req.Path, req.Accept)
		if StrategyFor(kind) != NetworkFirst {
			return c.Next()
		}

		res, err := r.HandleAs(c.UserContext(), kind, req, FetchFunc(func(_ context.Context, _ Request) (*Entry, error) {
			if err := c.Next(); err != nil {
				return nil, err
			}
			resp := c.Response()
			return &Entry{
				Status:      resp.StatusCode(),
				ContentType: string(resp.Header.ContentType()),
				Body:        append([]byte(nil), resp.Body()...),
			}, nil
		}))
		if err != nil {
			return err
		}
		return Write(c, res)
	}
}

// Write sends a router result on c.
func Write(c *fiber.Ctx, res *Result) error {
	c.Set("X-Cache", res.Status)
	if res.Entry.ContentType != "" {
		c.Set(fiber.HeaderContentType, res.Entry.ContentType)
	}
	return c.Status(res.Entry.Status).Send(res.Entry.Body)
}
