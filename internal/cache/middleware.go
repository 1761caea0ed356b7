package cache

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HeaderCache reports HIT or MISS on cached routes.
const HeaderCache = "X-Cache"

// KeyFunc derives the cache key for a request.
type KeyFunc func(c echo.Context) string

// KeyByURI keys on prefix, the vary value and the full request URI
// (path plus query string), so every page number is cached separately.
func KeyByURI(prefix string, vary func(c echo.Context) string) KeyFunc {
	return func(c echo.Context) string {
		scope := ""
		if vary != nil {
			scope = vary(c)
		}
		return fmt.Sprintf("%s:%s:%s", prefix, scope, c.Request().URL.RequestURI())
	}
}

// Page caches successful GET responses of the wrapped handler for ttl.
// Entries are keyed by KeyByURI(prefix, scope). Within the ttl a repeated
// request is answered from the store, byte for byte, without calling the
// handler. Store failures are logged and the request falls through to the
// handler.
//
// Only 200 responses carry a Cache-Control header. A non-empty scope marks
// the page as rendered for one viewer, so browsers may keep it but shared
// caches may not.
func Page(store Store, ttl time.Duration, prefix string, scope func(c echo.Context) string, log *zap.Logger) echo.MiddlewareFunc {
	key := KeyByURI(prefix, scope)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet && req.Method != http.MethodHead {
				return next(c)
			}
			ctx := req.Context()
			k := key(c)
			private := scope != nil && scope(c) != ""

			entry, ok, err := store.Get(ctx, k)
			if err != nil {
				log.Warn("page cache read failed", zap.String("key", k), zap.Error(err))
			} else if ok {
				c.Response().Header().Set(HeaderCache, "HIT")
				setCacheControl(c.Response().Header(), ttl, private)
				return c.Blob(entry.Status, entry.ContentType, entry.Body)
			}

			res := c.Response()
			res.Header().Set(HeaderCache, "MISS")
			res.Before(func() {
				if res.Status == http.StatusOK {
					setCacheControl(res.Header(), ttl, private)
				}
			})
			buf := new(bytes.Buffer)
			rec := &bodyRecorder{Writer: io.MultiWriter(res.Writer, buf), ResponseWriter: res.Writer}
			res.Writer = rec
			err = next(c)
			res.Writer = rec.ResponseWriter
			if err != nil || res.Status != http.StatusOK || req.Method != http.MethodGet {
				return err
			}

			entry = &Entry{
				Status:      http.StatusOK,
				ContentType: res.Header().Get(echo.HeaderContentType),
				Body:        buf.Bytes(),
			}
			if err := store.Set(ctx, k, entry, ttl); err != nil {
				log.Warn("page cache write failed", zap.String("key", k), zap.Error(err))
			}
			return nil
		}
	}
}

func setCacheControl(h http.Header, ttl time.Duration, private bool) {
	value := fmt.Sprintf("max-age=%d", int(ttl.Seconds()))
	if private {
		value = "private, " + value
	}
	h.Set(echo.HeaderCacheControl, value)
	h.Add(echo.HeaderVary, "Cookie")
}

// bodyRecorder tees the response body into a buffer.
type bodyRecorder struct {
	io.Writer
	http.ResponseWriter
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *bodyRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(w.ResponseWriter).Hijack()
}
