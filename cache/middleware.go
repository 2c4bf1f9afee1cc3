// Package cache adds conditional GET support to read-only endpoints. Nothing
// is stored between requests: every response is rendered from the store and
// only the transfer is skipped when the client already holds the same body.
package cache

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
)

// responseWriter buffers the body so the ETag can be computed before any
// byte reaches the client.
type responseWriter struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
}

func (w *responseWriter) WriteHeaderNow() {}

func (w *responseWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *responseWriter) Status() int {
	return w.status
}

func (w *responseWriter) Size() int {
	return w.body.Len()
}

func (w *responseWriter) Written() bool {
	return w.body.Len() > 0
}

// ETag tags successful GET responses with a weak xxhash ETag and answers
// 304 Not Modified when If-None-Match already carries it.
func ETag() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		original := c.Writer
		writer := &responseWriter{
			ResponseWriter: original,
			body:           bytes.NewBuffer(nil),
			status:         http.StatusOK,
		}
		c.Writer = writer

		c.Next()

		c.Writer = original
		body := writer.body.Bytes()

		if writer.status != http.StatusOK {
			original.WriteHeader(writer.status)
			_, _ = original.Write(body)
			return
		}

		tag := `W/"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
		original.Header().Set("ETag", tag)
		original.Header().Set("Cache-Control", "no-cache")

		if matches(c.GetHeader("If-None-Match"), tag) {
			original.Header().Del("Content-Type")
			original.WriteHeader(http.StatusNotModified)
			return
		}

		original.WriteHeader(http.StatusOK)
		_, _ = original.Write(body)
	}
}

func matches(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == tag || "W/"+candidate == tag {
			return true
		}
	}
	return false
}
