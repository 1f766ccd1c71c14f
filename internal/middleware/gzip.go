package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
)

// gzipWriter откладывает заголовки до первого байта тела: ответ без тела уходит без сжатия.
type gzipWriter struct {
	http.ResponseWriter
	zw      *gzip.Writer
	status  int
	started bool
}

func (w *gzipWriter) WriteHeader(statusCode int) {
	if w.started || w.status != 0 {
		return
	}
	w.status = statusCode
}

func (w *gzipWriter) Write(b []byte) (int, error) {
	if !w.started {
		w.start(len(b) > 0)
	}
	if w.zw == nil {
		return w.ResponseWriter.Write(b)
	}
	return w.zw.Write(b)
}

func (w *gzipWriter) start(hasBody bool) {
	w.started = true
	if w.status == 0 {
		w.status = http.StatusOK
	}
	if hasBody && bodyAllowed(w.status) {
		// длина сжатого тела другая
		w.ResponseWriter.Header().Del("Content-Length")
		w.ResponseWriter.Header().Set("Content-Encoding", "gzip")
		w.zw = gzip.NewWriter(w.ResponseWriter)
	}
	w.ResponseWriter.WriteHeader(w.status)
}

func (w *gzipWriter) close() {
	if !w.started {
		if w.status == 0 {
			return
		}
		w.start(false)
	}
	if w.zw == nil {
		return
	}
	if err := w.zw.Close(); err != nil {
		sugar.Warnw("gzip close", "error", err)
	}
}

// bodyAllowed: у 1xx, 204 и 304 тела нет.
func bodyAllowed(status int) bool {
	return status >= http.StatusOK && status != http.StatusNoContent && status != http.StatusNotModified
}

// WithGzip сжимает ответ, если клиент принимает gzip.
func WithGzip(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			h.ServeHTTP(w, r)
			return
		}

		w.Header().Add("Vary", "Accept-Encoding")
		gw := &gzipWriter{ResponseWriter: w}
		defer gw.close()
		h.ServeHTTP(gw, r)
	})
}
