package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

type gzipWriter struct {
	http.ResponseWriter
	w      *gzip.Writer
	noBody bool
}

func (g *gzipWriter) Write(p []byte) (int, error) {
	return g.w.Write(p)
}

func (g *gzipWriter) WriteHeader(code int) {
	g.ResponseWriter.Header().Del("Content-Length")
	if code == http.StatusNoContent || code == http.StatusNotModified {
		g.noBody = true
		g.ResponseWriter.Header().Del("Content-Encoding")
	}
	g.ResponseWriter.WriteHeader(code)
}

// GzipMiddleware compresses responses for clients that accept gzip. The
// admin API only serves GET requests, so request bodies are left alone.
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz, err := gzip.NewWriterLevel(w, gzip.BestSpeed)
		if err != nil {
			logrus.WithError(err).Error("Failed to create gzip writer")
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")

		gzw := &gzipWriter{ResponseWriter: w, w: gz}
		next.ServeHTTP(gzw, r)
		if !gzw.noBody {
			gz.Close()
		}
	})
}
