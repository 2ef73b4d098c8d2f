package middleware

import (
	"log"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

var requestSeq atomic.Uint64

// Logging tags every request with a sequence id and logs method, path, status
// and duration once the handler returns.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strconv.FormatUint(requestSeq.Add(1), 10)
		w.Header().Set("X-Request-Id", id)

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		log.Printf("request_id=%s method=%s path=%s status=%d duration=%s",
			id, r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}
