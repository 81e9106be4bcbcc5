// Package ui serves record lookups over HTTP. The server answers from
// any RecordSource, so the same routes work against a database or a
// dump index.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tliron/commonlog"

	"github.com/fid-judaica/picaparse/format"
	"github.com/fid-judaica/picaparse/pica"
)

var log = commonlog.GetLogger("ui")

// RecordSource answers whole-record lookups by ppn. Lookups that find
// nothing report pica.ErrNotFound.
type RecordSource interface {
	Record(ctx context.Context, ppn string) (*pica.Record, error)
}

// Server exposes a RecordSource over HTTP.
type Server struct {
	source RecordSource
	router *chi.Mux
	server *http.Server
}

func NewServer(source RecordSource) *Server {
	s := &Server{
		source: source,
		router: chi.NewRouter(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/records/{ppn}", s.handleRecord)
	s.router.Get("/healthz", s.handleHealth)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Noticef("listening on %s", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// handleRecord serves one record. A tag query parameter narrows the
// response to the fields carrying that tag. The body is JSON unless the
// client asks for text/plain, which yields dump notation.
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	ppn := chi.URLParam(r, "ppn")

	rec, err := s.source.Record(r.Context(), ppn)
	if err != nil {
		if errors.Is(err, pica.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("record %s not found", ppn))
			return
		}
		log.Errorf("record %s: %s", ppn, err.Error())
		writeError(w, http.StatusInternalServerError, "record lookup failed")
		return
	}

	if tag := r.URL.Query().Get("tag"); tag != "" {
		fields := rec.Fields(tag)
		if len(fields) == 0 {
			writeError(w, http.StatusNotFound, fmt.Sprintf("record %s has no %s fields", ppn, tag))
			return
		}
		rec, err = pica.NewRecord(rec.PPN(), fields)
		if err != nil {
			log.Errorf("record %s: %s", ppn, err.Error())
			writeError(w, http.StatusInternalServerError, "record lookup failed")
			return
		}
	}

	if strings.Contains(r.Header.Get("Accept"), "text/plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := format.NewTextEncoder(w).Encode(rec); err != nil {
			log.Errorf("encode record %s: %s", ppn, err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := format.NewJSONEncoder(w).Encode(rec); err != nil {
		log.Errorf("encode record %s: %s", ppn, err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	log.Warningf("HTTP %d: %s", status, message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, message)
}

// logRequests logs one line per request after it completes.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Infof("%s %s %d %dB in %s", r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}
