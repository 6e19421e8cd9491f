// Package server exposes an image store over HTTP.
//
//	POST /images          upload (image/gif, image/jpeg, image/png)
//	GET  /images          listing (msgpack, or JSON on request)
//	GET  /images/{name}   stored image
//	GET  /healthz         liveness
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/AnyUserName/gbcam/internal/hasher"
	"github.com/AnyUserName/gbcam/internal/imagestore"
	"github.com/AnyUserName/gbcam/internal/listing"
	"github.com/AnyUserName/gbcam/internal/monitoring"
)

// ImagePrefix is the URL path under which images are served.
const ImagePrefix = "/images"

// Store is the subset of imagestore.Store the handlers use.
type Store interface {
	Save(r io.Reader, contentType string) (string, error)
	Open(name string) (io.ReadSeekCloser, int64, error)
	List() ([]imagestore.StoredImage, error)
}

// Server serves a Store over HTTP.
type Server struct {
	store          Store
	maxUploadBytes int64
	mux            *http.ServeMux
}

// New builds the handler tree. maxUploadBytes <= 0 disables the body cap.
func New(store Store, maxUploadBytes int64) *Server {
	s := &Server{
		store:          store,
		maxUploadBytes: maxUploadBytes,
		mux:            http.NewServeMux(),
	}
	s.RegisterRoutes(s.mux)
	return s
}

// RegisterRoutes registers the image routes on mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST "+ImagePrefix, s.handleUpload)
	mux.Handle("GET "+ImagePrefix, gzhttp.GzipHandler(http.HandlerFunc(s.handleList)))
	mux.HandleFunc("GET "+ImagePrefix+"/{name}", s.handleImage)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok\n")
	})
}

// ServeHTTP logs and dispatches a request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	monitoring.Logf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	monitoring.Logf("listening on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if !imagestore.Allowed(ct) {
		writeJSONError(w, http.StatusBadRequest,
			"image type not allowed, must be one of "+strings.Join(imagestore.AllowedTypes(), ", "))
		return
	}

	body := io.Reader(r.Body)
	if s.maxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}

	name, err := s.store.Save(body, ct)
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			writeJSONError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", tooBig.Limit))
		case errors.Is(err, imagestore.ErrUnsupportedType):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		default:
			monitoring.Logf("error: save: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "could not store image")
		}
		return
	}

	w.Header().Set("Location", ImagePrefix+"/"+name)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	rc, size, err := s.store.Open(name)
	if err != nil {
		if errors.Is(err, imagestore.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "not found")
			return
		}
		monitoring.Logf("error: open: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "could not read image")
		return
	}
	defer rc.Close()

	digest, err := hasher.SumReader(rc)
	if err == nil {
		_, err = rc.Seek(0, io.SeekStart)
	}
	if err != nil {
		monitoring.Logf("error: hash %s: %v", name, err)
		writeJSONError(w, http.StatusInternalServerError, "could not read image")
		return
	}
	etag := hasher.ETag(digest)

	h := w.Header()
	h.Set("ETag", etag)
	h.Set("Cache-Control", "public, max-age=31536000, immutable")
	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	ct := imagestore.ContentType(name)
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	h.Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		monitoring.Logf("error: stream %s: %v", name, err)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	images, err := s.store.List()
	if err != nil {
		monitoring.Logf("error: list: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "could not list images")
		return
	}
	names := make([]string, len(images))
	for i, img := range images {
		names[i] = img.Name
	}

	mt := listing.Negotiate(r.Header.Get("Accept"))
	w.Header().Set("Content-Type", mt)
	w.Header().Add("Vary", "Accept")
	if err := listing.Encode(w, listing.New(ImagePrefix, names), mt); err != nil {
		monitoring.Logf("error: encode listing: %v", err)
	}
}

// etagMatches implements the weak comparison used by If-None-Match.
func etagMatches(header, etag string) bool {
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || strings.TrimPrefix(tag, "W/") == etag {
			return true
		}
	}
	return false
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
