package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"yt2tutorial/apperr"
	"yt2tutorial/generator"
	"yt2tutorial/video"
)

//go:embed web
var embeddedStatic embed.FS

const (
	defaultJobTimeout = 15 * time.Minute
	defaultRetention  = time.Hour
	eventBuffer       = 32
)

// Generator runs one tutorial request.
type Generator interface {
	Run(ctx context.Context, rawURL string, obs generator.Observer) (*generator.Tutorial, error)
}

type Options struct {
	// JobTimeout bounds a whole generation request.
	JobTimeout time.Duration
	// Retention is how long a finished job stays queryable.
	Retention time.Duration
	Relay     *RedisRelay
	Logger    *slog.Logger
}

type Server struct {
	gen        Generator
	store      *jobStore
	relay      *RedisRelay
	jobTimeout time.Duration
	logger     *slog.Logger
	staticFS   http.Handler
}

func New(gen Generator, opts Options) (*Server, error) {
	if gen == nil {
		return nil, errors.New("tutorial generator required")
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = defaultJobTimeout
	}
	if opts.Retention <= 0 {
		opts.Retention = defaultRetention
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		return nil, err
	}

	return &Server{
		gen:        gen,
		store:      newStore(opts.Retention),
		relay:      opts.Relay,
		jobTimeout: opts.JobTimeout,
		logger:     opts.Logger.With("component", "server"),
		staticFS:   http.FileServer(http.FS(sub)),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tutorials", s.handleCreate)
	mux.HandleFunc("GET /api/tutorials/{id}", s.handleGet)
	mux.HandleFunc("GET /api/tutorials/{id}/events", s.handleEvents)
	mux.Handle("GET /", s.staticFS)
	return logMiddleware(s.logger, mux)
}

// --- Handlers ---

type createReq struct {
	URL string `json:"url"`
}

type createResp struct {
	ID string `json:"id"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Wrap(apperr.InvalidInput, "invalid request body", err))
		return
	}
	if _, err := video.ParseID(req.URL); err != nil {
		writeError(w, err)
		return
	}

	j := newJob(req.URL)
	s.store.add(j)
	if s.relay != nil {
		s.relay.Forward(j.id, j.events)
	}
	go s.run(j)

	w.Header().Set("Location", "/api/tutorials/"+j.id)
	writeJSONStatus(w, http.StatusAccepted, createResp{ID: j.id})
}

// run executes j detached from the request that created it.
func (s *Server) run(j *job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	logger := s.logger.With(slog.String("job", j.id))
	logger.Info("job started", slog.String("url", j.url))
	start := time.Now()
	t, err := s.gen.Run(ctx, j.url, j.events)
	if err == nil && t == nil {
		err = errors.New("generator returned no tutorial")
	}
	j.finish(t, err)
	if err != nil {
		logger.Error("job failed", slog.Any("error", err), slog.Duration("elapsed", time.Since(start)))
	} else {
		logger.Info("job done", slog.Bool("fallback", t.Fallback), slog.Duration("elapsed", time.Since(start)))
	}
	s.store.expire(j)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	j, ok := s.store.get(r.PathValue("id"))
	if !ok {
		writeError(w, apperr.New(apperr.NotFound, "tutorial not found"))
		return
	}
	writeJSON(w, j.view())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	j, ok := s.store.get(r.PathValue("id"))
	if !ok {
		writeError(w, apperr.New(apperr.NotFound, "tutorial not found"))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, last, replay, cancel := j.events.SubscribeWithLast(eventBuffer)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if replay {
		writeEvent(w, "progress", last)
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case p, ok := <-ch:
			if !ok {
				<-j.done
				v := j.view()
				if v.State == stateFailed {
					writeEvent(w, "failed", map[string]string{"error": v.Error})
				} else {
					writeEvent(w, "done", map[string]string{"id": v.ID})
				}
				flusher.Flush()
				return
			}
			writeEvent(w, "progress", p)
			flusher.Flush()
		}
	}
}

// --- Helpers ---

func writeEvent(w http.ResponseWriter, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSONStatus(w, statusFor(err), map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.InvalidInput:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func logMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}
