package visualization

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nvandessel/gris/internal/acceptance"
	"github.com/nvandessel/gris/internal/equilibrium"
	"github.com/nvandessel/gris/internal/logging"
	"github.com/nvandessel/gris/internal/metrics"
	"github.com/nvandessel/gris/internal/report"
	"github.com/nvandessel/gris/internal/tgf"
)

// maxRequestBytes caps the size of a posted network.
const maxRequestBytes = 1 << 20

// ServerConfig configures a chart server.
type ServerConfig struct {
	// Path is the network file charted at "/". Empty disables the page.
	Path string

	// Engine and Classifier are the defaults for every evaluation.
	Engine     equilibrium.Config
	Classifier acceptance.Classifier

	// Metrics is exposed at /metrics. A fresh recorder is used when nil.
	Metrics *metrics.Recorder

	Logger *slog.Logger
}

// Server serves the chart of a network file and evaluates posted networks.
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	listener   net.Listener
	mu         sync.Mutex
	addr       string
}

// NewServer creates a new chart server.
func NewServer(config ServerConfig) *Server {
	if config.Metrics == nil {
		config.Metrics = metrics.NewRecorder()
	}
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}
	return &Server{config: config}
}

// Addr returns the address the server is listening on (e.g., "localhost:PORT").
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Post("/api/evaluate", s.handleEvaluate)
	r.Method(http.MethodGet, "/metrics", s.config.Metrics.Handler())
	return r
}

// ListenAndServe starts the HTTP server on addr ("localhost:0" when empty)
// and blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = "localhost:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	s.config.Logger.Info("chart server listening", "addr", s.Addr())
	err = s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// handleIndex evaluates the configured file and serves its chart page.
// The file is reloaded on every request.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.config.Path == "" {
		http.Error(w, "no network file loaded", http.StatusNotFound)
		return
	}

	g, err := tgf.LoadFile(s.config.Path)
	if err != nil {
		s.config.Metrics.ObserveLoadError()
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	engine := equilibrium.NewEngine(s.config.Engine,
		equilibrium.WithLogger(s.config.Logger),
		equilibrium.WithMetrics(s.config.Metrics))
	res := engine.Run(g)

	page, err := RenderHTML(s.config.Path, g, res, s.config.Classifier)
	if err != nil {
		http.Error(w, "render error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// handleEvaluate evaluates a network posted as TGF text and returns the
// JSON report. Query parameters max_iterations, change_threshold and
// crisp_threshold override the server defaults.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	engineCfg, classifier, err := s.overrides(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	g, err := tgf.Parse(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		s.config.Metrics.ObserveLoadError()
		writeJSONError(w, http.StatusUnprocessableEntity, err)
		return
	}

	engine := equilibrium.NewEngine(engineCfg,
		equilibrium.WithLogger(s.config.Logger),
		equilibrium.WithMetrics(s.config.Metrics))
	res := engine.Run(g)

	w.Header().Set("Content-Type", "application/json")
	if err := report.WriteJSON(w, report.Build(g, res, classifier)); err != nil {
		s.config.Logger.Warn("encode evaluation", "error", err)
	}
}

func (s *Server) overrides(r *http.Request) (equilibrium.Config, acceptance.Classifier, error) {
	engineCfg := s.config.Engine
	classifier := s.config.Classifier
	q := r.URL.Query()

	if v := q.Get("max_iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return engineCfg, classifier, fmt.Errorf("invalid max_iterations %q", v)
		}
		engineCfg.MaxIterations = n
	}
	if v := q.Get("change_threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return engineCfg, classifier, fmt.Errorf("invalid change_threshold %q", v)
		}
		engineCfg.ChangeThreshold = f
	}
	if v := q.Get("crisp_threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			return engineCfg, classifier, fmt.Errorf("invalid crisp_threshold %q", v)
		}
		classifier = acceptance.New(f)
	}
	return engineCfg, classifier, nil
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
