package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"taskcenter/internal/assistant"
	"taskcenter/internal/logging"
	"taskcenter/internal/store"
	"taskcenter/internal/transcribe"
	"taskcenter/internal/upload"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 5 * time.Second
	defaultMaxBody    = 512 << 20
)

// DocumentStore persists the dashboard collections.
type DocumentStore interface {
	Get(c store.Collection) (json.RawMessage, error)
	Snapshot() (store.Snapshot, error)
	Save(ctx context.Context, c store.Collection, body []byte) error
	SaveAll(ctx context.Context, body []byte) ([]store.Collection, error)
}

// Assistant serves the AI endpoints.
type Assistant interface {
	Generate(ctx context.Context, req assistant.GenerateRequest) ([]byte, error)
	Summarize(ctx context.Context, req assistant.SummarizeRequest) (json.RawMessage, error)
	FormatTranscript(ctx context.Context, text string) (string, error)
}

// Transcriber runs the audio pipeline for one upload.
type Transcriber interface {
	Run(ctx context.Context, audio upload.Audio) (transcribe.Result, error)
}

// Options wires a Server.
type Options struct {
	Addr         string
	StaticDir    string
	MaxBodyBytes int64
	// KeyConfigured reports whether a provider API key is available.
	KeyConfigured bool
	Store         DocumentStore
	Assistant     Assistant
	Transcriber   Transcriber
	Logger        *slog.Logger
}

// Server is the dashboard HTTP backend.
type Server struct {
	addr          string
	maxBody       int64
	keyConfigured bool
	store         DocumentStore
	assistant     Assistant
	transcriber   Transcriber
	static        http.Handler
	logger        *slog.Logger

	handler  http.Handler
	server   *http.Server
	listener net.Listener
}

// New builds the server and its routes.
func New(opts Options) *Server {
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	s := &Server{
		addr:          opts.Addr,
		maxBody:       maxBody,
		keyConfigured: opts.KeyConfigured,
		store:         opts.Store,
		assistant:     opts.Assistant,
		transcriber:   opts.Transcriber,
		logger:        logging.NewComponentLogger(opts.Logger, "http"),
	}
	if opts.StaticDir != "" {
		s.static = newStaticHandler(opts.StaticDir)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /api/data", withRoute("data", s.handleDataSnapshot))
	mux.Handle("POST /api/data", withRoute("data", s.handleDataSaveAll))
	mux.Handle("GET /api/data/{collection}", withRoute("data", s.handleDataGet))
	mux.Handle("POST /api/data/{collection}", withRoute("data", s.handleDataSave))
	mux.Handle("POST /api/generate", withRoute("generate", s.handleGenerate))
	mux.Handle("POST /api/summarize", withRoute("summarize", s.handleSummarize))
	mux.Handle("POST /api/format-transcript", withRoute("format-transcript", s.handleFormatTranscript))
	mux.Handle("POST /api/transcribe", withRoute("transcribe", s.handleTranscribe))
	mux.HandleFunc("/", s.handleFallback)

	s.handler = s.recoverer(s.requestID(s.accessLog(mux)))
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Listen binds the configured address.
func (s *Server) Listen() (net.Addr, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.listener = listener
	return listener.Addr(), nil
}

// Serve handles requests until ctx is cancelled, then shuts down gracefully.
// Listen is called first when it has not been.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(s.listener)
	}()
	s.logger.Info("http server listening", logging.String("address", s.listener.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http shutdown incomplete", logging.Error(err))
		_ = s.server.Close()
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http serve: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
