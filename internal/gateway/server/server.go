package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"eightd/internal/gateway/handler"
	"eightd/internal/gateway/middleware"
)

type Server struct {
	httpServer *http.Server
}

func New(port string, h http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              port,
			Handler:           h2c.NewHandler(h, &http2.Server{}),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewMux registers the API routes behind CORS.
func NewMux(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	return middleware.CORS(mux)
}

func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
