package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/relpanel/relpanel/pkg/utils/msgqueue"
)

// config holds internal HTTP server configuration
type config struct {
	addr string
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// Server serves the view bridge: a local WebSocket endpoint a detached
// presentation process connects to. Inbound frames are fed to the
// editor's serial message queue; outbound editor messages are written
// back on the same socket.
type Server struct {
	*http.Server
}

// NewServer creates the bridge HTTP server
func NewServer(ctx context.Context, bridge *Bridge, inbound *msgqueue.Queue, opts ...Option) (*Server, error) {
	cfg := &config{
		addr: "localhost:7764",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)
	router.Get("/view/ws", bridge.ServeWS(inbound))

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
