package httpserver

import (
	"net/http"
	"time"

	"expensezen/internal/config"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// New builds the HTTP server. With HTTP.EnableH2C the handler also speaks
// HTTP/2 over cleartext so many event streams share one connection.
func New(cfg config.Config, handler http.Handler) *http.Server {
	if cfg.HTTP.EnableH2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}
	return &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		IdleTimeout:       2 * time.Minute,
	}
}
