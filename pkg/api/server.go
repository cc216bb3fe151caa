// Package api exposes the customization pipeline over HTTP and
// WebSocket for the storefront frontend.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dixieflatline76/Muralist/config"
	"github.com/dixieflatline76/Muralist/pkg/customize"
	"github.com/dixieflatline76/Muralist/pkg/provider"
)

// Server hosts the customization endpoints: one-shot price quotes,
// material listings, and the WebSocket session channel carrying raw UI
// events in and derived state out.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	upgrader   websocket.Upgrader

	cfg      *config.Config
	store    *customize.Store
	products provider.ProductSource
	catalog  provider.MaterialCatalog
	cart     provider.CartSink
	fetcher  *customize.Fetcher
	raster   *customize.Rasterizer
}

// NewServer creates a new API server wired to its collaborators.
func NewServer(cfg *config.Config, store *customize.Store, products provider.ProductSource, catalog provider.MaterialCatalog, cart provider.CartSink, fetcher *customize.Fetcher, raster *customize.Rasterizer) *Server {
	s := &Server{
		mux: http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		cfg:      cfg,
		store:    store,
		products: products,
		catalog:  catalog,
		cart:     cart,
		fetcher:  fetcher,
		raster:   raster,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.enableCORS(s.handleHealth))
	s.mux.HandleFunc("/materials", s.enableCORS(s.handleMaterials))
	s.mux.HandleFunc("/quote", s.enableCORS(s.handleQuote))
	s.mux.HandleFunc("/session", s.handleSession)
}

// enableCORS adds CORS headers to the handler. The storefront frontend
// is served from a different origin than this service.
func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the server. Blocking.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.mux,
	}
	return s.httpServer.ListenAndServe()
}

// Stop stops the server.
func (s *Server) Stop() error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}
