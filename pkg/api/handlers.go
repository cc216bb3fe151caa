package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dixieflatline76/Muralist/config"
	"github.com/dixieflatline76/Muralist/pkg/customize"
	"github.com/dixieflatline76/Muralist/pkg/provider"
	"github.com/dixieflatline76/Muralist/util/log"
)

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "running",
		"version": config.AppVersion,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleMaterials lists material options for a product. A catalog
// failure is non-fatal: the response is an empty list and the client
// retries; commit stays blocked until a material can be chosen.
func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product")
	if productID == "" {
		http.Error(w, "product is required", http.StatusBadRequest)
		return
	}

	materials, err := s.catalog.FetchMaterials(r.Context(), productID)
	if err != nil {
		log.Printf("Warning: material fetch failed for %s: %v", productID, err)
		materials = []provider.MaterialOption{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(materials); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleQuote prices a dimension without opening a session.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ProductID  string `json:"product_id"`
		Width      string `json:"width"`
		Height     string `json:"height"`
		MaterialID string `json:"material_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !customize.ValidInput(req.Width) || !customize.ValidInput(req.Height) {
		http.Error(w, "Invalid dimension input", http.StatusBadRequest)
		return
	}

	product, err := s.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		log.Printf("Product lookup failed for %s: %v", req.ProductID, err)
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	var material *provider.MaterialOption
	if req.MaterialID != "" {
		materials, err := s.catalog.FetchMaterials(r.Context(), req.ProductID)
		if err == nil {
			for i := range materials {
				if materials[i].ID == req.MaterialID {
					material = &materials[i]
					break
				}
			}
		}
	}

	dim := customize.Dimension{
		WidthCm:  customize.Normalize(req.Width),
		HeightCm: customize.Normalize(req.Height),
	}
	quote := customize.Quote(dim, customize.DiscountOf(product), product.BasePrice, material)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(quote); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// wsEvent is one raw UI event forwarded by the frontend.
type wsEvent struct {
	Type    string  `json:"type"`
	Width   string  `json:"width,omitempty"`  // dimensions: raw input strings
	Height  string  `json:"height,omitempty"`
	W       float64 `json:"w,omitempty"` // container: pixel box
	H       float64 `json:"h,omitempty"`
	X       float64 `json:"x,omitempty"` // drag: pointer position
	Y       float64 `json:"y,omitempty"`
	ID      string  `json:"id,omitempty"`      // material selection
	Enabled bool    `json:"enabled,omitempty"` // cropping toggle
}

// wsReply is the server's answer to an event.
type wsReply struct {
	Type    string             `json:"type"` // "state", "committed", "error"
	State   *customize.State   `json:"state,omitempty"`
	Line    *provider.CartLine `json:"line,omitempty"`
	Warning string             `json:"warning,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// sessionConn serializes writes to one session's WebSocket. The read
// loop and the image-load goroutine both push replies; gorilla permits
// only one concurrent writer per connection.
type sessionConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *sessionConn) write(reply wsReply) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(reply)
}

// handleSession upgrades to WebSocket and runs one customization
// session: events in, derived state out. The connection is the
// session's lifetime; closing it drops the session from the store.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product")
	if productID == "" {
		http.Error(w, "product is required", http.StatusBadRequest)
		return
	}

	product, err := s.products.GetProduct(r.Context(), productID)
	if err != nil {
		log.Printf("Product lookup failed for %s: %v", productID, err)
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer ws.Close()
	conn := &sessionConn{conn: ws}

	sess := customize.NewSession(product)
	sess.SetDimensionLimit(s.cfg.MaxDimensionCm)
	s.store.Add(sess)
	defer s.store.Remove(sess.ID())

	// Materials load once per session; selection events resolve
	// against this list.
	materials, err := s.catalog.FetchMaterials(r.Context(), productID)
	if err != nil {
		log.Printf("Warning: session %s: material fetch failed: %v", sess.ID(), err)
		materials = nil
	}

	s.writeState(conn, sess)

	// Source image loads in the background; geometry events arriving
	// before it completes leave the fit undefined, and a state push
	// announces the fit once the image is in.
	go func() {
		src, natural, err := s.fetcher.Fetch(r.Context(), product.ImageURL, s.products)
		if err != nil {
			log.Printf("Warning: session %s: source image fetch failed: %v", sess.ID(), err)
			return
		}
		sess.ImageLoaded(src, natural)
		s.writeState(conn, sess)
	}()

	for {
		var ev wsEvent
		if err := ws.ReadJSON(&ev); err != nil {
			break
		}
		s.dispatch(r, conn, sess, materials, ev)
	}
}

func (s *Server) dispatch(r *http.Request, conn *sessionConn, sess *customize.Session, materials []provider.MaterialOption, ev wsEvent) {
	switch ev.Type {
	case "dimensions":
		if err := sess.SetDimensionInput(ev.Width, ev.Height); err != nil {
			s.writeReply(conn, wsReply{Type: "error", Error: err.Error()})
			return
		}
		s.store.Touch()
	case "container":
		sess.ContainerResized(customize.Box{Width: ev.W, Height: ev.H})
	case "material":
		var selected *provider.MaterialOption
		for i := range materials {
			if materials[i].ID == ev.ID {
				selected = &materials[i]
				break
			}
		}
		if selected == nil {
			s.writeReply(conn, wsReply{Type: "error", Error: "unknown material " + ev.ID})
			return
		}
		sess.SelectMaterial(selected)
		s.store.Touch()
	case "cropping":
		sess.SetCropping(ev.Enabled)
		s.store.Touch()
	case "drag_start":
		sess.PointerDown(ev.X, ev.Y)
	case "drag_move":
		sess.PointerMove(ev.X, ev.Y)
	case "drag_end", "drag_leave":
		sess.PointerUp()
	case "suggest":
		if _, err := sess.SuggestCrop(s.raster); err != nil {
			s.writeReply(conn, wsReply{Type: "error", Error: err.Error()})
			return
		}
	case "commit":
		line, warning, err := sess.Commit(r.Context(), s.raster, s.cart)
		if err != nil {
			s.writeReply(conn, wsReply{Type: "error", Error: err.Error(), Warning: warning})
			return
		}
		s.writeReply(conn, wsReply{Type: "committed", Line: &line, Warning: warning})
		return
	default:
		s.writeReply(conn, wsReply{Type: "error", Error: "unknown event " + ev.Type})
		return
	}
	s.writeState(conn, sess)
}

func (s *Server) writeState(conn *sessionConn, sess *customize.Session) {
	state := sess.State()
	s.writeReply(conn, wsReply{Type: "state", State: &state})
}

func (s *Server) writeReply(conn *sessionConn, reply wsReply) {
	if err := conn.write(reply); err != nil {
		log.Printf("Failed to write to session client: %v", err)
	}
}
