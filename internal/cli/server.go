package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tablescape/foodweb/pkg/disclosure"
	"github.com/tablescape/foodweb/pkg/errors"
	"github.com/tablescape/foodweb/pkg/foodgraph"
	"github.com/tablescape/foodweb/pkg/layout"
	"github.com/tablescape/foodweb/pkg/observability"
	"github.com/tablescape/foodweb/pkg/render"
	"github.com/tablescape/foodweb/pkg/session"
)

// sessionCookie names the browser cookie carrying the session ID.
const sessionCookie = "foodweb_session"

// =============================================================================
// Server
// =============================================================================

// Server serves the diagram over HTTP with per-session disclosure state.
type Server struct {
	graph    *foodgraph.Graph
	engine   *layout.Engine
	sessions session.Store
	logger   *log.Logger

	// mu serializes layout and render. Node positions live on the shared
	// graph, so concurrent sessions must not recompute layout at once.
	mu sync.Mutex
}

// NewServer creates a server around a loaded graph.
func NewServer(g *foodgraph.Graph, engine *layout.Engine, store session.Store, logger *log.Logger) *Server {
	return &Server{
		graph:    g,
		engine:   engine,
		sessions: store,
		logger:   logger,
	}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/svg", s.handleSVG)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/click/{id}", s.handleClick)
		r.Post("/continue", s.handleContinue)
		r.Post("/background", s.handleBackground)
		r.Post("/categories", s.handleCategories)
		r.Post("/mode/{mode}", s.handleMode)
		r.Post("/noncore", s.handleNonCore)
		r.Post("/regen", s.handleRegen)
		r.Post("/resize", s.handleResize)
		r.Post("/drag", s.handleDrag)
	})

	return r
}

// logRequests logs each request with method, path, status, and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// =============================================================================
// Session Handling
// =============================================================================

// getSession loads the request's session, creating one when the cookie is
// missing or stale.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		sess, err := s.sessions.Get(r.Context(), cookie.Value)
		if err == nil {
			return sess, nil
		}
		if err != session.ErrNotFound && err != session.ErrExpired {
			return nil, err
		}
	}

	sess := session.New(disclosure.NewState(), session.DefaultTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
	return sess, nil
}

// transition applies an event to the request's session and writes the
// resulting state as JSON.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, ev disclosure.Event) {
	sess, err := s.getSession(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	next, _ := disclosure.Transition(sess.State, ev)
	sess.State = next
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeState(w, sess.State)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleSVG renders the current session's view. Layout is recomputed under
// the server lock because positions live on the shared graph.
func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.getSession(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	svg, err := s.renderState(r.Context(), sess.State)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(svg)
}

func (s *Server) renderState(ctx context.Context, st disclosure.State) (svg []byte, err error) {
	start := time.Now()
	defer func() {
		observability.View().OnRender(ctx, "svg", len(svg), time.Since(start), err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	layout.ReleaseAll(s.graph)
	layoutStart := time.Now()
	s.engine.Journey(s.graph)
	observability.View().OnLayout(ctx, "journey", len(s.graph.Nodes), time.Since(layoutStart))

	opts := []render.SVGOption{
		render.WithFrame(s.engine.Frame()),
		render.WithLegend(),
		render.WithInteraction(),
	}
	if st.Focused() {
		f, err := s.engine.Focus(s.graph, st.FocusID, st.Mode == disclosure.ModeNegative)
		if err != nil {
			return nil, err
		}
		if st.DragPin.Active {
			f.Focus.Pin(st.DragPin.X, st.DragPin.Y)
		}
		opts = append(opts, render.WithFocus(f))
	}
	return render.SVG(s.graph, st, opts...), nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.getSession(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeState(w, sess.State)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.graph.Node(id); !ok {
		s.writeError(w, errors.New(errors.ErrCodeNodeNotFound, "unknown node %q", id))
		return
	}
	s.transition(w, r, disclosure.ClickNode{ID: id})
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, disclosure.Continue{})
}

func (s *Server) handleBackground(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, disclosure.ClickBackground{})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Group string `json:"group"`
		All   *bool  `json:"all"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode category request"))
		return
	}

	if req.All != nil {
		s.transition(w, r, disclosure.SetAllCategories{On: *req.All})
		return
	}
	if req.Group == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "category request needs group or all"))
		return
	}
	if foodgraph.CanonicalGroup(req.Group) != req.Group {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown category %q", req.Group))
		return
	}
	s.transition(w, r, disclosure.ToggleCategory{Group: req.Group})
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	mode := disclosure.Mode(chi.URLParam(r, "mode"))
	if !disclosure.ValidMode(mode) {
		s.writeError(w, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", mode))
		return
	}
	s.transition(w, r, disclosure.SetMode{Mode: mode})
}

func (s *Server) handleNonCore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Show bool `json:"show"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode noncore request"))
		return
	}
	s.transition(w, r, disclosure.SetNonCore{Show: req.Show})
}

func (s *Server) handleRegen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		On bool `json:"on"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode regen request"))
		return
	}
	s.transition(w, r, disclosure.SetRegenFocus{On: req.On})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode resize request"))
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "resize needs positive width and height"))
		return
	}

	s.mu.Lock()
	s.engine.Resize(layout.Frame{Width: req.Width, Height: req.Height})
	s.mu.Unlock()

	s.transition(w, r, disclosure.Resize{Width: req.Width, Height: req.Height})
}

// handleDrag records a node drag release. The pin sticks only when the
// dragged node is the session's focused node; it lives on the session
// state, never on the shared graph, so other sessions are unaffected
// and it re-applies every time this session renders. A refused drag
// needs no cleanup here because each render replays positions from
// scratch.
func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string  `json:"id"`
		X  float64 `json:"x"`
		Y  float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode drag request"))
		return
	}
	if _, ok := s.graph.Node(req.ID); !ok {
		s.writeError(w, errors.New(errors.ErrCodeNodeNotFound, "unknown node %q", req.ID))
		return
	}
	s.transition(w, r, disclosure.DragEnd{ID: req.ID, X: req.X, Y: req.Y})
}

// =============================================================================
// Responses
// =============================================================================

// stateResponse is the JSON shape of the session state.
type stateResponse struct {
	Phase       string          `json:"phase"`
	Stage       int             `json:"stage,omitempty"`
	Focus       string          `json:"focus,omitempty"`
	Mode        string          `json:"mode"`
	Categories  map[string]bool `json:"categories"`
	ShowNonCore bool            `json:"showNonCore"`
	RegenFocus  bool            `json:"regenFocus"`
	Visible     int             `json:"visibleNodes"`
}

func (s *Server) writeState(w http.ResponseWriter, st disclosure.State) {
	resp := stateResponse{
		Phase:       st.Phase.String(),
		Stage:       st.Phase.Stage(),
		Focus:       st.FocusID,
		Mode:        string(st.Mode),
		Categories:  st.Categories,
		ShowNonCore: st.ShowNonCore,
		RegenFocus:  st.RegenFocus,
		Visible:     len(st.VisibleNodes(s.graph)),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode state response", "error", err)
	}
}

// writeError maps error codes onto HTTP statuses and writes a JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMode, errors.ErrCodeInvalidStage:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeSessionNotFound:
		status = http.StatusNotFound
	}
	if status >= 500 {
		s.logger.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    string(errors.GetCode(err)),
			"message": errors.UserMessage(err),
		},
	})
}

// indexHTML is the minimal shell page: the SVG carries its own pan/zoom
// script, so the shell only needs controls that hit the API and refresh.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Foodweb</title>
<style>
  body { margin: 0; font-family: system-ui, sans-serif; background: #fafaf8; }
  header { display: flex; gap: 8px; padding: 10px 16px; border-bottom: 1px solid #ddd; align-items: center; }
  button { padding: 6px 12px; border: 1px solid #bbb; border-radius: 6px; background: #fff; cursor: pointer; }
  button:hover { background: #f0f0ee; }
  #diagram { width: 100vw; height: calc(100vh - 54px); }
  #diagram object { width: 100%; height: 100%; }
</style>
</head>
<body>
<header>
  <strong>Foodweb</strong>
  <button onclick="act('/api/continue')">Continue</button>
  <button onclick="act('/api/background')">Back</button>
  <button onclick="setMode('default')">Default</button>
  <button onclick="setMode('regen')">Regen</button>
  <button onclick="setMode('negative')">Negative</button>
  <span id="status"></span>
</header>
<div id="diagram"><object type="image/svg+xml" data="/svg"></object></div>
<script>
  async function act(path, body) {
    const res = await fetch(path, { method: 'POST', headers: { 'Content-Type': 'application/json' }, body: body ? JSON.stringify(body) : '{}' });
    if (res.ok) {
      const state = await res.json();
      document.getElementById('status').textContent = state.phase + ' · ' + state.mode;
      refresh();
    }
  }
  function setMode(mode) { act('/api/mode/' + mode); }
  function refresh() {
    const holder = document.getElementById('diagram');
    const obj = document.createElement('object');
    obj.type = 'image/svg+xml';
    obj.data = '/svg?t=' + Date.now();
    holder.replaceChildren(obj);
  }
  window.addEventListener('resize', () => {
    act('/api/resize', { width: window.innerWidth, height: window.innerHeight - 54 });
  });
</script>
</body>
</html>
`
