package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/cratewatch/cratewatch/pkg/cargo"
	"github.com/cratewatch/cratewatch/pkg/graph"
	"github.com/cratewatch/cratewatch/pkg/license"
	"github.com/cratewatch/cratewatch/pkg/logging"
	"github.com/cratewatch/cratewatch/pkg/model"
	"github.com/cratewatch/cratewatch/pkg/registry"
)

// CrateSummary is the list-view JSON shape for one crate record
type CrateSummary struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	ID          string `json:"id"`
	License     string `json:"license,omitempty"`
	Description string `json:"description,omitempty"`
}

// CrateDetail adds the full record plus its license evidence
type CrateDetail struct {
	CrateSummary
	Authors    []string               `json:"authors,omitempty"`
	Repository string                 `json:"repository,omitempty"`
	Deps       []model.DepRequirement `json:"deps,omitempty"`
	Evidence   []license.Evidence     `json:"evidence"`
	NodeDeps   []model.CrateID        `json:"nodeDeps,omitempty"`
	Dependents []model.CrateID        `json:"dependents,omitempty"`
}

// GraphNode represents a node in the dependency graph
type GraphNode struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// GraphEdge represents an edge in the dependency graph
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphData holds the dependency graph for visualization
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Server serves the registry over a local JSON API
type Server struct {
	router  *mux.Router
	mu      sync.RWMutex
	reg     *registry.Registry
	resolve *cargo.Resolve
	crates  *graph.CrateGraph
}

// NewServer creates a new web server
func NewServer() *Server {
	s := &Server{
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(logging.RequestIDMiddleware)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/crates", s.handleCrates).Methods(http.MethodGet)
	s.router.HandleFunc("/api/crates/{name}", s.handleCrate).Methods(http.MethodGet)
	s.router.HandleFunc("/api/licenses", s.handleLicenses).Methods(http.MethodGet)
	s.router.HandleFunc("/api/graph", s.handleGraph).Methods(http.MethodGet)
}

// SetData swaps in a freshly gathered registry and resolution graph.
// The registry itself is immutable; the lock only guards the swap.
func (s *Server) SetData(reg *registry.Registry, resolve *cargo.Resolve) {
	crates := graph.FromResolve(resolve)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg = reg
	s.resolve = resolve
	s.crates = crates
}

// Start runs the HTTP server on the given port, blocking until it fails.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("web server listening", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return srv.ListenAndServe()
}

// ServeHTTP makes the server usable as a plain http.Handler in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) snapshot() (*registry.Registry, *cargo.Resolve, *graph.CrateGraph) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg, s.resolve, s.crates
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reg, _, _ := s.snapshot()
	status := map[string]any{"status": "ok", "ready": reg != nil}
	writeJSON(w, status)
}

func (s *Server) handleCrates(w http.ResponseWriter, r *http.Request) {
	reg, _, _ := s.snapshot()
	if reg == nil {
		http.Error(w, "registry not ready", http.StatusServiceUnavailable)
		return
	}

	out := make([]CrateSummary, 0, reg.Len())
	for c := range reg.All() {
		out = append(out, summarize(c))
	}
	writeJSON(w, out)
}

func (s *Server) handleCrate(w http.ResponseWriter, r *http.Request) {
	reg, _, crates := s.snapshot()
	if reg == nil {
		http.Error(w, "registry not ready", http.StatusServiceUnavailable)
		return
	}

	name := mux.Vars(r)["name"]
	var out []CrateDetail
	for c := range reg.All() {
		if c.Name != name {
			continue
		}
		detail := CrateDetail{
			CrateSummary: summarize(c),
			Authors:      c.Authors,
			Repository:   c.Repository,
			Deps:         c.Deps,
			Evidence:     license.Collect(c),
		}
		if crates != nil {
			detail.NodeDeps = crates.DirectDeps(c.ID)
			detail.Dependents = crates.Dependents(c.ID)
		}
		out = append(out, detail)
	}
	if len(out) == 0 {
		http.Error(w, "unknown crate", http.StatusNotFound)
		return
	}
	writeJSON(w, out)
}

func (s *Server) handleLicenses(w http.ResponseWriter, r *http.Request) {
	reg, _, _ := s.snapshot()
	if reg == nil {
		http.Error(w, "registry not ready", http.StatusServiceUnavailable)
		return
	}

	type entry struct {
		Name     string             `json:"name"`
		Version  string             `json:"version"`
		Evidence []license.Evidence `json:"evidence"`
	}
	out := make([]entry, 0, reg.Len())
	for c := range reg.All() {
		out = append(out, entry{
			Name:     c.Name,
			Version:  c.Version.String(),
			Evidence: license.Collect(c),
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	reg, resolve, _ := s.snapshot()
	if reg == nil || resolve == nil {
		http.Error(w, "registry not ready", http.StatusServiceUnavailable)
		return
	}

	data := GraphData{}
	for _, node := range resolve.Nodes {
		gn := GraphNode{ID: node.ID}
		if c, ok := reg.Lookup(model.CrateID(node.ID)); ok {
			gn.Name = c.Name
			gn.Version = c.Version.String()
		}
		data.Nodes = append(data.Nodes, gn)
		for _, dep := range node.Dependencies {
			data.Edges = append(data.Edges, GraphEdge{Source: node.ID, Target: dep})
		}
	}
	writeJSON(w, data)
}

func summarize(c *model.Crate) CrateSummary {
	return CrateSummary{
		Name:        c.Name,
		Version:     c.Version.String(),
		ID:          string(c.ID),
		License:     c.License.Raw,
		Description: c.Description,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("encoding response", "error", err)
	}
}
