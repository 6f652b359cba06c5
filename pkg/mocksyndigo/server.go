// Package mocksyndigo serves a canned entityappservice API for tests and local runs.
package mocksyndigo

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/syndigo"
)

// Call records a query made to the mock service.
type Call struct {
	Entity    string
	Attribute string
	Header    http.Header
	Body      syndigo.QueryRequest
}

// Server implements the entityappservice/get surface used by the checker.
type Server struct {
	mu       sync.Mutex
	fixtures map[string]Fixture
	calls    []Call

	clientID     string
	clientSecret string
}

// New constructs a mock server answering from fixtures.
func New(fixtures Fixtures) *Server {
	fx := make(map[string]Fixture, len(fixtures.Attributes))
	for k, v := range fixtures.Attributes {
		fx[k] = v
	}
	return &Server{fixtures: fx}
}

// RequireCredentials rejects requests whose auth-client-id/secret headers do not match.
// Empty values disable the check.
func (s *Server) RequireCredentials(clientID, clientSecret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientID = strings.TrimSpace(clientID)
	s.clientSecret = strings.TrimSpace(clientSecret)
}

// SetFixture adds or replaces the answer for one attribute.
func (s *Server) SetFixture(attribute string, f Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixtures[attribute] = f
}

// Handler returns an http.Handler that serves the mock API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/"+syndigo.QueryPath, s.handleQuery)
	return mux
}

// Calls returns a snapshot of calls made to the server.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get(syndigo.HeaderRDPVersion) == "" || r.Header.Get(syndigo.HeaderRDPClientID) == "" {
		http.Error(w, `{"message":"missing x-rdp headers"}`, http.StatusBadRequest)
		return false
	}

	s.mu.Lock()
	id, secret := s.clientID, s.clientSecret
	s.mu.Unlock()
	if id == "" && secret == "" {
		return true
	}
	if r.Header.Get(syndigo.HeaderClientID) != id || r.Header.Get(syndigo.HeaderClientSecret) != secret {
		http.Error(w, `{"message":"invalid client credentials"}`, http.StatusUnauthorized)
		return false
	}
	return true
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req syndigo.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	attr, entity := req.Attribute(), req.EntityType()

	s.mu.Lock()
	s.calls = append(s.calls, Call{Entity: entity, Attribute: attr, Header: r.Header.Clone(), Body: req})
	fx, ok := s.fixtures[attr]
	s.mu.Unlock()

	if !s.authorize(w, r) {
		return
	}
	if ok && fx.Entity != "" && fx.Entity != entity {
		ok = false
	}
	if !ok {
		writeJSON(w, http.StatusOK, syndigo.QueryResponse{
			Response: syndigo.ResponseBody{Status: "success", Entities: []syndigo.Entity{}},
		})
		return
	}

	if fx.Delay > 0 {
		select {
		case <-time.After(fx.Delay):
		case <-r.Context().Done():
			return
		}
	}

	status := fx.Status
	if status == 0 {
		status = http.StatusOK
	}
	if fx.Body != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(fx.Body))
		return
	}
	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}

	value, err := fx.attributeJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp := syndigo.QueryResponse{Response: syndigo.ResponseBody{
		Status:       "success",
		TotalRecords: fx.TotalRecords,
		Entities:     []syndigo.Entity{},
	}}
	if value != nil {
		resp.Response.Entities = append(resp.Response.Entities, syndigo.Entity{
			ID:   "mock-" + attr,
			Type: entity,
			Data: syndigo.EntityData{Attributes: map[string]json.RawMessage{attr: value}},
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
