package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/fabfab/doc-chat/chat"
)

// Server exposes the chat workflows over HTTP for the embedded UI. It owns
// a single session: one user, one conversation, handled one request at a
// time behind the mutex.
type Server struct {
	svc     *chat.Service
	logger  *log.Logger
	handler http.Handler

	mu      sync.Mutex
	session *chat.Session
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type selectGroupRequest struct {
	GroupID string `json:"groupId"`
}

type chatRequest struct {
	Question string `json:"question"`
}

type groupInfo struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Sources []string `json:"sources,omitempty"`
}

type sessionResponse struct {
	SessionID            string         `json:"sessionId"`
	ActiveGroupID        string         `json:"activeGroupId"`
	Messages             []chat.Message `json:"messages"`
	Suggestions          []string       `json:"suggestions"`
	ContentLoaded        bool           `json:"contentLoaded"`
	GenerationConfigured bool           `json:"generationConfigured"`
}

// New constructs a Server and settles the initial session state so the
// first page load already has its welcome turn and suggestions.
func New(ctx context.Context, svc *chat.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		svc:     svc,
		logger:  logger,
		session: svc.NewSession(ctx),
	}
	s.handler = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/groups", s.handleGroups)
	mux.HandleFunc("/v1/session", s.handleSession)
	mux.HandleFunc("/v1/session/group", s.handleSelectGroup)
	mux.HandleFunc("/v1/chat", s.handleChat)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	groups := s.svc.Groups()
	infos := make([]groupInfo, len(groups))
	for i, g := range groups {
		infos[i] = groupInfo{
			ID:      g.ID,
			Name:    g.Name,
			Kind:    string(g.Kind),
			Sources: append([]string(nil), g.URLs...),
		}
	}

	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.svc.Sync(r.Context(), s.session)
	s.writeJSON(w, http.StatusOK, s.sessionState())
}

func (s *Server) handleSelectGroup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	var req selectGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.svc.SelectGroup(r.Context(), s.session, strings.TrimSpace(req.GroupID)); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.sessionState())
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("question is required"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.svc.GenerationConfigured() {
		s.writeError(w, http.StatusConflict, fmt.Errorf("generation is not configured"))
		return
	}
	if !s.session.ContentLoaded {
		s.writeError(w, http.StatusConflict, fmt.Errorf("no content loaded for the active group"))
		return
	}

	s.svc.Ask(r.Context(), s.session, req.Question)
	s.writeJSON(w, http.StatusOK, s.sessionState())
}

// sessionState snapshots the session for the UI. Callers hold s.mu.
func (s *Server) sessionState() sessionResponse {
	return sessionResponse{
		SessionID:            s.session.ID,
		ActiveGroupID:        s.session.ActiveGroupID,
		Messages:             append([]chat.Message(nil), s.session.Messages...),
		Suggestions:          append([]string(nil), s.session.Suggestions...),
		ContentLoaded:        s.session.ContentLoaded,
		GenerationConfigured: s.svc.GenerationConfigured(),
	}
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed, use %s", allowed))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Printf("api error (%d): %v", status, err)
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}

	return nil
}
