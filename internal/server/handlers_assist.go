package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/moneymind/backend/internal/analytics"
	"github.com/moneymind/backend/internal/model"
)

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	session := s.sessions.Open()
	category, _ := session.Category()
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"id":       session.ID.String(),
		"category": category,
	})
}

func (s *Server) sessionFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid session id")
		return uuid.UUID{}, false
	}
	return id, true
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	session, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "session not found")
		return
	}
	category, pending := session.Category()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"id":       session.ID.String(),
		"category": category,
		"pending":  pending,
	})
}

// classifySession kicks off an asynchronous classification for an open entry
// form. The response is immediate; the client polls the session for the
// outcome. A result arriving after the form closed or was manually
// categorized is discarded.
func (s *Server) classifySession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	session, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Detach from the request context: the HTTP exchange finishes now, the
	// classification settles whenever the collaborator answers.
	s.pipeline.ClassifyInto(context.WithoutCancel(r.Context()), session, req.Description)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) overrideSessionCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	session, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req struct {
		Category string `json:"category"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session.Override(model.ParseCategory(req.Category))
	category, _ := session.Category()
	s.writeJSON(w, http.StatusOK, map[string]any{"category": category})
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	s.sessions.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) parseEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.writeJSON(w, http.StatusOK, s.pipeline.ParseEntry(r.Context(), req.Text))
}

func (s *Server) parseReceipt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Image string `json:"image"` // base64-encoded JPEG
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid image encoding")
		return
	}
	s.writeJSON(w, http.StatusOK, s.pipeline.ParseReceipt(r.Context(), image))
}

// insights compares the current calendar month against the previous one.
func (s *Server) insights(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	txns := s.finance.Transactions()

	current := analytics.FilterMonth(txns, now.Year(), now.Month())
	prevYear, prevMonth := now.Year(), now.Month()-1
	if prevMonth < time.January {
		prevYear, prevMonth = prevYear-1, time.December
	}
	prior := analytics.FilterMonth(txns, prevYear, prevMonth)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"insights": s.pipeline.Insights(r.Context(), current, prior),
	})
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"answer": s.pipeline.Chat(r.Context(), req.Question, s.finance.Transactions()),
	})
}
