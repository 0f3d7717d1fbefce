package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jonathan/resume-chat/internal/chat"
	"github.com/jonathan/resume-chat/internal/rendering"
	"github.com/jonathan/resume-chat/internal/server/middleware"
)

const (
	maxJSONBody = 64 << 10
	// maxUploadBody fits a base64-encoded chat.MaxUploadBytes file plus the JSON envelope.
	maxUploadBody = chat.MaxUploadBytes/3*4 + maxJSONBody
)

// validatable is implemented by request DTOs.
type validatable interface {
	Validate() error
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst validatable) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "request body is empty"}
		}
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return dst.Validate()
}

// session returns the caller's chat session. The route must be behind AuthMiddleware.
func (s *Server) session(r *http.Request) (*chat.Session, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return nil, err
	}
	return s.sessions.Get(userID), nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTemplates returns the template gallery.
func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": rendering.Catalog()})
}

// handleLogout discards the caller's session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	s.sessions.Delete(userID)
	w.WriteHeader(http.StatusNoContent)
}
