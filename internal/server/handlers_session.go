package server

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-chat/internal/chat"
	"github.com/jonathan/resume-chat/internal/export"
	"github.com/jonathan/resume-chat/internal/rendering"
	"github.com/jonathan/resume-chat/internal/types"
)

// currentSession resolves the caller's session or writes 401.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return sess, true
}

// respondResult writes a controller result or maps its error.
func (s *Server) respondResult(w http.ResponseWriter, r *http.Request, result *chat.Result, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleSnapshot returns the session's document, transcript and template.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

// handleGreet opens an empty conversation with the assistant's greeting.
func (s *Server) handleGreet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	result, err := sess.Greet(context.WithoutCancel(r.Context()))
	s.respondResult(w, r, result, err)
}

// handleSendMessage runs one chat turn: reply, extraction and document update.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	var req types.SendMessageRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := sess.Send(context.WithoutCancel(r.Context()), req.Message)
	s.respondResult(w, r, result, err)
}

// handleImport extracts a resume document from an uploaded PDF or image.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	upload, err := s.decodeUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := sess.ImportResume(context.WithoutCancel(r.Context()), upload)
	s.respondResult(w, r, result, err)
}

// handleImage sets the profile picture.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	upload, err := s.decodeUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := sess.UploadImage(upload)
	s.respondResult(w, r, result, err)
}

func (s *Server) decodeUpload(w http.ResponseWriter, r *http.Request) (types.Upload, error) {
	var req types.UploadRequest
	if err := decodeJSON(w, r, maxUploadBody, &req); err != nil {
		return types.Upload{}, err
	}
	upload, err := req.ToUpload()
	if err != nil {
		return types.Upload{}, &ErrValidation{Field: "data", Message: err.Error()}
	}
	if upload.Name == "" {
		upload.Name = "upload"
	}
	return upload, nil
}

// handleSelectTemplate switches the displayed template.
func (s *Server) handleSelectTemplate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	var req types.SelectTemplateRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := sess.SelectTemplate(req.TemplateID)
	s.respondResult(w, r, result, err)
}

// previewTemplate picks the ?template= override when it names a layout, otherwise the
// session's displayed template.
func previewTemplate(r *http.Request, current types.TemplateID) types.TemplateID {
	if id := types.TemplateID(r.URL.Query().Get("template")); id.Valid() {
		return id
	}
	return current
}

// handlePreview renders the session's document as HTML.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	doc, current := sess.Document()
	html, err := rendering.RenderHTML(doc, previewTemplate(r, current))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// handleExport renders the session's document and returns it as a PDF download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(w, r)
	if !ok {
		return
	}
	if s.exporter == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "PDF export is not available on this server")
		return
	}

	ctx := r.Context()
	if s.exportLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.exportLimit)
		defer cancel()
	}

	doc, current := sess.Document()
	id := previewTemplate(r, current)
	result, filename, err := export.Document(ctx, s.exporter, doc, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"template": id,
		"pages":    result.Pages,
		"bytes":    len(result.PDF),
	}).Info("resume downloaded")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
	w.Header().Set("X-Page-Count", strconv.Itoa(result.Pages))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.PDF)
}
