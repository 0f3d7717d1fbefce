package server

import (
	"net/http"

	"github.com/jonathan/resume-chat/internal/payments"
	"github.com/jonathan/resume-chat/internal/server/middleware"
	"github.com/jonathan/resume-chat/internal/types"
)

// paymentsEnabled writes 503 when no payment service is wired.
func (s *Server) paymentsEnabled(w http.ResponseWriter) bool {
	if s.payments == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "payments are not enabled on this server")
		return false
	}
	return true
}

// handleCreatePayment starts a checkout, or reports that the caller already paid.
func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	if !s.paymentsEnabled(w) {
		return
	}
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	result, err := s.payments.CreatePayment(r.Context(), payments.User{
		ID:    identity.UserID,
		Name:  identity.Name,
		Email: identity.Email,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleVerifyPayment confirms a checkout from the gateway redirect parameters.
func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	if !s.paymentsEnabled(w) {
		return
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req types.VerifyPaymentRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.payments.VerifyPayment(r.Context(), userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handlePaymentStatus reports whether the caller has paid.
func (s *Server) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if s.payments == nil {
		s.jsonResponse(w, http.StatusOK, map[string]bool{"paid": true, "required": false})
		return
	}
	paid, err := s.payments.HasPaid(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"paid": paid, "required": s.requirePayment})
}
