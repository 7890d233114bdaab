package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"backoffice/internal/auth"
	"backoffice/internal/backoffice"
	"backoffice/internal/logging"
	"backoffice/internal/middleware"
	"backoffice/internal/websocket"

	"github.com/go-chi/chi/v5"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if h.cfg.OperatorPasswordHash == "" {
		respondError(w, http.StatusServiceUnavailable, "operator login is not configured")
		return
	}
	userMatches := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(req.Username)), []byte(h.cfg.OperatorUsername)) == 1
	if !auth.CheckPassword(h.cfg.OperatorPasswordHash, req.Password) || !userMatches {
		logging.FromContext(r.Context()).Warn("operator login rejected", "username", req.Username)
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, h.cfg.OperatorUsername, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"token": token,
	})
}

var topics = map[string]bool{
	backoffice.TopicCustomers:        true,
	backoffice.TopicAccounts:         true,
	backoffice.TopicCustomerAccounts: true,
	backoffice.TopicMovements:        true,
	backoffice.TopicAccountMovements: true,
	backoffice.TopicSelection:        true,
	backoffice.TopicLoading:          true,
}

// WSTopic streams one topic. Browsers cannot set headers on websocket
// requests, so the token may also come from the query string.
func (h *Handler) WSTopic(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	if !topics[topic] {
		respondError(w, http.StatusNotFound, "unknown topic")
		return
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		token, _ = middleware.BearerToken(r.Header.Get("Authorization"))
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	if _, err := auth.ParseToken(h.cfg.JWTSecret, token); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, topic)
}
