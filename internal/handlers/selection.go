package handlers

import (
	"net/http"

	"backoffice/internal/models"
)

type customerSelectionRequest struct {
	CustomerID models.ID `json:"customer_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
}

type accountSelectionRequest struct {
	Number string `json:"number"`
}

func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.workspace.Selection())
}

// SelectCustomer loads the customer's accounts and movements before
// answering. A failed load still leaves the selection in place.
func (h *Handler) SelectCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerSelectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.CustomerID.IsZero() {
		respondError(w, http.StatusBadRequest, "customer_id is required")
		return
	}
	from, err := parseDate(req.From)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDate(req.To)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.workspace.SelectCustomer(r.Context(), req.CustomerID, from, to); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.workspace.Selection())
}

func (h *Handler) ClearCustomer(w http.ResponseWriter, r *http.Request) {
	h.workspace.ClearCustomer()
	respondJSON(w, http.StatusOK, h.workspace.Selection())
}

func (h *Handler) SelectAccount(w http.ResponseWriter, r *http.Request) {
	var req accountSelectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Number == "" {
		respondError(w, http.StatusBadRequest, "number is required")
		return
	}
	if err := h.workspace.SelectAccount(r.Context(), req.Number); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.workspace.Selection())
}

func (h *Handler) ClearAccount(w http.ResponseWriter, r *http.Request) {
	h.workspace.ClearAccount()
	respondJSON(w, http.StatusOK, h.workspace.Selection())
}

func (h *Handler) RefreshSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.workspace.RefreshSelection(r.Context()); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.workspace.Selection())
}
