package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"backoffice/internal/models"
	"backoffice/internal/services"
	"backoffice/internal/store"

	"github.com/go-chi/chi/v5"
)

type movementRequest struct {
	AccountNumber string      `json:"account_number"`
	Type          string      `json:"type"`
	Amount        json.Number `json:"amount"`
	Description   string      `json:"description"`
}

// ListMovements returns the movements of the selected customer. With
// account=<number> they are filtered locally; with scope=account the
// selected account's own list is returned.
func (h *Handler) ListMovements(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("scope") == "account" {
		respondJSON(w, http.StatusOK, h.workspace.AccountMovements().Snapshot())
		return
	}
	ref := strings.TrimSpace(query.Get("account"))
	if ref == "" {
		respondJSON(w, http.StatusOK, h.workspace.CustomerMovements().Snapshot())
		return
	}
	account, ok := store.AccountByNumber(h.workspace.CustomerAccounts(), ref)
	if !ok {
		account = models.Account{Number: ref}
	}
	respondJSON(w, http.StatusOK, services.MovementsForAccount(h.workspace.CustomerMovements(), account))
}

func (h *Handler) GetMovement(w http.ResponseWriter, r *http.Request) {
	movement, err := h.workspace.Movements.Get(r.Context(), models.IDOf(chi.URLParam(r, "id")))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, movement)
}

func (h *Handler) CreateMovement(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	movementType, ok := models.ParseMovementType(req.Type)
	if !ok {
		movementType = models.MovementType(req.Type)
	}
	created, err := h.workspace.Movements.Create(r.Context(), models.MovementInput{
		AccountNumber: req.AccountNumber,
		Type:          movementType,
		Amount:        amount,
		Description:   strings.TrimSpace(req.Description),
	})
	respondMutation(w, r, http.StatusCreated, created, err)
}

func (h *Handler) DeleteMovement(w http.ResponseWriter, r *http.Request) {
	if err := h.workspace.Movements.Delete(r.Context(), models.IDOf(chi.URLParam(r, "id"))); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
