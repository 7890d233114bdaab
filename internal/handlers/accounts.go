package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"backoffice/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type accountRequest struct {
	Number         string      `json:"number"`
	Type           string      `json:"type"`
	OpeningBalance json.Number `json:"opening_balance"`
	Active         *bool       `json:"active"`
	CustomerID     models.ID   `json:"customer_id"`
}

func (req accountRequest) model() (models.Account, error) {
	opening := decimal.Zero
	if req.OpeningBalance != "" {
		parsed, err := parseAmount(req.OpeningBalance)
		if err != nil {
			return models.Account{}, err
		}
		opening = parsed
	}
	accountType, ok := models.ParseAccountType(req.Type)
	if !ok {
		accountType = models.AccountType(req.Type)
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return models.Account{
		Number:         strings.TrimSpace(req.Number),
		Type:           accountType,
		OpeningBalance: opening,
		Balance:        opening,
		Active:         active,
		CustomerID:     req.CustomerID,
	}, nil
}

// ListAccounts searches the cached accounts by number, or lists the
// accounts of one customer when customer_id is given.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if owner := models.IDOf(query.Get("customer_id")); !owner.IsZero() {
		respondJSON(w, http.StatusOK, h.workspace.Accounts.OwnedBy(owner))
		return
	}
	respondJSON(w, http.StatusOK, h.workspace.Accounts.Search(query.Get("q")))
}

func (h *Handler) ReloadAccounts(w http.ResponseWriter, r *http.Request) {
	if err := h.workspace.Accounts.Reload(r.Context()); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.workspace.AccountCollection().Snapshot())
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.workspace.Accounts.Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	account, err := req.model()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	created, err := h.workspace.Accounts.Create(r.Context(), account)
	respondMutation(w, r, http.StatusCreated, created, err)
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	account, err := req.model()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	updated, err := h.workspace.Accounts.Update(r.Context(), chi.URLParam(r, "number"), account)
	respondMutation(w, r, http.StatusOK, updated, err)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.workspace.Accounts.Delete(r.Context(), chi.URLParam(r, "number")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
