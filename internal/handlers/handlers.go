package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"backoffice/internal/backoffice"
	"backoffice/internal/gateway"
	"backoffice/internal/logging"
	"backoffice/internal/models"
	"backoffice/internal/money"
	"backoffice/internal/services"
	"backoffice/internal/store"
	"backoffice/internal/validator"
)

const staleHeader = "X-Cache-Stale"

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps core and backend errors onto operator-facing
// statuses. Backend 4xx responses keep their status and message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var gwErr *gateway.Error
	switch {
	case validator.IsValidation(err):
		respondError(w, http.StatusBadRequest, rootMessage(err))
	case errors.Is(err, money.ErrInvalidAmount), errors.Is(err, money.ErrTooManyDecimals):
		respondError(w, http.StatusBadRequest, rootMessage(err))
	case errors.Is(err, services.ErrMissingKey), errors.Is(err, services.ErrInvalidRange):
		respondError(w, http.StatusBadRequest, rootMessage(err))
	case errors.Is(err, backoffice.ErrUnknownAccount):
		respondError(w, http.StatusNotFound, rootMessage(err))
	case errors.Is(err, services.ErrDuplicate):
		respondError(w, http.StatusConflict, rootMessage(err))
	case errors.Is(err, store.ErrSuperseded):
		respondError(w, http.StatusConflict, "superseded by a newer request")
	case errors.Is(err, models.ErrEmptyReport):
		respondError(w, http.StatusBadGateway, "backend returned an empty report")
	case errors.As(err, &gwErr):
		if gwErr.Status >= 400 && gwErr.Status < 500 {
			message := gwErr.Message
			if message == "" {
				message = http.StatusText(gwErr.Status)
			}
			respondError(w, gwErr.Status, message)
			return
		}
		logging.FromContext(r.Context()).Error("backend call failed", "error", err)
		respondError(w, http.StatusBadGateway, "backend unavailable")
	default:
		logging.FromContext(r.Context()).Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// respondMutation writes a mutation result. A stale cache entry is not an
// error for the operator: the backend accepted the change.
func respondMutation(w http.ResponseWriter, r *http.Request, status int, payload any, err error) {
	if errors.Is(err, services.ErrStaleKey) {
		logging.FromContext(r.Context()).Warn("mutation applied to uncached entity", "error", err)
		w.Header().Set(staleHeader, "true")
		respondJSON(w, status, payload)
		return
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, status, payload)
}

func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func customerView(c models.Customer) models.Customer {
	c.Password = ""
	return c
}

func customerViews(items []models.Customer) []models.Customer {
	out := make([]models.Customer, 0, len(items))
	for _, c := range items {
		out = append(out, customerView(c))
	}
	return out
}
