package handlers

import (
	"mime"
	"net/http"
	"strings"

	"backoffice/internal/models"

	"github.com/go-chi/chi/v5"
)

type customerRequest struct {
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	Age        int    `json:"age"`
	NationalID string `json:"national_id"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	Active     *bool  `json:"active"`
}

func (req customerRequest) model() models.Customer {
	gender, ok := models.ParseGender(req.Gender)
	if !ok {
		gender = models.Gender(req.Gender)
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return models.Customer{
		Name:       strings.TrimSpace(req.Name),
		Gender:     gender,
		Age:        req.Age,
		NationalID: strings.TrimSpace(req.NationalID),
		Address:    strings.TrimSpace(req.Address),
		Phone:      strings.TrimSpace(req.Phone),
		Password:   req.Password,
		Active:     active,
	}
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers := h.workspace.Customers.Search(r.URL.Query().Get("q"))
	respondJSON(w, http.StatusOK, customerViews(customers))
}

func (h *Handler) ReloadCustomers(w http.ResponseWriter, r *http.Request) {
	if err := h.workspace.Customers.Reload(r.Context()); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, customerViews(h.workspace.CustomerCollection().Snapshot()))
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.workspace.Customers.Get(r.Context(), models.IDOf(chi.URLParam(r, "id")))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, customerView(customer))
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	created, err := h.workspace.Customers.Create(r.Context(), req.model())
	respondMutation(w, r, http.StatusCreated, customerView(created), err)
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	updated, err := h.workspace.Customers.Update(r.Context(), models.IDOf(chi.URLParam(r, "id")), req.model())
	respondMutation(w, r, http.StatusOK, customerView(updated), err)
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.workspace.Customers.Delete(r.Context(), models.IDOf(chi.URLParam(r, "id"))); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Statement returns the report as JSON, or the decoded PDF when
// download=true.
func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := parseDate(query.Get("from"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDate(query.Get("to"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	customerID := models.IDOf(chi.URLParam(r, "id"))
	report, err := h.workspace.Reports.Statement(r.Context(), customerID, from, to)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if query.Get("download") != "true" {
		respondJSON(w, http.StatusOK, report)
		return
	}
	pdf, err := report.PDF()
	if err != nil {
		respondError(w, http.StatusBadGateway, "backend returned an unreadable report")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": "estado-cuenta-" + customerID.String() + ".pdf",
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
