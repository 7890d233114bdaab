package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"backoffice/internal/backoffice"
	"backoffice/internal/models"
	"backoffice/internal/reloader"
	"backoffice/internal/store"
)

type selectionBody struct {
	CustomerID       models.ID `json:"customer_id"`
	CustomerName     string    `json:"customer_name"`
	CustomerAccounts string    `json:"customer_accounts"`
	Movements        string    `json:"movements"`
}

func TestSelectCustomerReportsState(t *testing.T) {
	var filter models.MovementFilter
	gw := selectedCustomerGateways(stubMovementGateway{
		listByCustomerFn: func(_ context.Context, f models.MovementFilter) ([]models.Movement, error) {
			filter = f
			return nil, nil
		},
	})
	gw.Customers = stubCustomerGateway{
		listFn: func(context.Context) ([]models.Customer, error) {
			return []models.Customer{{ID: "1", Name: "Jose Lema"}}, nil
		},
	}
	handler, _ := newTestHandler(t, gw, nil)

	rr := serve(t, handler, http.MethodPut, "/selection/customer", strings.NewReader(`{"customer_id":"1","from":"2024-01-01","to":"2024-01-31"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var selection selectionBody
	if err := json.NewDecoder(rr.Body).Decode(&selection); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if selection.CustomerID != "1" || selection.CustomerName != "Jose Lema" {
		t.Fatalf("unexpected selection: %#v", selection)
	}
	if selection.CustomerAccounts != reloader.Ready.String() || selection.Movements != reloader.Ready.String() {
		t.Fatalf("expected ready states: %#v", selection)
	}
	if filter.From == nil || filter.To == nil || filter.To.Day() != 31 {
		t.Fatalf("unexpected filter: %#v", filter)
	}
}

func TestSelectCustomerRejectsInvertedRange(t *testing.T) {
	handler, _ := newTestHandler(t, backoffice.Gateways{}, nil)
	rr := serve(t, handler, http.MethodPut, "/selection/customer", strings.NewReader(`{"customer_id":"1","from":"2024-02-01","to":"2024-01-01"}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSelectCustomerRejectsBadDate(t *testing.T) {
	handler, _ := newTestHandler(t, backoffice.Gateways{}, nil)
	rr := serve(t, handler, http.MethodPut, "/selection/customer", strings.NewReader(`{"customer_id":"1","from":"01/02/2024"}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSelectForeignAccount(t *testing.T) {
	handler, _ := newTestHandler(t, selectedCustomerGateways(stubMovementGateway{}), nil)

	rr := serve(t, handler, http.MethodPut, "/selection/customer", strings.NewReader(`{"customer_id":"1"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	rr = serve(t, handler, http.MethodPut, "/selection/account", strings.NewReader(`{"number":"999999"}`))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	rr = serve(t, handler, http.MethodPut, "/selection/account", strings.NewReader(`{"number":"478758"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestClearCustomerEmptiesDependents(t *testing.T) {
	handler, workspace := newTestHandler(t, selectedCustomerGateways(stubMovementGateway{}), nil)

	rr := serve(t, handler, http.MethodPut, "/selection/customer", strings.NewReader(`{"customer_id":"1"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if workspace.CustomerAccounts().Len() != 1 {
		t.Fatalf("expected customer accounts to load")
	}
	rr = serve(t, handler, http.MethodDelete, "/selection/customer", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if workspace.CustomerAccounts().Len() != 0 {
		t.Fatalf("expected customer accounts to be cleared")
	}
	var selection selectionBody
	if err := json.NewDecoder(rr.Body).Decode(&selection); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !selection.CustomerID.IsZero() || selection.CustomerAccounts != reloader.Idle.String() {
		t.Fatalf("unexpected selection: %#v", selection)
	}
}

func TestListAuditLogs(t *testing.T) {
	var gotLimit, gotOffset int
	handler, _ := newTestHandler(t, backoffice.Gateways{}, stubAuditReader{
		listFn: func(_ context.Context, limit, offset int) ([]store.AuditEntry, error) {
			gotLimit, gotOffset = limit, offset
			return []store.AuditEntry{{ID: "a1", Action: "create", EntityType: "customer"}}, nil
		},
	})

	rr := serve(t, handler, http.MethodGet, "/audit?limit=10&page=3", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotLimit != 10 || gotOffset != 20 {
		t.Fatalf("unexpected paging limit=%d offset=%d", gotLimit, gotOffset)
	}
}

func TestListAuditLogsDisabled(t *testing.T) {
	handler, _ := newTestHandler(t, backoffice.Gateways{}, nil)
	rr := serve(t, handler, http.MethodGet, "/audit", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCatalog(t *testing.T) {
	handler, _ := newTestHandler(t, backoffice.Gateways{}, nil)
	rr := serve(t, handler, http.MethodGet, "/catalog", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string][]models.Option
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload["movement_types"]) != 2 {
		t.Fatalf("unexpected catalog: %#v", payload)
	}
}
