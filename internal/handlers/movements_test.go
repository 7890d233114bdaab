package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"backoffice/internal/backoffice"
	"backoffice/internal/gateway"
	"backoffice/internal/models"

	"github.com/shopspring/decimal"
)

func selectedCustomerGateways(movements stubMovementGateway) backoffice.Gateways {
	return backoffice.Gateways{
		Accounts: stubAccountGateway{
			listFn: func(context.Context) ([]models.Account, error) {
				return []models.Account{{Number: "478758", CustomerID: "1", Balance: decimal.NewFromInt(2000)}}, nil
			},
			listByCustomerFn: func(_ context.Context, id models.ID) ([]models.Account, error) {
				return []models.Account{{Number: "478758", CustomerID: id, Balance: decimal.NewFromInt(2000)}}, nil
			},
			getFn: func(_ context.Context, number string) (models.Account, error) {
				return models.Account{Number: number, CustomerID: "1", Balance: decimal.NewFromInt(1425)}, nil
			},
		},
		Movements: movements,
	}
}

func TestCreateMovementJoinsSelection(t *testing.T) {
	var sent models.MovementInput
	handler, workspace := newTestHandler(t, selectedCustomerGateways(stubMovementGateway{
		createFn: func(_ context.Context, in models.MovementInput) (models.Movement, error) {
			sent = in
			return models.Movement{ID: "15", AccountRef: in.AccountNumber, Type: in.Type, Amount: in.Amount, Balance: decimal.NewFromInt(1425)}, nil
		},
	}), nil)

	rr := serve(t, handler, http.MethodPut, "/selection/customer", strings.NewReader(`{"customer_id":"1"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 selecting customer, got %d", rr.Code)
	}

	rr = serve(t, handler, http.MethodPost, "/movements", strings.NewReader(`{"account_number":"478758","type":"debito","amount":"575.00"}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if sent.Type != models.MovementDebit || !sent.Amount.Equal(decimal.NewFromInt(575)) {
		t.Fatalf("unexpected input sent: %#v", sent)
	}

	rr = serve(t, handler, http.MethodGet, "/movements", nil)
	var payload []models.Movement
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0].ID != "15" {
		t.Fatalf("unexpected movements: %#v", payload)
	}

	account, ok := workspace.AccountCollection().Get("478758")
	if !ok || !account.Balance.Equal(decimal.NewFromInt(1425)) {
		t.Fatalf("expected refreshed balance, got %#v", account)
	}
}

func TestCreateMovementPassesBackendRejection(t *testing.T) {
	handler, _ := newTestHandler(t, selectedCustomerGateways(stubMovementGateway{
		createFn: func(context.Context, models.MovementInput) (models.Movement, error) {
			return models.Movement{}, &gateway.Error{Op: "movements.Create", Status: http.StatusPreconditionFailed, Message: "Saldo insuficiente"}
		},
	}), nil)

	rr := serve(t, handler, http.MethodPost, "/movements", strings.NewReader(`{"account_number":"478758","type":"DEBITO","amount":5000}`))
	if rr.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d", rr.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["error"] != "Saldo insuficiente" {
		t.Fatalf("unexpected error %q", payload["error"])
	}
}

func TestCreateMovementRejectsZeroAmount(t *testing.T) {
	handler, _ := newTestHandler(t, backoffice.Gateways{}, nil)
	rr := serve(t, handler, http.MethodPost, "/movements", strings.NewReader(`{"account_number":"478758","type":"CREDITO","amount":0}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestListMovementsByAccount(t *testing.T) {
	handler, _ := newTestHandler(t, selectedCustomerGateways(stubMovementGateway{
		listByCustomerFn: func(context.Context, models.MovementFilter) ([]models.Movement, error) {
			return []models.Movement{
				{ID: "1", AccountRef: "478758", Type: models.MovementCredit, Amount: decimal.NewFromInt(10)},
				{ID: "2", AccountRef: "225487", Type: models.MovementDebit, Amount: decimal.NewFromInt(5)},
			}, nil
		},
	}), nil)

	rr := serve(t, handler, http.MethodPut, "/selection/customer", strings.NewReader(`{"customer_id":"1"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 selecting customer, got %d", rr.Code)
	}
	rr = serve(t, handler, http.MethodGet, "/movements?account=478758", nil)
	var payload []models.Movement
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0].ID != "1" {
		t.Fatalf("unexpected movements: %#v", payload)
	}
}

func TestDeleteMovement(t *testing.T) {
	deleted := ""
	handler, _ := newTestHandler(t, backoffice.Gateways{
		Movements: stubMovementGateway{
			deleteFn: func(_ context.Context, id models.ID) error {
				deleted = id.String()
				return nil
			},
		},
	}, nil)
	rr := serve(t, handler, http.MethodDelete, "/movements/15", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if deleted != "15" {
		t.Fatalf("unexpected deleted id %q", deleted)
	}
}
