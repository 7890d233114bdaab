package gateway

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"backoffice/internal/models"
)

type CustomerGateway struct {
	client *Client
}

func NewCustomerGateway(client *Client) *CustomerGateway {
	return &CustomerGateway{client: client}
}

func (g *CustomerGateway) List(ctx context.Context) ([]models.Customer, error) {
	var rows []customerWire
	if err := g.client.do(ctx, "customers.List", http.MethodGet, "/clientes", nil, nil, &rows); err != nil {
		return nil, err
	}
	return mapAll(rows, customerWire.model), nil
}

func (g *CustomerGateway) Get(ctx context.Context, id models.ID) (models.Customer, error) {
	var row customerWire
	if err := g.client.do(ctx, "customers.Get", http.MethodGet, "/clientes/"+escape(id.String()), nil, nil, &row); err != nil {
		return models.Customer{}, err
	}
	return row.model(), nil
}

func (g *CustomerGateway) Create(ctx context.Context, customer models.Customer) (models.Customer, error) {
	var row customerWire
	if err := g.client.do(ctx, "customers.Create", http.MethodPost, "/clientes", nil, newCustomerRequest(customer), &row); err != nil {
		return models.Customer{}, err
	}
	return row.model(), nil
}

func (g *CustomerGateway) Update(ctx context.Context, id models.ID, customer models.Customer) (models.Customer, error) {
	var row customerWire
	if err := g.client.do(ctx, "customers.Update", http.MethodPut, "/clientes/"+escape(id.String()), nil, newCustomerRequest(customer), &row); err != nil {
		return models.Customer{}, err
	}
	out := row.model()
	if out.ID.IsZero() {
		out.ID = id
	}
	return out, nil
}

func (g *CustomerGateway) Delete(ctx context.Context, id models.ID) error {
	return g.client.do(ctx, "customers.Delete", http.MethodDelete, "/clientes/"+escape(id.String()), nil, nil, nil)
}

type AccountGateway struct {
	client *Client
}

func NewAccountGateway(client *Client) *AccountGateway {
	return &AccountGateway{client: client}
}

func (g *AccountGateway) List(ctx context.Context) ([]models.Account, error) {
	var rows []accountWire
	if err := g.client.do(ctx, "accounts.List", http.MethodGet, "/cuentas", nil, nil, &rows); err != nil {
		return nil, err
	}
	return mapAll(rows, accountWire.model), nil
}

func (g *AccountGateway) Get(ctx context.Context, number string) (models.Account, error) {
	var row accountWire
	if err := g.client.do(ctx, "accounts.Get", http.MethodGet, "/cuentas/cuenta/"+escape(number), nil, nil, &row); err != nil {
		return models.Account{}, err
	}
	return row.model(), nil
}

func (g *AccountGateway) ListByCustomer(ctx context.Context, customerID models.ID) ([]models.Account, error) {
	var rows []accountWire
	if err := g.client.do(ctx, "accounts.ListByCustomer", http.MethodGet, "/cuentas/cliente/"+escape(customerID.String()), nil, nil, &rows); err != nil {
		return nil, err
	}
	return mapAll(rows, accountWire.model), nil
}

func (g *AccountGateway) Create(ctx context.Context, account models.Account) (models.Account, error) {
	req := accountCreateRequest{
		NumeroCuenta: account.Number,
		TipoCuenta:   string(account.Type),
		SaldoInicial: account.OpeningBalance.InexactFloat64(),
		Estado:       account.Active,
		ClienteID:    account.CustomerID,
	}
	var row accountWire
	if err := g.client.do(ctx, "accounts.Create", http.MethodPost, "/cuentas", nil, req, &row); err != nil {
		return models.Account{}, err
	}
	return row.model(), nil
}

func (g *AccountGateway) Update(ctx context.Context, number string, account models.Account) (models.Account, error) {
	req := accountUpdateRequest{
		NumeroCuenta: number,
		SaldoInicial: account.OpeningBalance.InexactFloat64(),
		Estado:       account.Active,
	}
	var row accountWire
	if err := g.client.do(ctx, "accounts.Update", http.MethodPut, "/cuentas/cuenta/"+escape(number), nil, req, &row); err != nil {
		return models.Account{}, err
	}
	out := row.model()
	if out.Number == "" {
		out.Number = number
	}
	return out, nil
}

func (g *AccountGateway) Delete(ctx context.Context, number string) error {
	return g.client.do(ctx, "accounts.Delete", http.MethodDelete, "/cuentas/cuenta/"+escape(number), nil, nil, nil)
}

type MovementGateway struct {
	client *Client
}

func NewMovementGateway(client *Client) *MovementGateway {
	return &MovementGateway{client: client}
}

func (g *MovementGateway) ListByCustomer(ctx context.Context, filter models.MovementFilter) ([]models.Movement, error) {
	query := dateRange(filter.From, filter.To, "fechaInicio", "fechaFin")
	var rows []movementWire
	if err := g.client.do(ctx, "movements.ListByCustomer", http.MethodGet, "/movimientos/cliente/"+escape(filter.CustomerID.String()), query, nil, &rows); err != nil {
		return nil, err
	}
	movements := mapAll(rows, movementWire.model)
	for i := range movements {
		if movements[i].CustomerID.IsZero() {
			movements[i].CustomerID = filter.CustomerID
		}
	}
	return movements, nil
}

func (g *MovementGateway) ListByAccount(ctx context.Context, number string) ([]models.Movement, error) {
	var rows []movementWire
	if err := g.client.do(ctx, "movements.ListByAccount", http.MethodGet, "/movimientos/cuenta/"+escape(number), nil, nil, &rows); err != nil {
		return nil, err
	}
	return mapAll(rows, movementWire.model), nil
}

func (g *MovementGateway) Get(ctx context.Context, id models.ID) (models.Movement, error) {
	var row movementWire
	if err := g.client.do(ctx, "movements.Get", http.MethodGet, "/movimientos/"+escape(id.String()), nil, nil, &row); err != nil {
		return models.Movement{}, err
	}
	return row.model(), nil
}

func (g *MovementGateway) Create(ctx context.Context, input models.MovementInput) (models.Movement, error) {
	req := movementRequest{
		NumeroCuenta:   input.AccountNumber,
		TipoMovimiento: string(input.Type),
		Valor:          input.Amount.InexactFloat64(),
		Descripcion:    input.Description,
	}
	var row movementWire
	if err := g.client.do(ctx, "movements.Create", http.MethodPost, "/movimientos", nil, req, &row); err != nil {
		return models.Movement{}, err
	}
	out := row.model()
	if out.AccountRef == "" {
		out.AccountRef = input.AccountNumber
	}
	if out.Type == "" {
		out.Type = input.Type
	}
	if out.Description == "" {
		out.Description = input.Description
	}
	return out, nil
}

func (g *MovementGateway) Delete(ctx context.Context, id models.ID) error {
	return g.client.do(ctx, "movements.Delete", http.MethodDelete, "/movimientos/"+escape(id.String()), nil, nil, nil)
}

type ReportGateway struct {
	client *Client
}

func NewReportGateway(client *Client) *ReportGateway {
	return &ReportGateway{client: client}
}

// Statement fetches the PDF account statement for a customer.
func (g *ReportGateway) Statement(ctx context.Context, customerID models.ID, from, to *time.Time) (models.Report, error) {
	query := dateRange(from, to, "fechaInicio", "fechaFin")
	query.Set("formato", "pdf")
	query.Set("clienteId", customerID.String())

	var row reportWire
	if err := g.client.do(ctx, "reports.Statement", http.MethodGet, "/reportes/estado-cuenta", query, nil, &row); err != nil {
		return models.Report{}, err
	}
	content := row.PDFBase64
	if content == "" {
		content = row.Contenido
	}
	format := row.Formato
	if format == "" {
		format = "pdf"
	}
	generated := row.FechaGeneracion.Time
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	return models.Report{
		CustomerID:  firstID(row.ClienteID, customerID),
		Name:        row.Nombre,
		NationalID:  row.Identificacion,
		Content:     content,
		Format:      format,
		GeneratedAt: generated,
	}, nil
}

func dateRange(from, to *time.Time, fromKey, toKey string) url.Values {
	query := url.Values{}
	if from != nil && !from.IsZero() {
		query.Set(fromKey, from.Format(dateLayout))
	}
	if to != nil && !to.IsZero() {
		query.Set(toKey, to.Format(dateLayout))
	}
	return query
}
