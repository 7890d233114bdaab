package gateway

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
)

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexInt(v)
	return nil
}

// flexTime accepts the timestamp shapes the backend emits: ISO local date
// time without zone, RFC 3339, or a plain date. Anything else is zero.
type flexTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateLayout,
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = parseTime(raw)
	return nil
}

func parseTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func (t flexTime) ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

func firstID(ids ...models.ID) models.ID {
	for _, id := range ids {
		if !id.IsZero() {
			return id
		}
	}
	return ""
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

type customerWire struct {
	ClienteID      models.ID `json:"clienteId"`
	ID             models.ID `json:"id"`
	Nombre         string    `json:"nombre"`
	Genero         string    `json:"genero"`
	Edad           flexInt   `json:"edad"`
	Identificacion string    `json:"identificacion"`
	Direccion      string    `json:"direccion"`
	Telefono       string    `json:"telefono"`
	Contrasena     string    `json:"contrasena"`
	Estado         *bool     `json:"estado"`
}

func (w customerWire) model() models.Customer {
	gender, _ := models.ParseGender(w.Genero)
	return models.Customer{
		ID:         firstID(w.ClienteID, w.ID),
		Name:       w.Nombre,
		Gender:     gender,
		Age:        int(w.Edad),
		NationalID: w.Identificacion,
		Address:    w.Direccion,
		Phone:      w.Telefono,
		Password:   w.Contrasena,
		Active:     boolOr(w.Estado, true),
	}
}

type customerRequest struct {
	Nombre         string `json:"nombre"`
	Genero         string `json:"genero"`
	Edad           int    `json:"edad"`
	Identificacion string `json:"identificacion"`
	Direccion      string `json:"direccion"`
	Telefono       string `json:"telefono"`
	Contrasena     string `json:"contrasena,omitempty"`
	Estado         bool   `json:"estado"`
}

func newCustomerRequest(c models.Customer) customerRequest {
	return customerRequest{
		Nombre:         c.Name,
		Genero:         string(c.Gender),
		Edad:           c.Age,
		Identificacion: c.NationalID,
		Direccion:      c.Address,
		Telefono:       c.Phone,
		Contrasena:     c.Password,
		Estado:         c.Active,
	}
}

type accountWire struct {
	ID                 models.ID           `json:"id"`
	CuentaID           models.ID           `json:"cuentaId"`
	NumeroCuenta       string              `json:"numeroCuenta"`
	TipoCuenta         string              `json:"tipoCuenta"`
	SaldoInicial       decimal.NullDecimal `json:"saldoInicial"`
	Saldo              decimal.NullDecimal `json:"saldo"`
	Estado             *bool               `json:"estado"`
	ClienteID          models.ID           `json:"clienteId"`
	FechaCreacion      flexTime            `json:"fechaCreacion"`
	FechaActualizacion flexTime            `json:"fechaActualizacion"`
}

func (w accountWire) model() models.Account {
	accountType, _ := models.ParseAccountType(w.TipoCuenta)
	opening := w.SaldoInicial.Decimal
	balance := opening
	if w.Saldo.Valid {
		balance = w.Saldo.Decimal
	}
	return models.Account{
		ID:             firstID(w.ID, w.CuentaID),
		Number:         strings.TrimSpace(w.NumeroCuenta),
		Type:           accountType,
		OpeningBalance: opening,
		Balance:        balance,
		Active:         boolOr(w.Estado, true),
		CustomerID:     w.ClienteID,
		CreatedAt:      w.FechaCreacion.ptr(),
		UpdatedAt:      w.FechaActualizacion.ptr(),
	}
}

// Request amounts travel as JSON numbers; the backend binds them to doubles.
type accountCreateRequest struct {
	NumeroCuenta string    `json:"numeroCuenta"`
	TipoCuenta   string    `json:"tipoCuenta"`
	SaldoInicial float64   `json:"saldoInicial"`
	Estado       bool      `json:"estado"`
	ClienteID    models.ID `json:"clienteId"`
}

// accountUpdateRequest omits type and owner: both are fixed once the
// account exists.
type accountUpdateRequest struct {
	NumeroCuenta string  `json:"numeroCuenta"`
	SaldoInicial float64 `json:"saldoInicial"`
	Estado       bool    `json:"estado"`
}

type movementWire struct {
	MovimientoID   models.ID           `json:"movimientoId"`
	ID             models.ID           `json:"id"`
	NumeroCuenta   string              `json:"numeroCuenta"`
	CuentaID       models.ID           `json:"cuentaId"`
	TipoMovimiento string              `json:"tipoMovimiento"`
	Valor          decimal.NullDecimal `json:"valor"`
	Saldo          decimal.NullDecimal `json:"saldo"`
	Fecha          flexTime            `json:"fecha"`
	ClienteID      models.ID           `json:"clienteId"`
	Descripcion    string              `json:"descripcion"`
}

func (w movementWire) model() models.Movement {
	movementType, ok := models.ParseMovementType(w.TipoMovimiento)
	if !ok && w.Valor.Valid && w.Valor.Decimal.IsNegative() {
		movementType = models.MovementDebit
	}
	ref := strings.TrimSpace(w.NumeroCuenta)
	if ref == "" {
		ref = w.CuentaID.String()
	}
	return models.Movement{
		ID:          firstID(w.MovimientoID, w.ID),
		AccountRef:  ref,
		Type:        movementType,
		Amount:      w.Valor.Decimal.Abs(),
		Balance:     w.Saldo.Decimal,
		Timestamp:   w.Fecha.Time,
		CustomerID:  w.ClienteID,
		Description: w.Descripcion,
	}
}

type movementRequest struct {
	NumeroCuenta   string  `json:"numeroCuenta"`
	TipoMovimiento string  `json:"tipoMovimiento"`
	Valor          float64 `json:"valor"`
	Descripcion    string  `json:"descripcion,omitempty"`
}

type reportWire struct {
	PDFBase64       string    `json:"pdfBase64"`
	Contenido       string    `json:"contenido"`
	Formato         string    `json:"formato"`
	ClienteID       models.ID `json:"clienteId"`
	Nombre          string    `json:"nombre"`
	Identificacion  string    `json:"identificacion"`
	FechaGeneracion flexTime  `json:"fechaGeneracion"`
}

func mapAll[W any, M any](in []W, fn func(W) M) []M {
	out := make([]M, 0, len(in))
	for _, w := range in {
		out = append(out, fn(w))
	}
	return out
}
