package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/money"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var errInvalidDate = errors.New("dates must use YYYY-MM-DD")

func parseAmount(raw json.Number) (decimal.Decimal, error) {
	return money.Parse(raw.String())
}

// parseDate returns nil for an empty value.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, errInvalidDate
	}
	return &parsed, nil
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
