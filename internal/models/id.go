package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ID is a server identifier normalized to text. The backend emits numeric
// keys for some entities and strings for others; both land here.
type ID string

func (id ID) String() string { return string(id) }

// IsZero reports an unassigned identifier.
func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("models.ID: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// IDOf converts the loosely typed identifiers found in payloads and route
// parameters into an ID.
func IDOf(value any) ID {
	switch v := value.(type) {
	case nil:
		return ""
	case ID:
		return ID(strings.TrimSpace(string(v)))
	case string:
		return ID(strings.TrimSpace(v))
	case *string:
		if v == nil {
			return ""
		}
		return ID(strings.TrimSpace(*v))
	case []byte:
		return ID(strings.TrimSpace(string(v)))
	case json.Number:
		return ID(v.String())
	case int:
		return ID(strconv.Itoa(v))
	case int32:
		return ID(strconv.FormatInt(int64(v), 10))
	case int64:
		return ID(strconv.FormatInt(v, 10))
	case uint:
		return ID(strconv.FormatUint(uint64(v), 10))
	case uint32:
		return ID(strconv.FormatUint(uint64(v), 10))
	case uint64:
		return ID(strconv.FormatUint(v, 10))
	case float32:
		return ID(strconv.FormatFloat(float64(v), 'f', -1, 32))
	case float64:
		return ID(strconv.FormatFloat(v, 'f', -1, 64))
	case fmt.Stringer:
		return ID(strings.TrimSpace(v.String()))
	default:
		return ID(strings.TrimSpace(fmt.Sprint(v)))
	}
}

// SameID compares two identifiers of possibly different representation.
// Numeric text compares by value, so "7", 7 and 7.0 are equal.
func SameID(a, b any) bool {
	left, right := IDOf(a), IDOf(b)
	if left.IsZero() || right.IsZero() {
		return false
	}
	if left == right {
		return true
	}
	ld, lerr := decimal.NewFromString(string(left))
	rd, rerr := decimal.NewFromString(string(right))
	if lerr != nil || rerr != nil {
		return false
	}
	return ld.Equal(rd)
}
