package models

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestIDUnmarshalNumberAndString(t *testing.T) {
	var payload struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 7, "b": " 12 ", "c": null}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.A != "7" || payload.B != "12" || !payload.C.IsZero() {
		t.Fatalf("unexpected ids: %#v", payload)
	}
}

func TestSameIDIsTypeCoercive(t *testing.T) {
	cases := []struct {
		a, b any
		want bool
	}{
		{"7", 7, true},
		{ID("7"), int64(7), true},
		{7.0, "7", true},
		{"07", 7, true},
		{"1001-2023-001", "1001-2023-001", true},
		{"7", 8, false},
		{"", "", false},
		{nil, 0, false},
		{"abc", "ABC", false},
	}
	for _, tc := range cases {
		if got := SameID(tc.a, tc.b); got != tc.want {
			t.Fatalf("SameID(%#v, %#v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestParseEnumsIgnoreCase(t *testing.T) {
	if g, ok := ParseGender("Femenino"); !ok || g != GenderFeminine {
		t.Fatalf("unexpected gender: %q %v", g, ok)
	}
	if _, ok := ParseAccountType("plazo"); ok {
		t.Fatalf("expected unknown account type")
	}
	if m, ok := ParseMovementType(" credito "); !ok || m != MovementCredit {
		t.Fatalf("unexpected movement type: %q %v", m, ok)
	}
}

func TestReportPDF(t *testing.T) {
	raw := []byte("%PDF-1.4 test")
	encoded := base64.StdEncoding.EncodeToString(raw)

	for _, content := range []string{encoded, "data:application/pdf;base64," + encoded} {
		got, err := Report{Content: content}.PDF()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != string(raw) {
			t.Fatalf("unexpected payload: %q", got)
		}
	}
	if _, err := (Report{}).PDF(); err != ErrEmptyReport {
		t.Fatalf("expected ErrEmptyReport, got %v", err)
	}
}
