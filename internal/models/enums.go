package models

import "strings"

type Gender string

const (
	GenderMasculine Gender = "MASCULINO"
	GenderFeminine  Gender = "FEMENINO"
	GenderOther     Gender = "OTRO"
)

// ParseGender accepts any casing ("Masculino", "MASCULINO").
func ParseGender(raw string) (Gender, bool) {
	switch g := Gender(strings.ToUpper(strings.TrimSpace(raw))); g {
	case GenderMasculine, GenderFeminine, GenderOther:
		return g, true
	}
	return "", false
}

type AccountType string

const (
	AccountSavings  AccountType = "AHORRO"
	AccountChecking AccountType = "CORRIENTE"
	AccountDeposit  AccountType = "DEPOSITO"
)

func ParseAccountType(raw string) (AccountType, bool) {
	switch t := AccountType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case AccountSavings, AccountChecking, AccountDeposit:
		return t, true
	}
	return "", false
}

type MovementType string

const (
	MovementDebit  MovementType = "DEBITO"
	MovementCredit MovementType = "CREDITO"
)

func ParseMovementType(raw string) (MovementType, bool) {
	switch t := MovementType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case MovementDebit, MovementCredit:
		return t, true
	}
	return "", false
}

// Option is a selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func AccountTypes() []Option {
	return []Option{
		{Value: string(AccountSavings), Label: "Cuenta de Ahorro"},
		{Value: string(AccountChecking), Label: "Cuenta Corriente"},
		{Value: string(AccountDeposit), Label: "Depósito"},
	}
}

func MovementTypes() []Option {
	return []Option{
		{Value: string(MovementDebit), Label: "Débito"},
		{Value: string(MovementCredit), Label: "Crédito"},
	}
}

