package validator

import (
	"errors"
	"regexp"
	"strings"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidName          = errors.New("invalid name")
	ErrInvalidAge           = errors.New("customer must be an adult")
	ErrInvalidNationalID    = errors.New("invalid national id")
	ErrInvalidGender        = errors.New("invalid gender")
	ErrMissingContact       = errors.New("address and phone are required")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrInvalidAccountNumber = errors.New("invalid account number")
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrNegativeBalance      = errors.New("opening balance cannot be negative")
	ErrMissingCustomer      = errors.New("customer is required")
	ErrInvalidMovementType  = errors.New("invalid movement type")
	ErrInvalidAmount        = errors.New("amount must be at least 0.01")
)

const (
	MinNameLength = 3
	MinAge        = 18
)

var (
	nationalIDRegex    = regexp.MustCompile(`^[0-9A-Za-z]{5,20}$`)
	accountNumberRegex = regexp.MustCompile(`^[0-9][0-9-]{5,29}$`)
	phoneRegex         = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)

	minAmount = decimal.New(1, -2)
)

// ValidateCustomer checks a customer form. The password is only required
// when creating.
func ValidateCustomer(c models.Customer, creating bool) error {
	if len([]rune(strings.TrimSpace(c.Name))) < MinNameLength {
		return ErrInvalidName
	}
	if c.Age < MinAge {
		return ErrInvalidAge
	}
	if !nationalIDRegex.MatchString(strings.TrimSpace(c.NationalID)) {
		return ErrInvalidNationalID
	}
	if _, ok := models.ParseGender(string(c.Gender)); !ok {
		return ErrInvalidGender
	}
	if strings.TrimSpace(c.Address) == "" || !phoneRegex.MatchString(strings.TrimSpace(c.Phone)) {
		return ErrMissingContact
	}
	if creating && strings.TrimSpace(c.Password) == "" {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateAccountNumber(number string) error {
	if !accountNumberRegex.MatchString(strings.TrimSpace(number)) {
		return ErrInvalidAccountNumber
	}
	return nil
}

func ValidateAccount(a models.Account) error {
	if err := ValidateAccountNumber(a.Number); err != nil {
		return err
	}
	if _, ok := models.ParseAccountType(string(a.Type)); !ok {
		return ErrInvalidAccountType
	}
	if a.OpeningBalance.IsNegative() {
		return ErrNegativeBalance
	}
	if a.CustomerID.IsZero() {
		return ErrMissingCustomer
	}
	return nil
}

func ValidateMovement(in models.MovementInput) error {
	if err := ValidateAccountNumber(in.AccountNumber); err != nil {
		return err
	}
	if _, ok := models.ParseMovementType(string(in.Type)); !ok {
		return ErrInvalidMovementType
	}
	if in.Amount.LessThan(minAmount) {
		return ErrInvalidAmount
	}
	return nil
}

// IsValidation reports whether err is one of the form validation errors.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidName, ErrInvalidAge, ErrInvalidNationalID, ErrInvalidGender,
		ErrMissingContact, ErrInvalidPassword, ErrInvalidAccountNumber,
		ErrInvalidAccountType, ErrNegativeBalance, ErrMissingCustomer,
		ErrInvalidMovementType, ErrInvalidAmount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
