package split

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Messages shown next to the offending field.
const (
	MsgTooShort             = "too short"
	MsgTooLong              = "too long"
	MsgDoesNotMatch         = "does not match"
	MsgBlank                = "can not be left blank"
	MsgInvalidRoutingNumber = "not a valid routing number"
	MsgSelectAccountType    = "select an account type"
	MsgPaymentNotPositive   = "must be greater than zero"
	MsgAccountNotPositive   = "must be greater than 0"
	MsgInsufficientFunds    = "insufficient funds"
)

const (
	minAccountNumberLen = 3
	maxAccountNumberLen = 17
)

// ValidateAccountNumber checks the destination account number length.
func ValidateAccountNumber(v string) string {
	switch n := utf8.RuneCountInString(v); {
	case n < minAccountNumberLen:
		return MsgTooShort
	case n > maxAccountNumberLen:
		return MsgTooLong
	}
	return ""
}

// ValidateConfirmAccountNumber checks the confirmation against the current
// account number.
func ValidateConfirmAccountNumber(accountNumber, confirm string) string {
	if confirm == "" {
		return MsgBlank
	}
	if confirm != accountNumber {
		return MsgDoesNotMatch
	}
	return ""
}

// RoutingRule validates a routing number and returns its error message.
type RoutingRule func(v string) string

// Published test routing numbers accepted by RoutingWhitelist.
var testRoutingNumbers = map[string]struct{}{
	"021000021": {},
	"011401533": {},
	"091000019": {},
}

// RoutingWhitelist accepts only the published test routing numbers.
func RoutingWhitelist(v string) string {
	if _, ok := testRoutingNumbers[v]; !ok {
		return MsgInvalidRoutingNumber
	}
	return ""
}

var abaWeights = [9]int{3, 7, 1, 3, 7, 1, 3, 7, 1}

// RoutingChecksum accepts any nine digit ABA routing number whose weighted
// 3-7-1 digit sum is a multiple of ten.
func RoutingChecksum(v string) string {
	if len(v) != 9 || v == "000000000" {
		return MsgInvalidRoutingNumber
	}
	total := 0
	for i := 0; i < len(v); i++ {
		d := v[i]
		if d < '0' || d > '9' {
			return MsgInvalidRoutingNumber
		}
		total += int(d-'0') * abaWeights[i]
	}
	if total%10 != 0 {
		return MsgInvalidRoutingNumber
	}
	return ""
}

// RoutingRuleByName resolves "whitelist" or "checksum".
func RoutingRuleByName(name string) (RoutingRule, error) {
	switch name {
	case "", "whitelist":
		return RoutingWhitelist, nil
	case "checksum":
		return RoutingChecksum, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRouting, name)
}

// ValidateAccountType accepts Checking and Savings.
func ValidateAccountType(v AccountType) string {
	if v != Checking && v != Savings {
		return MsgSelectAccountType
	}
	return ""
}

// ValidatePaymentAmount checks a total against the balance of every account,
// selected or not.
func ValidatePaymentAmount(accounts []AccountEntry, value float64) string {
	if math.IsNaN(value) || value <= 0 {
		return MsgPaymentNotPositive
	}
	if value > TotalBalance(accounts) {
		return MsgInsufficientFunds
	}
	return ""
}

// ValidateAccountPayment checks one line item against its own balance. A
// non-positive amount is reported before insufficient funds.
func ValidateAccountPayment(balance, value float64) string {
	if math.IsNaN(value) || value <= 0 {
		return MsgAccountNotPositive
	}
	if value > balance {
		return MsgInsufficientFunds
	}
	return ""
}
