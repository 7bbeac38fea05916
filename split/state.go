// Package split keeps a split payment form consistent: the total payment
// amount, the set of selected destination accounts and each account's share.
//
// Every edit is an Action applied by Transition to an explicit FormState
// value. Transition never mutates its input; it returns the next state or a
// contract violation error when the caller sent something the form cannot
// represent (an unknown account, an unknown action). User-input problems are
// never errors: they are stored as per-field messages in the state.
package split

import "fmt"

// AccountType is the kind of the external account receiving the payment.
type AccountType string

const (
	AccountTypeUnset AccountType = ""
	Checking         AccountType = "Checking"
	Savings          AccountType = "Savings"
)

// Account is a funding account as supplied by the host application.
type Account struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// AccountEntry is an Account as it participates in the split.
type AccountEntry struct {
	Account
	Enabled      bool     `json:"enabled"`
	Amount       *float64 `json:"amount,omitempty"`
	DisplayText  string   `json:"display_text"`
	ErrorMessage string   `json:"error_message"`
	IsValid      bool     `json:"is_valid"`
}

func (e AccountEntry) withAmount(amount *float64, text string) AccountEntry {
	e.Amount = amount
	e.DisplayText = text
	return e
}

func (e AccountEntry) withError(msg string) AccountEntry {
	e.ErrorMessage = msg
	e.IsValid = msg == ""
	return e
}

// FormField is one scalar input of the form. A field that was never edited
// is not valid.
type FormField[T any] struct {
	Value        T      `json:"value"`
	ErrorMessage string `json:"error_message"`
	IsValid      bool   `json:"is_valid"`
}

func validated[T any](value T, msg string) FormField[T] {
	return FormField[T]{Value: value, ErrorMessage: msg, IsValid: msg == ""}
}

// FormState is the whole split payment form.
type FormState struct {
	AccountNumber        FormField[string]      `json:"account_number"`
	ConfirmAccountNumber FormField[string]      `json:"confirm_account_number"`
	RoutingNumber        FormField[string]      `json:"routing_number"`
	AccountType          FormField[AccountType] `json:"account_type"`
	PaymentAmount        FormField[string]      `json:"payment_amount"`
	Accounts             []AccountEntry         `json:"accounts"`

	// ProrateOnNextRecalculation is true when the total is authoritative and
	// line items follow it, false when line items are and the total follows.
	ProrateOnNextRecalculation bool `json:"prorate_on_next_recalculation"`
}

// NewFormState seeds a form from the host's account list. All entries start
// disabled with no amount.
func NewFormState(accounts []Account) (FormState, error) {
	entries, err := newEntries(accounts)
	if err != nil {
		return FormState{}, err
	}
	return FormState{Accounts: entries, ProrateOnNextRecalculation: true}, nil
}

// Clone returns a copy that shares nothing mutable with s.
func (s FormState) Clone() FormState {
	if s.Accounts != nil {
		accounts := make([]AccountEntry, len(s.Accounts))
		copy(accounts, s.Accounts)
		s.Accounts = accounts
	}
	return s
}

func (s FormState) indexOf(name string) int {
	for i, account := range s.Accounts {
		if account.Name == name {
			return i
		}
	}
	return -1
}

func newEntries(accounts []Account) ([]AccountEntry, error) {
	seen := make(map[string]struct{}, len(accounts))
	entries := make([]AccountEntry, 0, len(accounts))
	for _, account := range accounts {
		if account.Name == "" {
			return nil, fmt.Errorf("%w: account name is empty", ErrInvalidAccount)
		}
		if !finite(account.Balance) || account.Balance < 0 {
			return nil, fmt.Errorf("%w: %q has balance %v", ErrInvalidAccount, account.Name, account.Balance)
		}
		if _, ok := seen[account.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAccount, account.Name)
		}
		seen[account.Name] = struct{}{}
		entries = append(entries, AccountEntry{Account: account})
	}
	return entries, nil
}
