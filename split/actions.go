package split

// Kind is the wire tag of an Action.
type Kind string

const (
	KindSetAccountNumber        Kind = "SET_ACCOUNT_NUMBER"
	KindSetConfirmAccountNumber Kind = "SET_CONFIRM_ACCOUNT_NUMBER"
	KindSetRoutingNumber        Kind = "SET_ROUTING_NUMBER"
	KindSetAccountType          Kind = "SET_ACCOUNT_TYPE"
	KindSetPaymentAmount        Kind = "SET_PAYMENT_AMOUNT"
	KindToggleAccount           Kind = "TOGGLE_ACCOUNT"
	KindSetAccountPayment       Kind = "SET_ACCOUNT_PAYMENT"
	KindPopulateAccounts        Kind = "POPULATE_ACCOUNTS"
	KindRecalculate             Kind = "RECALCULATE"
)

// Action is one edit of the form. The set is closed: only the types in this
// file implement it.
type Action interface {
	Kind() Kind
	action()
}

type SetAccountNumber struct{ Value string }

type SetConfirmAccountNumber struct{ Value string }

type SetRoutingNumber struct{ Value string }

type SetAccountType struct{ Value AccountType }

// SetPaymentAmount is a direct edit of the total. Line items follow it.
type SetPaymentAmount struct{ Value string }

// ToggleAccount flips whether the named account takes part in the split.
type ToggleAccount struct{ ID string }

// SetAccountPayment is a direct edit of one line item. The total follows it.
type SetAccountPayment struct {
	ID    string
	Value string
}

// PopulateAccounts replaces the account list. Used when a session starts.
type PopulateAccounts struct{ Accounts []Account }

// Recalculate reconciles totals in the direction of the last edit.
type Recalculate struct{}

func (SetAccountNumber) Kind() Kind        { return KindSetAccountNumber }
func (SetConfirmAccountNumber) Kind() Kind { return KindSetConfirmAccountNumber }
func (SetRoutingNumber) Kind() Kind        { return KindSetRoutingNumber }
func (SetAccountType) Kind() Kind          { return KindSetAccountType }
func (SetPaymentAmount) Kind() Kind        { return KindSetPaymentAmount }
func (ToggleAccount) Kind() Kind           { return KindToggleAccount }
func (SetAccountPayment) Kind() Kind       { return KindSetAccountPayment }
func (PopulateAccounts) Kind() Kind        { return KindPopulateAccounts }
func (Recalculate) Kind() Kind             { return KindRecalculate }

func (SetAccountNumber) action()        {}
func (SetConfirmAccountNumber) action() {}
func (SetRoutingNumber) action()        {}
func (SetAccountType) action()          {}
func (SetPaymentAmount) action()        {}
func (ToggleAccount) action()           {}
func (SetAccountPayment) action()       {}
func (PopulateAccounts) action()        {}
func (Recalculate) action()             {}
