package split

import (
	"fmt"
	"math"
)

// Reducer applies actions to a FormState.
type Reducer struct {
	routing RoutingRule
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithRoutingRule replaces the default routing number whitelist.
func WithRoutingRule(rule RoutingRule) Option {
	return func(r *Reducer) {
		if rule != nil {
			r.routing = rule
		}
	}
}

// NewReducer returns a Reducer validating routing numbers with
// RoutingWhitelist unless configured otherwise.
func NewReducer(opts ...Option) *Reducer {
	r := &Reducer{routing: RoutingWhitelist}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultReducer = NewReducer()

// Transition applies action to state with the default Reducer.
func Transition(state FormState, action Action) (FormState, error) {
	return defaultReducer.Transition(state, action)
}

// Transition returns the state that follows state after action. On error the
// returned state is state itself, unchanged.
func (r *Reducer) Transition(state FormState, action Action) (FormState, error) {
	next := state.Clone()
	var err error
	switch a := action.(type) {
	case SetAccountNumber:
		next = setAccountNumber(next, a)
	case SetConfirmAccountNumber:
		next.ConfirmAccountNumber = validated(a.Value, ValidateConfirmAccountNumber(next.AccountNumber.Value, a.Value))
	case SetRoutingNumber:
		next.RoutingNumber = validated(a.Value, r.routing(a.Value))
	case SetAccountType:
		next.AccountType = validated(a.Value, ValidateAccountType(a.Value))
	case SetPaymentAmount:
		next = setPaymentAmount(next, a)
	case ToggleAccount:
		next, err = toggleAccount(next, a)
	case SetAccountPayment:
		next, err = setAccountPayment(next, a)
	case PopulateAccounts:
		next, err = populateAccounts(next, a)
	case Recalculate:
		next = recalculate(next)
	case nil:
		err = fmt.Errorf("%w: nil action", ErrUnknownAction)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
	if err != nil {
		return state, err
	}
	return next, nil
}

func setAccountNumber(s FormState, a SetAccountNumber) FormState {
	s.AccountNumber = validated(a.Value, ValidateAccountNumber(a.Value))
	// The confirmation is only rechecked once the user has typed into it.
	if confirm := s.ConfirmAccountNumber.Value; confirm != "" {
		s.ConfirmAccountNumber = validated(confirm, ValidateConfirmAccountNumber(a.Value, confirm))
	}
	return s
}

func setPaymentAmount(s FormState, a SetPaymentAmount) FormState {
	value := ParseAmount(a.Value)
	msg := ValidatePaymentAmount(s.Accounts, value)
	s.PaymentAmount = validated(a.Value, msg)
	s.ProrateOnNextRecalculation = true

	switch msg {
	case MsgInsufficientFunds:
		return s
	case MsgPaymentNotPositive:
		value = math.NaN()
	}
	s.Accounts = Prorate(s.Accounts, value)
	return s
}

func toggleAccount(s FormState, a ToggleAccount) (FormState, error) {
	i := s.indexOf(a.ID)
	if i < 0 {
		return s, fmt.Errorf("%w: %q", ErrUnknownAccount, a.ID)
	}

	entry := s.Accounts[i]
	entry.Enabled = !entry.Enabled
	if !entry.Enabled {
		entry = entry.withAmount(nil, "").withError("")
	}
	s.Accounts[i] = entry
	s.ProrateOnNextRecalculation = true
	s.Accounts = Prorate(s.Accounts, paymentTotal(s))
	return s, nil
}

func setAccountPayment(s FormState, a SetAccountPayment) (FormState, error) {
	i := s.indexOf(a.ID)
	if i < 0 {
		return s, fmt.Errorf("%w: %q", ErrUnknownAccount, a.ID)
	}
	entry := s.Accounts[i]
	if !entry.Enabled {
		return s, fmt.Errorf("%w: %q", ErrAccountDisabled, a.ID)
	}

	value := ParseAmount(a.Value)
	var amount *float64
	if !math.IsNaN(value) {
		amount = &value
	}
	s.Accounts[i] = entry.withAmount(amount, a.Value).withError(ValidateAccountPayment(entry.Balance, value))
	s.ProrateOnNextRecalculation = false
	return syncTotal(s), nil
}

func populateAccounts(s FormState, a PopulateAccounts) (FormState, error) {
	entries, err := newEntries(a.Accounts)
	if err != nil {
		return s, err
	}
	s.Accounts = entries
	s.ProrateOnNextRecalculation = true
	return s, nil
}

func recalculate(s FormState) FormState {
	if s.ProrateOnNextRecalculation {
		s.Accounts = Prorate(s.Accounts, paymentTotal(s))
		return s
	}
	return syncTotal(s)
}

// syncTotal derives the total from the enabled line items.
func syncTotal(s FormState) FormState {
	total := AllocatedTotal(s.Accounts)
	s.PaymentAmount = validated(FormatAmount(total), ValidatePaymentAmount(s.Accounts, total))
	return s
}

// paymentTotal is the current payment amount the line items follow, NaN
// when the field holds no positive number. A total above the balance is
// still followed; the allocator flags the shares that exceed their account.
func paymentTotal(s FormState) float64 {
	total := ParseAmount(s.PaymentAmount.Value)
	if total <= 0 {
		return math.NaN()
	}
	return total
}
