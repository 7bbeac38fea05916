package models

import (
	"fmt"
	"time"

	"github.com/yashasviy/split-payments-api/session"
	"github.com/yashasviy/split-payments-api/split"
)

// CreateSessionRequest starts a split payment. Accounts are taken inline
// when present, otherwise loaded for OwnerID.
type CreateSessionRequest struct {
	OwnerID  string          `json:"owner_id"`
	Accounts []split.Account `json:"accounts"`
}

// ActionRequest is one tagged form edit, e.g.
// {"type":"SET_ACCOUNT_PAYMENT","id":"Savings","value":"25"}.
type ActionRequest struct {
	Type     string          `json:"type"`
	ID       string          `json:"id,omitempty"`
	Value    string          `json:"value,omitempty"`
	Accounts []split.Account `json:"accounts,omitempty"`
}

// Action converts the request into a typed action. An unknown tag is a
// contract violation.
func (r ActionRequest) Action() (split.Action, error) {
	switch split.Kind(r.Type) {
	case split.KindSetAccountNumber:
		return split.SetAccountNumber{Value: r.Value}, nil
	case split.KindSetConfirmAccountNumber:
		return split.SetConfirmAccountNumber{Value: r.Value}, nil
	case split.KindSetRoutingNumber:
		return split.SetRoutingNumber{Value: r.Value}, nil
	case split.KindSetAccountType:
		return split.SetAccountType{Value: split.AccountType(r.Value)}, nil
	case split.KindSetPaymentAmount:
		return split.SetPaymentAmount{Value: r.Value}, nil
	case split.KindToggleAccount:
		return split.ToggleAccount{ID: r.ID}, nil
	case split.KindSetAccountPayment:
		return split.SetAccountPayment{ID: r.ID, Value: r.Value}, nil
	case split.KindPopulateAccounts:
		return split.PopulateAccounts{Accounts: r.Accounts}, nil
	case split.KindRecalculate:
		return split.Recalculate{}, nil
	}
	return nil, fmt.Errorf("%w: %q", split.ErrUnknownAction, r.Type)
}

// SessionResponse is the snapshot returned after every request.
type SessionResponse struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id,omitempty"`
	Version   int64           `json:"version"`
	ExpiresAt time.Time       `json:"expires_at"`
	Form      split.FormState `json:"form"`
	Summary   split.Summary   `json:"summary"`
}

func NewSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		Version:   s.Version,
		ExpiresAt: s.ExpiresAt,
		Form:      s.State,
		Summary:   split.Summarize(s.State),
	}
}

// Allocation is one destination line of a completed split.
type Allocation struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// CompletedPayment is handed back to the host application when a session is
// completed. Executing the payment is the host's job.
type CompletedPayment struct {
	SessionID     string            `json:"session_id"`
	AccountNumber string            `json:"account_number"`
	RoutingNumber string            `json:"routing_number"`
	AccountType   split.AccountType `json:"account_type"`
	Amount        float64           `json:"amount"`
	Allocations   []Allocation      `json:"allocations"`
}

func NewCompletedPayment(s *session.Session) CompletedPayment {
	form := s.State
	p := CompletedPayment{
		SessionID:     s.ID,
		AccountNumber: form.AccountNumber.Value,
		RoutingNumber: form.RoutingNumber.Value,
		AccountType:   form.AccountType.Value,
		Amount:        split.AllocatedTotal(form.Accounts),
	}
	for _, account := range form.Accounts {
		if account.Enabled && account.Amount != nil {
			p.Allocations = append(p.Allocations, Allocation{Name: account.Name, Amount: split.Round(*account.Amount)})
		}
	}
	return p
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
