package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashasviy/split-payments-api/session"
	"github.com/yashasviy/split-payments-api/split"
)

func TestActionRequest_Action(t *testing.T) {
	tests := []struct {
		body string
		want split.Action
	}{
		{body: `{"type":"SET_ACCOUNT_NUMBER","value":"123"}`, want: split.SetAccountNumber{Value: "123"}},
		{body: `{"type":"SET_CONFIRM_ACCOUNT_NUMBER","value":"123"}`, want: split.SetConfirmAccountNumber{Value: "123"}},
		{body: `{"type":"SET_ROUTING_NUMBER","value":"021000021"}`, want: split.SetRoutingNumber{Value: "021000021"}},
		{body: `{"type":"SET_ACCOUNT_TYPE","value":"Savings"}`, want: split.SetAccountType{Value: split.Savings}},
		{body: `{"type":"SET_PAYMENT_AMOUNT","value":"100"}`, want: split.SetPaymentAmount{Value: "100"}},
		{body: `{"type":"TOGGLE_ACCOUNT","id":"A"}`, want: split.ToggleAccount{ID: "A"}},
		{body: `{"type":"SET_ACCOUNT_PAYMENT","id":"A","value":"5"}`, want: split.SetAccountPayment{ID: "A", Value: "5"}},
		{
			body: `{"type":"POPULATE_ACCOUNTS","accounts":[{"name":"A","balance":10}]}`,
			want: split.PopulateAccounts{Accounts: []split.Account{{Name: "A", Balance: 10}}},
		},
		{body: `{"type":"RECALCULATE"}`, want: split.Recalculate{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.want.Kind()), func(t *testing.T) {
			var req ActionRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			got, err := req.Action()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActionRequest_UnknownType(t *testing.T) {
	_, err := ActionRequest{Type: "set_payment_amount"}.Action()

	assert.ErrorIs(t, err, split.ErrUnknownAction)
	assert.ErrorIs(t, err, split.ErrContractViolation)
}

func TestNewCompletedPayment(t *testing.T) {
	state, err := split.NewFormState([]split.Account{{Name: "A", Balance: 300}, {Name: "B", Balance: 100}, {Name: "C", Balance: 50}})
	require.NoError(t, err)
	for _, a := range []split.Action{
		split.SetAccountNumber{Value: "000123456"},
		split.SetRoutingNumber{Value: "011401533"},
		split.SetAccountType{Value: split.Savings},
		split.ToggleAccount{ID: "A"},
		split.ToggleAccount{ID: "B"},
		split.SetPaymentAmount{Value: "40"},
	} {
		state, err = split.Transition(state, a)
		require.NoError(t, err)
	}

	got := NewCompletedPayment(&session.Session{ID: "s1", State: state, ExpiresAt: time.Now()})

	assert.Equal(t, CompletedPayment{
		SessionID:     "s1",
		AccountNumber: "000123456",
		RoutingNumber: "011401533",
		AccountType:   split.Savings,
		Amount:        40,
		Allocations:   []Allocation{{Name: "A", Amount: 30}, {Name: "B", Amount: 10}},
	}, got)
}
