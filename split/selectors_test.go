package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func submittableForm(t *testing.T) FormState {
	t.Helper()
	return apply(t, newForm(t),
		SetAccountNumber{Value: "123456789"},
		SetConfirmAccountNumber{Value: "123456789"},
		SetRoutingNumber{Value: "021000021"},
		SetAccountType{Value: Checking},
		ToggleAccount{ID: "A"},
		ToggleAccount{ID: "B"},
		SetPaymentAmount{Value: "100"},
	)
}

func TestSummarize(t *testing.T) {
	s := submittableForm(t)

	got := Summarize(s)

	assert.Equal(t, Summary{
		TotalBalance:    65495,
		SelectedBalance: 60057,
		EnabledCount:    2,
		AllocatedTotal:  100,
		IsSubmittable:   true,
	}, got)
}

func TestIsSubmittable(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, s FormState) FormState
		want   bool
	}{
		{
			name:   "complete form",
			mutate: func(t *testing.T, s FormState) FormState { return s },
			want:   true,
		},
		{
			name: "invalid routing number",
			mutate: func(t *testing.T, s FormState) FormState {
				return apply(t, s, SetRoutingNumber{Value: "123"})
			},
		},
		{
			name: "confirmation mismatch",
			mutate: func(t *testing.T, s FormState) FormState {
				return apply(t, s, SetAccountNumber{Value: "987654321"})
			},
		},
		{
			name: "no account enabled",
			mutate: func(t *testing.T, s FormState) FormState {
				return apply(t, s, ToggleAccount{ID: "A"}, ToggleAccount{ID: "B"})
			},
		},
		{
			name: "line item over balance",
			mutate: func(t *testing.T, s FormState) FormState {
				return apply(t, s, SetAccountPayment{ID: "B", Value: "20000"})
			},
		},
		{
			name: "line item cleared",
			mutate: func(t *testing.T, s FormState) FormState {
				return apply(t, s, SetAccountPayment{ID: "B", Value: ""})
			},
		},
		{
			name: "account type never chosen",
			mutate: func(t *testing.T, s FormState) FormState {
				s.AccountType = FormField[AccountType]{}
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.mutate(t, submittableForm(t))
			assert.Equal(t, tt.want, IsSubmittable(s))
		})
	}
}

func TestEnabledCountAndBalances(t *testing.T) {
	s := apply(t, newForm(t), ToggleAccount{ID: "C"})

	assert.Equal(t, 1, EnabledCount(s.Accounts))
	assert.Equal(t, 5438.0, SelectedBalance(s.Accounts))
	assert.Equal(t, 65495.0, TotalBalance(s.Accounts))
	assert.Equal(t, 0.0, AllocatedTotal(s.Accounts))
}
