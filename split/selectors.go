package split

// TotalBalance is the balance of every account, selected or not.
func TotalBalance(accounts []AccountEntry) float64 {
	balances := make([]float64, 0, len(accounts))
	for _, account := range accounts {
		balances = append(balances, account.Balance)
	}
	return sum(balances...)
}

// SelectedBalance is the balance of the enabled accounts.
func SelectedBalance(accounts []AccountEntry) float64 {
	balances := make([]float64, 0, len(accounts))
	for _, account := range accounts {
		if account.Enabled {
			balances = append(balances, account.Balance)
		}
	}
	return sum(balances...)
}

func EnabledCount(accounts []AccountEntry) int {
	n := 0
	for _, account := range accounts {
		if account.Enabled {
			n++
		}
	}
	return n
}

// AllocatedTotal is the rounded sum of the enabled accounts' amounts.
func AllocatedTotal(accounts []AccountEntry) float64 {
	amounts := make([]float64, 0, len(accounts))
	for _, account := range accounts {
		if account.Enabled && account.Amount != nil {
			amounts = append(amounts, *account.Amount)
		}
	}
	return Round(sum(amounts...))
}

// IsSubmittable reports whether every scalar field is valid, at least one
// account is enabled, and every enabled account carries a valid amount.
func IsSubmittable(s FormState) bool {
	if !s.AccountNumber.IsValid || !s.ConfirmAccountNumber.IsValid || !s.RoutingNumber.IsValid ||
		!s.AccountType.IsValid || !s.PaymentAmount.IsValid {
		return false
	}
	enabled := 0
	for _, account := range s.Accounts {
		if !account.Enabled {
			continue
		}
		if !account.IsValid || account.Amount == nil {
			return false
		}
		enabled++
	}
	return enabled > 0
}

// Summary holds the read-only aggregates shown alongside the form.
type Summary struct {
	TotalBalance    float64 `json:"total_balance"`
	SelectedBalance float64 `json:"selected_balance"`
	EnabledCount    int     `json:"enabled_count"`
	AllocatedTotal  float64 `json:"allocated_total"`
	IsSubmittable   bool    `json:"is_submittable"`
}

func Summarize(s FormState) Summary {
	return Summary{
		TotalBalance:    TotalBalance(s.Accounts),
		SelectedBalance: SelectedBalance(s.Accounts),
		EnabledCount:    EnabledCount(s.Accounts),
		AllocatedTotal:  AllocatedTotal(s.Accounts),
		IsSubmittable:   IsSubmittable(s),
	}
}
