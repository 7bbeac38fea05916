package split

// Prorate distributes target across the enabled accounts in proportion to
// their balances and returns the updated entries. Each share is rounded on
// its own, so the shares may differ from the rounded target by up to a cent.
// Disabled entries pass through untouched.
//
// When target is NaN or the enabled balance is zero every enabled entry ends
// up with no amount and no error.
func Prorate(accounts []AccountEntry, target float64) []AccountEntry {
	out := make([]AccountEntry, len(accounts))
	copy(out, accounts)

	selected := SelectedBalance(accounts)
	for i, account := range out {
		if !account.Enabled {
			continue
		}
		amount := Round(account.Balance / selected * target)
		if !finite(amount) {
			out[i] = account.withAmount(nil, "").withError("")
			continue
		}
		msg := ""
		if amount > account.Balance {
			msg = MsgInsufficientFunds
		}
		out[i] = account.withAmount(&amount, FormatAmount(amount)).withError(msg)
	}
	return out
}
