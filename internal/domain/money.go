package domain

import "strconv"

// FormatMoney renders an amount in minor units with dot thousands
// separators, the way receipts print Rupiah. Amounts are integral, so
// display never rounds.
func FormatMoney(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	out := make([]byte, 0, len(s)+len(s)/3+1)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}

	if neg {
		return "-" + string(out)
	}
	return string(out)
}
