package usecase

// CommissionPolicy holds the two-level referral rates. Rates are basis points
// of the payment amount.
type CommissionPolicy struct {
	DirectBPS      int64
	IndirectBPS    int64
	ThresholdCents int64
}

// Share is one commission owed to an ancestor of the payer.
type Share struct {
	EarnerID    uint
	Level       int
	RateBPS     int64
	AmountCents int64
}

// Calculate splits commissions for a payment of amountCents made by payerID.
// chain lists the payer's referrers nearest first; only the first two are
// used. Payments not above the threshold earn nothing. A chain entry equal to
// the payer or to an earlier entry ends the walk.
func (p CommissionPolicy) Calculate(payerID uint, amountCents int64, chain []uint) []Share {
	if amountCents <= p.ThresholdCents || amountCents <= 0 {
		return nil
	}

	rates := []int64{p.DirectBPS, p.IndirectBPS}
	seen := map[uint]bool{payerID: true}

	var shares []Share
	for i, earnerID := range chain {
		if i >= len(rates) {
			break
		}
		if earnerID == 0 || seen[earnerID] {
			break
		}
		seen[earnerID] = true

		amount := amountCents * rates[i] / 10000
		if amount <= 0 {
			continue
		}
		shares = append(shares, Share{
			EarnerID:    earnerID,
			Level:       i + 1,
			RateBPS:     rates[i],
			AmountCents: amount,
		})
	}
	return shares
}
